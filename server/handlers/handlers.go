package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lazharichir/multiboard/domain"
	"github.com/lazharichir/multiboard/domain/commands"
	"github.com/lazharichir/multiboard/server/connection"
	serverevents "github.com/lazharichir/multiboard/server/events"
	"github.com/lazharichir/multiboard/table"
	"go.uber.org/zap"
)

var (
	ErrUnknownCommand = errors.New("unknown command type")
	ErrNotAtTable     = errors.New("client is not at the table")
	ErrNotYourPlayer  = errors.New("client plays as another player")
)

// CommandRouter routes incoming commands to the appropriate handler
type CommandRouter struct {
	service  *table.Service
	connMgr  *connection.Manager
	settings domain.Settings
	logger   *zap.Logger
}

// NewCommandRouter creates a new command router. settings fill the fields a
// start-hand command leaves out.
func NewCommandRouter(service *table.Service, connMgr *connection.Manager, settings domain.Settings, logger *zap.Logger) *CommandRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandRouter{
		service:  service,
		connMgr:  connMgr,
		settings: settings,
		logger:   logger,
	}
}

// HandleCommand decodes and runs one command message. It returns the command
// name along with any error so the caller can report it.
func (r *CommandRouter) HandleCommand(ctx context.Context, client *connection.Client, message []byte) (string, error) {
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return "", err
	}

	logger := r.logger.With(zap.String("client_id", client.ID), zap.String("command", baseCmd.Name))
	logger.Debug("command received")

	var err error
	switch baseCmd.Name {
	case commands.JoinTable{}.Name():
		var cmd commands.JoinTable
		if err = json.Unmarshal(message, &cmd); err == nil {
			err = r.handleJoinTable(ctx, client, cmd)
		}

	case commands.LeaveTable{}.Name():
		var cmd commands.LeaveTable
		if err = json.Unmarshal(message, &cmd); err == nil {
			err = r.handleLeaveTable(ctx, client, cmd)
		}

	case commands.StartHand{}.Name():
		var cmd commands.StartHand
		if err = json.Unmarshal(message, &cmd); err == nil {
			err = r.handleStartHand(ctx, client, cmd)
		}

	case commands.SubmitAction{}.Name():
		var cmd commands.SubmitAction
		if err = json.Unmarshal(message, &cmd); err == nil {
			err = r.handleSubmitAction(ctx, client, cmd)
		}

	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, baseCmd.Name)
	}

	if err != nil {
		logger.Info("command rejected", zap.Error(err))
	}
	return baseCmd.Name, err
}

// playerFor resolves which player a command acts for. A client that has
// joined as a player can only act for that player.
func (r *CommandRouter) playerFor(client *connection.Client, playerID string) (string, error) {
	bound := r.connMgr.PlayerID(client.ID)
	switch {
	case bound == "" && playerID == "":
		return "", fmt.Errorf("%w: no player id", domain.ErrPlayerNotFound)
	case bound == "":
		return playerID, nil
	case playerID == "" || playerID == bound:
		return bound, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotYourPlayer, playerID)
}

func (r *CommandRouter) handleJoinTable(ctx context.Context, client *connection.Client, cmd commands.JoinTable) error {
	loop, err := r.service.Loop(cmd.TableID)
	if err != nil {
		return err
	}

	playerID, err := r.playerFor(client, cmd.PlayerID)
	if err != nil {
		return err
	}

	// follow the table first so the seat snapshot reaches this client
	r.connMgr.AddPlayerToClient(client.ID, playerID)
	r.connMgr.AddTableToClient(client.ID, cmd.TableID)

	err = loop.Seat(ctx, domain.NewPlayer(playerID, cmd.PlayerName, cmd.Chips))
	switch {
	case errors.Is(err, domain.ErrPlayerAlreadySeated):
		// reconnecting: send the current state instead
		snapshot, err := loop.Snapshot(ctx)
		if err != nil {
			return err
		}
		envelope, err := serverevents.Envelope(serverevents.SnapshotMessage, snapshot.ForPlayer(playerID))
		if err != nil {
			return err
		}
		r.connMgr.SendToPlayer(playerID, envelope)
		return nil
	case err != nil:
		r.connMgr.RemoveTableFromClient(client.ID, cmd.TableID)
		return err
	}

	return nil
}

func (r *CommandRouter) handleLeaveTable(ctx context.Context, client *connection.Client, cmd commands.LeaveTable) error {
	loop, err := r.service.Loop(cmd.TableID)
	if err != nil {
		return err
	}

	playerID, err := r.playerFor(client, cmd.PlayerID)
	if err != nil {
		return err
	}

	if err := loop.Leave(ctx, playerID); err != nil {
		return err
	}

	r.connMgr.RemoveTableFromClient(client.ID, cmd.TableID)
	return nil
}

func (r *CommandRouter) handleStartHand(ctx context.Context, client *connection.Client, cmd commands.StartHand) error {
	if !r.connMgr.IsClientAtTable(client.ID, cmd.TableID) {
		return fmt.Errorf("%w: %s", ErrNotAtTable, cmd.TableID)
	}

	loop, err := r.service.Loop(cmd.TableID)
	if err != nil {
		return err
	}

	return loop.StartHand(ctx, SettingsWithDefaults(r.settings, cmd))
}

func (r *CommandRouter) handleSubmitAction(ctx context.Context, client *connection.Client, cmd commands.SubmitAction) error {
	if !r.connMgr.IsClientAtTable(client.ID, cmd.TableID) {
		return fmt.Errorf("%w: %s", ErrNotAtTable, cmd.TableID)
	}

	loop, err := r.service.Loop(cmd.TableID)
	if err != nil {
		return err
	}

	playerID, err := r.playerFor(client, cmd.PlayerID)
	if err != nil {
		return err
	}

	return loop.SubmitAction(ctx, playerID, domain.Action{
		Type:       domain.ActionType(cmd.Type),
		BoardIndex: cmd.BoardIndex,
		Amount:     cmd.Amount,
	})
}

// SettingsWithDefaults takes every field the command leaves at its zero value
// from defaults
func SettingsWithDefaults(defaults domain.Settings, cmd commands.StartHand) domain.Settings {
	settings := domain.Settings{
		DeckCount:      cmd.DeckCount,
		NumBoards:      cmd.NumBoards,
		NumPlayerCards: cmd.NumPlayerCards,
		CardsPerStage:  cmd.CardsPerStage,
	}
	if settings.DeckCount == 0 {
		settings.DeckCount = defaults.DeckCount
	}
	if settings.NumBoards == 0 {
		settings.NumBoards = defaults.NumBoards
	}
	if settings.NumPlayerCards == 0 {
		settings.NumPlayerCards = defaults.NumPlayerCards
	}
	if settings.CardsPerStage == nil {
		settings.CardsPerStage = append([]int(nil), defaults.CardsPerStage...)
	}
	return settings
}
