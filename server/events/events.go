package events

import (
	"encoding/json"

	"github.com/lazharichir/multiboard/domain"
	"github.com/lazharichir/multiboard/domain/events"
	"github.com/lazharichir/multiboard/server/connection"
	"go.uber.org/zap"
)

const (
	SnapshotMessage = "table-snapshot"
	ErrorMessage    = "error"
)

// EventEnvelope wraps an event with its name for client consumption
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Envelope marshals payload into an envelope named name
func Envelope(name string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventEnvelope{Name: name, Payload: data})
}

// ErrorEnvelope is the reply sent when a command is rejected
func ErrorEnvelope(command string, err error) []byte {
	data, _ := Envelope(ErrorMessage, struct {
		Command string `json:"command,omitempty"`
		Error   string `json:"error"`
	}{Command: command, Error: err.Error()})
	return data
}

// Dispatcher handles routing events and snapshots to clients
type Dispatcher struct {
	connMgr *connection.Manager
	logger  *zap.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(connMgr *connection.Manager, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		connMgr: connMgr,
		logger:  logger,
	}
}

// HandleEvent forwards a domain event to every client following its table
func (d *Dispatcher) HandleEvent(event events.Event) {
	tableID := events.ExtractTableID(event)
	if tableID == "" {
		return
	}

	envelope, err := Envelope(event.Name(), event)
	if err != nil {
		d.logger.Error("failed to marshal event", zap.String("event", event.Name()), zap.Error(err))
		return
	}

	d.connMgr.SendToTable(tableID, envelope)
}

// HandleSnapshot sends each client following the table the snapshot as its
// player may see it
func (d *Dispatcher) HandleSnapshot(tableID string, snapshot domain.TableSnapshot) {
	d.connMgr.SendToTableFunc(tableID, func(playerID string) []byte {
		envelope, err := Envelope(SnapshotMessage, snapshot.ForPlayer(playerID))
		if err != nil {
			d.logger.Error("failed to marshal snapshot", zap.String("table_id", tableID), zap.Error(err))
			return nil
		}
		return envelope
	})
}
