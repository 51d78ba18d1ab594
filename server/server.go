package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/multiboard/domain"
	"github.com/lazharichir/multiboard/domain/commands"
	"github.com/lazharichir/multiboard/server/connection"
	"github.com/lazharichir/multiboard/server/events"
	"github.com/lazharichir/multiboard/server/handlers"
	"github.com/lazharichir/multiboard/table"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	commandTimeout = 5 * time.Second
	shutdownWait   = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // no auth, every origin may connect
	},
}

// Server serves the REST API and the websocket transport
type Server struct {
	service    *table.Service
	rules      domain.TableRules
	settings   domain.Settings
	logger     *zap.Logger
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *events.Dispatcher
	router     chi.Router
}

// TableResponse represents a table in API responses
type TableResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	PlayerCount    int      `json:"playerCount"`
	Players        []string `json:"players"`
	SmallBlind     int      `json:"smallBlind"`
	BigBlind       int      `json:"bigBlind"`
	HandsPlayed    int      `json:"handsPlayed"`
	HandInProgress bool     `json:"handInProgress"`
	CurrentHand    string   `json:"currentHand,omitempty"`
}

// CreateTableRequest represents the request to create a new table. Zero
// fields take the server defaults.
type CreateTableRequest struct {
	Name               string `json:"name"`
	StartingChips      int    `json:"startingChips"`
	SmallBlind         int    `json:"smallBlind"`
	BigBlind           int    `json:"bigBlind"`
	HandsPerLevel      int    `json:"handsPerLevel"`
	Multiplier         int    `json:"multiplier"`
	TurnTimeoutSeconds int    `json:"turnTimeoutSeconds"`
	Seed               int64  `json:"seed"`
}

// NewServer wires the transport to service. It takes over the service's
// change callback, so create it before any table.
func NewServer(service *table.Service, rules domain.TableRules, settings domain.Settings, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	connMgr := connection.NewManager(logger.Named("connections"))
	dispatcher := events.NewDispatcher(connMgr, logger.Named("dispatcher"))
	cmdRouter := handlers.NewCommandRouter(service, connMgr, settings, logger.Named("commands"))

	service.OnChange(dispatcher.HandleSnapshot)
	service.Manager().AddEventHandler(dispatcher.HandleEvent)

	s := &Server{
		service:    service,
		rules:      rules,
		settings:   settings,
		logger:     logger,
		connMgr:    connMgr,
		cmdRouter:  cmdRouter,
		dispatcher: dispatcher,
	}
	s.router = s.routes()

	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(corsMiddleware)

	r.Get("/healthz", healthz)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api/tables", func(r chi.Router) {
		r.Get("/", s.handleGetTables)
		r.Post("/", s.handleCreateTable)

		r.Route("/{tableID}", func(r chi.Router) {
			r.Get("/", s.handleGetTable)
			r.Delete("/", s.handleDeleteTable)
			r.Post("/players", s.handleSeatPlayer)
			r.Delete("/players/{playerID}", s.handleRemovePlayer)
			r.Post("/hands", s.handleStartHand)
			r.Post("/actions", s.handleSubmitAction)
		})
	})

	return r
}

// Handler returns the HTTP handler without the listener lifecycle of Run
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down the listener and
// every table loop.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.connMgr.Start(gctx)
		return nil
	})

	g.Go(func() error {
		s.logger.Info("server listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("server shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		s.service.Stop()
		return err
	})

	return g.Wait()
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := connection.NewClient(uuid.NewString(), conn)
	s.logger.Info("client connected", zap.String("client_id", client.ID), zap.String("remote_addr", r.RemoteAddr))

	if !s.connMgr.Connect(client) {
		conn.Close()
		return
	}

	go s.writePump(client)
	go s.readPump(client)
}

// readPump reads commands from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Disconnect(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read failed", zap.String("client_id", client.ID), zap.Error(err))
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		name, err := s.cmdRouter.HandleCommand(ctx, client, message)
		cancel()
		if err != nil {
			s.connMgr.SendToClient(client.ID, events.ErrorEnvelope(name, err))
		}
	}
}

// writePump sends queued messages and keepalive pings
func (s *Server) writePump(client *connection.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Warn("websocket write failed", zap.String("client_id", client.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleGetTables returns a list of all tables
func (s *Server) handleGetTables(w http.ResponseWriter, r *http.Request) {
	tables := s.service.Manager().GetTables()
	responses := make([]TableResponse, 0, len(tables))
	for _, t := range tables {
		responses = append(responses, tableResponse(t.Snapshot()))
	}
	writeJSON(w, http.StatusOK, responses)
}

// handleCreateTable creates a new table
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("table name is required"))
		return
	}

	rules, err := s.rulesFrom(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	loop := s.service.CreateTable(req.Name, rules)
	snapshot, err := loop.Snapshot(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusCreated, tableResponse(snapshot))
}

func (s *Server) rulesFrom(req CreateTableRequest) (domain.TableRules, error) {
	rules := s.rules
	if req.StartingChips != 0 {
		rules.StartingChips = req.StartingChips
	}
	if req.SmallBlind != 0 {
		rules.Blinds.SmallBlind = req.SmallBlind
	}
	if req.BigBlind != 0 {
		rules.Blinds.BigBlind = req.BigBlind
	}
	if req.HandsPerLevel != 0 {
		rules.Blinds.HandsPerLevel = req.HandsPerLevel
	}
	if req.Multiplier != 0 {
		rules.Blinds.Multiplier = req.Multiplier
	}
	if req.TurnTimeoutSeconds != 0 {
		rules.TurnTimeout = time.Duration(req.TurnTimeoutSeconds) * time.Second
	}
	if req.Seed != 0 {
		rules.Seed = req.Seed
	}

	switch {
	case rules.StartingChips < 0:
		return rules, errors.New("starting chips cannot be negative")
	case rules.Blinds.SmallBlind < 0 || rules.Blinds.BigBlind < rules.Blinds.SmallBlind:
		return rules, errors.New("big blind must be at least the small blind")
	case rules.TurnTimeout < 0:
		return rules, errors.New("turn timeout cannot be negative")
	}
	return rules, nil
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	loop, err := s.service.Loop(chi.URLParam(r, "tableID"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	snapshot, err := loop.Snapshot(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	// spectator view: no hole cards before showdown
	writeJSON(w, http.StatusOK, snapshot.ForPlayer(""))
}

func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	tableID := chi.URLParam(r, "tableID")
	if err := s.service.DestroyTable(tableID); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.connMgr.RemoveTable(tableID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSeatPlayer(w http.ResponseWriter, r *http.Request) {
	loop, err := s.service.Loop(chi.URLParam(r, "tableID"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var cmd commands.JoinTable
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if cmd.PlayerID == "" {
		cmd.PlayerID = uuid.NewString()
	}
	if cmd.PlayerName == "" {
		cmd.PlayerName = cmd.PlayerID
	}

	if err := loop.Seat(r.Context(), domain.NewPlayer(cmd.PlayerID, cmd.PlayerName, cmd.Chips)); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		PlayerID string `json:"playerId"`
	}{PlayerID: cmd.PlayerID})
}

func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	loop, err := s.service.Loop(chi.URLParam(r, "tableID"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if err := loop.Leave(r.Context(), chi.URLParam(r, "playerID")); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartHand(w http.ResponseWriter, r *http.Request) {
	loop, err := s.service.Loop(chi.URLParam(r, "tableID"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	// an empty body starts a hand with the default settings
	var cmd commands.StartHand
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}
	}

	if err := loop.StartHand(r.Context(), handlers.SettingsWithDefaults(s.settings, cmd)); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	snapshot, err := loop.Snapshot(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot.ForPlayer(""))
}

func (s *Server) handleSubmitAction(w http.ResponseWriter, r *http.Request) {
	loop, err := s.service.Loop(chi.URLParam(r, "tableID"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var cmd commands.SubmitAction
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	action := domain.Action{Type: domain.ActionType(cmd.Type), BoardIndex: cmd.BoardIndex, Amount: cmd.Amount}
	if err := loop.SubmitAction(r.Context(), cmd.PlayerID, action); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	snapshot, err := loop.Snapshot(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot.ForPlayer(cmd.PlayerID))
}

func tableResponse(s domain.TableSnapshot) TableResponse {
	resp := TableResponse{
		ID:          s.ID,
		Name:        s.Name,
		PlayerCount: len(s.Players),
		Players:     make([]string, 0, len(s.Players)),
		SmallBlind:  s.SmallBlind,
		BigBlind:    s.BigBlind,
		HandsPlayed: s.HandsPlayed,
	}
	for _, p := range s.Players {
		resp.Players = append(resp.Players, p.ID)
	}
	if s.Hand != nil {
		resp.CurrentHand = s.Hand.ID
		resp.HandInProgress = s.Hand.Status == domain.HandStatusBetting
	}
	return resp
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrTableNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrPlayerAlreadySeated), errors.Is(err, domain.ErrHandInProgress),
		errors.Is(err, domain.ErrNoActiveHand):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAction), errors.Is(err, domain.ErrInvalidBetAmount),
		errors.Is(err, domain.ErrInsufficientChips), errors.Is(err, domain.ErrInvalidSettings),
		errors.Is(err, domain.ErrEmptyDeck):
		return http.StatusBadRequest
	case errors.Is(err, table.ErrLoopStopped), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}
