package table

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lazharichir/multiboard/domain"
	"go.uber.org/zap"
)

// ErrLoopStopped is returned for requests made after Stop
var ErrLoopStopped = errors.New("table loop stopped")

type requestKind string

const (
	requestSeat      requestKind = "seat"
	requestLeave     requestKind = "leave"
	requestStartHand requestKind = "start_hand"
	requestAction    requestKind = "action"
	requestSnapshot  requestKind = "snapshot"
	requestTimeout   requestKind = "timeout"
)

type request struct {
	kind     requestKind
	playerID string
	player   *domain.Player
	action   domain.Action
	settings domain.Settings
	seq      uint64 // turn the timeout was armed for
	reply    chan result
}

type result struct {
	snapshot domain.TableSnapshot
	err      error
}

// SnapshotHandler receives the table state after every accepted change
type SnapshotHandler func(snapshot domain.TableSnapshot)

// Loop serialises every request for one table through a single goroutine
// and runs the turn clock. When a player's turn runs out the loop folds them
// on the first board where they owe action.
type Loop struct {
	table     *domain.Table
	logger    *zap.Logger
	timeout   time.Duration
	onChange  SnapshotHandler
	inbox     chan request
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once

	// owned by the loop goroutine
	timer *time.Timer
	seq   uint64
}

type Option func(*Loop)

func WithLogger(logger *zap.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithTurnTimeout overrides the table's turn clock. Zero disables it.
func WithTurnTimeout(d time.Duration) Option {
	return func(l *Loop) { l.timeout = d }
}

func WithSnapshotHandler(handler SnapshotHandler) Option {
	return func(l *Loop) { l.onChange = handler }
}

// NewLoop creates a loop for table. Call Start before sending requests.
func NewLoop(table *domain.Table, opts ...Option) *Loop {
	ctx, cancel := context.WithCancel(context.Background())

	l := &Loop{
		table:   table,
		logger:  zap.NewNop(),
		timeout: table.Rules.TurnTimeout,
		inbox:   make(chan request, 64),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(zap.String("table_id", table.ID))

	return l
}

// Start runs the loop goroutine
func (l *Loop) Start() {
	l.startOnce.Do(func() {
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.run()
		}()
	})
}

// Stop cancels the loop and waits for it to exit
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.cancel()
		l.wg.Wait()
	})
}

func (l *Loop) TableID() string {
	return l.table.ID
}

func (l *Loop) Seat(ctx context.Context, player *domain.Player) error {
	_, err := l.do(ctx, request{kind: requestSeat, player: player})
	return err
}

func (l *Loop) Leave(ctx context.Context, playerID string) error {
	_, err := l.do(ctx, request{kind: requestLeave, playerID: playerID})
	return err
}

func (l *Loop) StartHand(ctx context.Context, settings domain.Settings) error {
	_, err := l.do(ctx, request{kind: requestStartHand, settings: settings})
	return err
}

func (l *Loop) SubmitAction(ctx context.Context, playerID string, action domain.Action) error {
	_, err := l.do(ctx, request{kind: requestAction, playerID: playerID, action: action})
	return err
}

// Snapshot returns the table state as seen from inside the loop
func (l *Loop) Snapshot(ctx context.Context) (domain.TableSnapshot, error) {
	res, err := l.do(ctx, request{kind: requestSnapshot})
	return res.snapshot, err
}

// do sends a request and waits for its reply
func (l *Loop) do(ctx context.Context, req request) (result, error) {
	req.reply = make(chan result, 1)

	select {
	case l.inbox <- req:
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-l.ctx.Done():
		return result{}, ErrLoopStopped
	}

	select {
	case res := <-req.reply:
		return res, res.err
	case <-ctx.Done():
		return result{}, ctx.Err()
	case <-l.ctx.Done():
		return result{}, ErrLoopStopped
	}
}

func (l *Loop) run() {
	defer l.stopTimer()

	for {
		select {
		case <-l.ctx.Done():
			return
		case req := <-l.inbox:
			res := l.handle(req)
			if req.reply != nil {
				req.reply <- res
			}
		}
	}
}

func (l *Loop) handle(req request) result {
	var err error

	switch req.kind {
	case requestSnapshot:
		return result{snapshot: l.table.Snapshot()}
	case requestSeat:
		err = l.table.SeatPlayer(req.player)
	case requestLeave:
		err = l.table.PlayerLeaves(req.playerID)
	case requestStartHand:
		err = l.table.StartHand(req.settings)
	case requestAction:
		err = l.table.SubmitAction(req.playerID, req.action)
	case requestTimeout:
		if req.seq != l.seq {
			// the turn moved on before the timer fired
			return result{}
		}
		l.logger.Info("turn timed out", zap.String("player_id", req.playerID))
		err = l.table.ForfeitTurn(req.playerID)
	}

	if err != nil {
		return result{err: err}
	}

	snapshot := l.table.Snapshot()
	if req.kind != requestSeat && req.kind != requestLeave {
		l.armTimer(snapshot)
	}
	if l.onChange != nil {
		l.onChange(snapshot)
	}

	return result{snapshot: snapshot}
}

// armTimer cancels the running turn clock and starts a new one for whoever
// has to act now.
func (l *Loop) armTimer(snapshot domain.TableSnapshot) {
	l.stopTimer()
	l.seq++

	if l.timeout <= 0 || snapshot.Hand == nil || snapshot.Hand.TurnID == "" {
		return
	}

	seq, playerID := l.seq, snapshot.Hand.TurnID
	l.timer = time.AfterFunc(l.timeout, func() {
		select {
		case l.inbox <- request{kind: requestTimeout, playerID: playerID, seq: seq}:
		case <-l.ctx.Done():
		}
	})
}

func (l *Loop) stopTimer() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}
