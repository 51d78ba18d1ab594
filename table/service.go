package table

import (
	"fmt"
	"sync"

	"github.com/lazharichir/multiboard/domain"
	"go.uber.org/zap"
)

// Service runs one Loop per table of a TableManager
type Service struct {
	manager  *domain.TableManager
	logger   *zap.Logger
	onChange func(tableID string, snapshot domain.TableSnapshot)

	mu    sync.RWMutex
	loops map[string]*Loop
}

func NewService(manager *domain.TableManager, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		manager: manager,
		logger:  logger,
		loops:   make(map[string]*Loop),
	}
}

// OnChange sets the callback receiving every table's snapshots. Set it before
// creating tables.
func (s *Service) OnChange(handler func(tableID string, snapshot domain.TableSnapshot)) {
	s.onChange = handler
}

func (s *Service) Manager() *domain.TableManager {
	return s.manager
}

// CreateTable creates a table and starts its loop
func (s *Service) CreateTable(name string, rules domain.TableRules) *Loop {
	table := s.manager.CreateTable(name, rules)

	opts := []Option{WithLogger(s.logger)}
	if s.onChange != nil {
		onChange := s.onChange
		opts = append(opts, WithSnapshotHandler(func(snapshot domain.TableSnapshot) {
			onChange(table.ID, snapshot)
		}))
	}

	loop := NewLoop(table, opts...)
	loop.Start()

	s.mu.Lock()
	s.loops[table.ID] = loop
	s.mu.Unlock()

	return loop
}

// DestroyTable stops the table's loop and removes the table
func (s *Service) DestroyTable(tableID string) error {
	s.mu.Lock()
	loop, exists := s.loops[tableID]
	delete(s.loops, tableID)
	s.mu.Unlock()

	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrTableNotFound, tableID)
	}

	loop.Stop()
	return s.manager.DestroyTable(tableID)
}

func (s *Service) Loop(tableID string) (*Loop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loop, exists := s.loops[tableID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrTableNotFound, tableID)
	}
	return loop, nil
}

// Stop stops every loop
func (s *Service) Stop() {
	s.mu.Lock()
	loops := s.loops
	s.loops = make(map[string]*Loop)
	s.mu.Unlock()

	for _, loop := range loops {
		loop.Stop()
	}
}
