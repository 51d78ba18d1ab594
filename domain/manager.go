package domain

import (
	"fmt"
	"sync"

	"github.com/lazharichir/multiboard/domain/events"
	"go.uber.org/zap"
)

// TableManager owns every table of the process. Tables are independent and
// each one serialises its own mutations.
type TableManager struct {
	mu     sync.RWMutex
	tables map[string]*Table
	order  []string
	logger *zap.Logger

	handlersMu    sync.RWMutex
	eventHandlers []events.EventHandler
}

// NewTableManager creates an empty manager. A nil logger discards logs.
func NewTableManager(logger *zap.Logger) *TableManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableManager{
		tables: make(map[string]*Table),
		logger: logger,
	}
}

// CreateTable creates a table and starts forwarding its events
func (m *TableManager) CreateTable(name string, rules TableRules) *Table {
	table := NewTable(name, rules)
	table.logger = m.logger.With(zap.String("table_id", table.ID))
	table.RegisterEventHandler(m.handleTableEvent)

	m.mu.Lock()
	m.tables[table.ID] = table
	m.order = append(m.order, table.ID)
	m.mu.Unlock()

	m.logger.Info("table created",
		zap.String("table_id", table.ID),
		zap.String("name", name),
		zap.Int("small_blind", rules.Blinds.SmallBlind),
		zap.Int("big_blind", rules.Blinds.BigBlind),
	)

	return table
}

// DestroyTable forgets a table. A hand in progress is abandoned with it.
func (m *TableManager) DestroyTable(tableID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tables[tableID]; !exists {
		return fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}

	delete(m.tables, tableID)
	for i, id := range m.order {
		if id == tableID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	m.logger.Info("table destroyed", zap.String("table_id", tableID))
	return nil
}

// GetTable retrieves a table by ID
func (m *TableManager) GetTable(tableID string) (*Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	table, exists := m.tables[tableID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}

	return table, nil
}

// GetTables returns all tables in creation order
func (m *TableManager) GetTables() []*Table {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tables := make([]*Table, 0, len(m.order))
	for _, id := range m.order {
		tables = append(tables, m.tables[id])
	}
	return tables
}

// SeatPlayer seats a new player. A zero stack means the table's starting chips.
func (m *TableManager) SeatPlayer(tableID, playerID, name string, chips int) error {
	table, err := m.GetTable(tableID)
	if err != nil {
		return err
	}
	return table.SeatPlayer(NewPlayer(playerID, name, chips))
}

func (m *TableManager) RemovePlayer(tableID, playerID string) error {
	table, err := m.GetTable(tableID)
	if err != nil {
		return err
	}
	return table.PlayerLeaves(playerID)
}

func (m *TableManager) StartHand(tableID string, settings Settings) error {
	table, err := m.GetTable(tableID)
	if err != nil {
		return err
	}
	return table.StartHand(settings)
}

func (m *TableManager) SubmitAction(tableID, playerID string, action Action) error {
	table, err := m.GetTable(tableID)
	if err != nil {
		return err
	}
	return table.SubmitAction(playerID, action)
}

func (m *TableManager) Snapshot(tableID string) (TableSnapshot, error) {
	table, err := m.GetTable(tableID)
	if err != nil {
		return TableSnapshot{}, err
	}
	return table.Snapshot(), nil
}

// AddEventHandler adds a handler receiving the events of every table.
// Handlers run while the emitting table is locked.
func (m *TableManager) AddEventHandler(handler events.EventHandler) {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()
	m.eventHandlers = append(m.eventHandlers, handler)
}

func (m *TableManager) handleTableEvent(event events.Event) {
	m.handlersMu.RLock()
	defer m.handlersMu.RUnlock()
	for _, handler := range m.eventHandlers {
		handler(event)
	}
}
