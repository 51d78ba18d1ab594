package connection

import (
	"context"
	"slices"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client represents a connected websocket
type Client struct {
	ID       string
	Conn     *websocket.Conn
	Send     chan []byte
	PlayerID string   // set once the client joins a table
	TableIDs []string // tables the client follows
}

// NewClient creates a client with a buffered send queue
func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, 256),
	}
}

// Manager handles all client connections
type Manager struct {
	clients   map[string]*Client // connection IDs to clients
	playerMap map[string]string  // player IDs to connection IDs
	stopped   bool
	mutex     sync.RWMutex
	logger    *zap.Logger
}

// NewManager creates a new connection manager
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		clients:   make(map[string]*Client),
		playerMap: make(map[string]string),
		logger:    logger,
	}
}

// Start blocks until ctx is done, then closes every client and refuses new
// ones. A manager cannot be restarted.
func (m *Manager) Start(ctx context.Context) {
	<-ctx.Done()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.stopped = true
	for id, client := range m.clients {
		delete(m.clients, id)
		close(client.Send)
	}
	m.playerMap = make(map[string]string)
}

// Connect registers client. It returns false once the manager has stopped.
func (m *Manager) Connect(client *Client) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.stopped {
		return false
	}
	m.clients[client.ID] = client
	if client.PlayerID != "" {
		m.playerMap[client.PlayerID] = client.ID
	}
	m.logger.Debug("client registered", zap.String("client_id", client.ID))
	return true
}

// Disconnect unregisters client and closes its send queue
func (m *Manager) Disconnect(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.clients[client.ID]; !ok {
		return
	}
	if client.PlayerID != "" && m.playerMap[client.PlayerID] == client.ID {
		delete(m.playerMap, client.PlayerID)
	}
	delete(m.clients, client.ID)
	close(client.Send)
	m.logger.Debug("client unregistered", zap.String("client_id", client.ID))
}

// send queues a message without blocking. A client whose queue is full
// misses the message. Callers hold the read lock.
func (m *Manager) send(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		m.logger.Warn("client send queue full, dropping message", zap.String("client_id", client.ID))
		return false
	}
}

// SendToClient sends a message to one connection
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return m.send(client, message)
	}
	return false
}

// SendToPlayer sends a message to a specific player
func (m *Manager) SendToPlayer(playerID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if connID, exists := m.playerMap[playerID]; exists {
		if client, ok := m.clients[connID]; ok {
			return m.send(client, message)
		}
	}
	return false
}

// SendToTable sends a message to all clients following a table
func (m *Manager) SendToTable(tableID string, message []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		if slices.Contains(client.TableIDs, tableID) {
			m.send(client, message)
		}
	}
}

// SendToTableFunc builds one message per client following a table. build
// receives the client's player ID, empty for spectators, and may return nil
// to skip the client.
func (m *Manager) SendToTableFunc(tableID string, build func(playerID string) []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		if !slices.Contains(client.TableIDs, tableID) {
			continue
		}
		if message := build(client.PlayerID); message != nil {
			m.send(client, message)
		}
	}
}

// AddPlayerToClient links a player ID to a connection
func (m *Manager) AddPlayerToClient(clientID string, playerID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	if client.PlayerID != "" && client.PlayerID != playerID {
		delete(m.playerMap, client.PlayerID)
	}
	client.PlayerID = playerID
	m.playerMap[playerID] = clientID
	return true
}

// PlayerID returns the player linked to a connection
func (m *Manager) PlayerID(clientID string) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return client.PlayerID
	}
	return ""
}

// AddTableToClient adds a table ID to a client's tables
func (m *Manager) AddTableToClient(clientID string, tableID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[clientID]; ok {
		if !slices.Contains(client.TableIDs, tableID) {
			client.TableIDs = append(client.TableIDs, tableID)
		}
		return true
	}
	return false
}

// RemoveTableFromClient removes a table ID from a client's tables
func (m *Manager) RemoveTableFromClient(clientID string, tableID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[clientID]; ok {
		if i := slices.Index(client.TableIDs, tableID); i >= 0 {
			client.TableIDs = slices.Delete(client.TableIDs, i, i+1)
			return true
		}
	}
	return false
}

// RemoveTable stops every client from following a destroyed table
func (m *Manager) RemoveTable(tableID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, client := range m.clients {
		if i := slices.Index(client.TableIDs, tableID); i >= 0 {
			client.TableIDs = slices.Delete(client.TableIDs, i, i+1)
		}
	}
}

// IsClientAtTable checks if a client is at a specific table
func (m *Manager) IsClientAtTable(clientID string, tableID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if client, ok := m.clients[clientID]; ok {
		return slices.Contains(client.TableIDs, tableID)
	}
	return false
}

// Count returns the number of connected clients
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}
