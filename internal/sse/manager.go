package sse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/exlibrismoi/exlibris-server/internal/id"
)

// Client represents a connected SSE client.
type Client struct {
	ConnectedAt time.Time
	EventChan   chan Event
	Done        chan struct{}
	ID          string
	// UserID scopes delivery: only events addressed to this user (or
	// broadcast to all) reach the client.
	UserID string
}

// Manager manages SSE connections and broadcasts events.
type Manager struct {
	clients           map[string]*Client
	events            chan Event
	logger            *slog.Logger
	wg                sync.WaitGroup
	heartbeatInterval time.Duration
	mu                sync.RWMutex

	// Shutdown state - protected by shutdownMu
	shutdownMu sync.RWMutex
	shutdown   bool
}

// NewManager creates a new SSE Manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		clients:           make(map[string]*Client),
		events:            make(chan Event, 1000), // Buffer 1000 events
		logger:            logger,
		heartbeatInterval: 30 * time.Second,
	}
}

// Start begins the event broadcasting loop.
// This should be called once at server startup in a goroutine.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	defer m.wg.Done()

	m.logger.Info("SSE manager starting")

	heartbeatTicker := time.NewTicker(m.heartbeatInterval)
	defer heartbeatTicker.Stop()

	for {
		select {
		case event := <-m.events:
			m.broadcast(event)

		case <-heartbeatTicker.C:
			m.broadcast(NewHeartbeatEvent())

		case <-ctx.Done():
			m.logger.Info("SSE manager stopping")
			m.closeAllClients()
			return
		}
	}
}

// Shutdown gracefully shuts down the manager.
// It stops accepting new events, drains remaining events, and closes
// all clients.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info("SSE manager shutdown initiated")

	// Mark as shutdown AND close channel atomically while holding the
	// lock. This prevents a race with Emit() which holds the read lock
	// during send.
	m.shutdownMu.Lock()
	m.shutdown = true
	close(m.events)
	m.shutdownMu.Unlock()

	// Drain remaining events with context timeout.
	done := make(chan struct{})
	go func() {
		for event := range m.events {
			m.broadcast(event)
		}
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("SSE events drained successfully")
	case <-ctx.Done():
		m.logger.Warn("SSE event drain timeout, some events may be lost")
	}

	m.wg.Wait()

	m.logger.Info("SSE manager shutdown complete")
	return nil
}

// broadcast sends an event to connected clients, filtered by user.
func (m *Manager) broadcast(event Event) {
	var delivered, dropped, filtered int

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clients {
		if !event.forUser(client.UserID) {
			filtered++
			continue
		}

		// Non-blocking send (drop if client is slow/stuck).
		select {
		case client.EventChan <- event:
			delivered++
		default:
			dropped++
			m.logger.Warn("dropped event for slow client",
				slog.String("client_id", client.ID),
				slog.String("event_type", string(event.Type)))
		}
	}

	if event.Type != EventHeartbeat {
		m.logger.Debug("event broadcast",
			slog.String("event_type", string(event.Type)),
			slog.Group("stats",
				slog.Int("delivered", delivered),
				slog.Int("filtered", filtered),
				slog.Int("dropped", dropped)))
	}
}

// Connect registers a new SSE client scoped to a user and returns the
// client object.
func (m *Manager) Connect(userID string) (*Client, error) {
	clientID, err := id.Generate("sse")
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:          clientID,
		UserID:      userID,
		EventChan:   make(chan Event, 100), // Buffer 100 events per client
		Done:        make(chan struct{}),
		ConnectedAt: time.Now(),
	}

	m.mu.Lock()
	m.clients[client.ID] = client
	totalClients := len(m.clients)
	m.mu.Unlock()

	m.logger.Info("SSE client connected",
		slog.String("client_id", clientID),
		slog.String("user_id", userID),
		slog.Int("total_clients", totalClients))
	return client, nil
}

// Disconnect removes a client and closes its channels.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	client, ok := m.clients[clientID]
	if !ok {
		m.mu.Unlock()
		return
	}
	delete(m.clients, clientID)
	totalClients := len(m.clients)
	m.mu.Unlock()

	close(client.Done)
	close(client.EventChan)

	m.logger.Info("SSE client disconnected",
		slog.String("client_id", clientID),
		slog.Duration("duration", time.Since(client.ConnectedAt)),
		slog.Int("total_clients", totalClients))
}

// Emit queues an event for broadcasting to clients.
// This implements the store.EventEmitter interface.
func (m *Manager) Emit(event any) {
	evt, ok := event.(Event)
	if !ok {
		m.logger.Error("invalid event type emitted")
		return
	}

	// Hold the read lock through the entire send operation. This
	// prevents a race with Shutdown() which closes the channel under
	// the write lock.
	m.shutdownMu.RLock()
	defer m.shutdownMu.RUnlock()

	if m.shutdown {
		// Events after shutdown are expected and silently dropped.
		return
	}

	select {
	case m.events <- evt:
		// Event queued for broadcast.
	default:
		m.logger.Error("SSE event channel full, dropping event",
			slog.String("event_type", string(evt.Type)))
	}
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// closeAllClients disconnects every client during shutdown.
func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, client := range m.clients {
		close(client.Done)
		close(client.EventChan)
		delete(m.clients, id)
	}
}
