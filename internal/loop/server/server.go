// Package server tracks the editing sessions connected to one process and
// broadcasts lifecycle events to them.
package server

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Registry is the interface clients use to announce themselves.
// Each client owns its own editing session; the registry only carries
// connection bookkeeping and notices.
type Registry interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	Count() int
}

// Server keeps the set of connected clients.
type Server struct {
	clients      map[int]*ClientHandle
	nextClientID int
	mu           sync.RWMutex
	logger       *log.Logger
}

// Compile-time check that Server implements Registry.
var _ Registry = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID        int
	Username  string           // Display name for this client
	Connected time.Time        // When the client registered
	EventsCh  chan ClientEvent // Events sent to client (shutdown, notices)
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type    ClientEventType
	Message string // For notice events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventNotice
)

// NewServer creates a new registry. A nil logger discards output.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		logger:       logger,
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
// Other connected clients receive a notice.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:        s.nextClientID,
		Username:  username,
		Connected: time.Now(),
		EventsCh:  make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle

	s.logger.Info("client registered", "id", handle.ID, "user", username, "clients", len(s.clients))
	s.noticeLocked(handle.ID, fmt.Sprintf("%s joined (%d online)", displayName(username), len(s.clients)))
	return handle
}

// UnregisterClient removes a client from the server and closes its event channel.
// Unknown IDs are ignored.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)

	s.logger.Info("client unregistered", "id", clientID, "user", handle.Username,
		"session", time.Since(handle.Connected).Round(time.Second), "clients", len(s.clients))
	s.noticeLocked(clientID, fmt.Sprintf("%s left (%d online)", displayName(handle.Username), len(s.clients)))
}

// Count returns the number of connected clients.
func (s *Server) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown notifies all connected clients and waits for them to disconnect
// (up to the given timeout). It reports whether every client left in time.
func (s *Server) Shutdown(timeout time.Duration) bool {
	s.broadcastShutdown(min(shutdownSendTimeout, timeout))

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Count() == 0 {
			return true
		}
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.Count())
			return false
		case <-ticker.C:
		}
	}
}

// shutdownSendTimeout bounds how long Shutdown waits for room in full
// client event channels.
const shutdownSendTimeout = 500 * time.Millisecond

// broadcastShutdown sends EventServerShutdown to every client. Unlike
// notices it waits for room in a full channel, until one shared deadline
// passes for all clients.
func (s *Server) broadcastShutdown(wait time.Duration) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	expired := false
	for _, handle := range s.clients {
		ev := ClientEvent{Type: EventServerShutdown}
		if expired {
			select {
			case handle.EventsCh <- ev:
			default:
				s.logger.Warn("shutdown event dropped", "id", handle.ID)
			}
			continue
		}
		select {
		case handle.EventsCh <- ev:
		case <-timer.C:
			expired = true
			s.logger.Warn("shutdown event dropped", "id", handle.ID)
		}
	}
}

// noticeLocked sends msg to every client except skipID. Full channels drop
// the notice. Must be called with the lock held.
func (s *Server) noticeLocked(skipID int, msg string) {
	for id, handle := range s.clients {
		if id == skipID {
			continue
		}
		select {
		case handle.EventsCh <- ClientEvent{Type: EventNotice, Message: msg}:
		default:
		}
	}
}

func displayName(username string) string {
	if username == "" {
		return "someone"
	}
	return username
}
