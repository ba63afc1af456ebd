package http

import (
	"sync"

	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// ConnectionManager tracks live gesture sessions so server-wide events,
// such as a gallery reload, reach every one of them
type ConnectionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		sessions: make(map[string]*Session),
	}
}

// Register adds a session
func (cm *ConnectionManager) Register(s *Session) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.sessions[s.ID()] = s
}

// Unregister removes a session; unknown ids are ignored
func (cm *ConnectionManager) Unregister(id string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.sessions, id)
}

// Broadcast hands an event to every session and returns how many took it
func (cm *ConnectionManager) Broadcast(event ports.UpdateEvent) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	delivered := 0
	for _, s := range cm.sessions {
		if s.notify(event) {
			delivered++
		}
	}
	return delivered
}

// Count returns the number of registered sessions
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.sessions)
}

// CloseAll ends every session
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for id, s := range cm.sessions {
		s.Close()
		delete(cm.sessions, id)
	}
}
