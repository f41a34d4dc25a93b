package cancel

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrBusy = errors.New("request already running")

// Manager tracks at most one running request per requester.
type Manager struct {
	requests map[int64]*activeRequest
	seq      uint64
	mu       sync.Mutex
}

type activeRequest struct {
	command string
	token   uint64
}

func NewManager() *Manager {
	return &Manager{
		requests: make(map[int64]*activeRequest),
	}
}

// Acquire registers command for requesterID and returns a context derived from
// parent plus a release func. ErrBusy is returned while another request of the
// same requester is registered.
func (m *Manager) Acquire(parent context.Context, requesterID int64, command string) (context.Context, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if running, exists := m.requests[requesterID]; exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrBusy, running.command)
	}

	ctx, cancel := context.WithCancel(parent)
	m.seq++
	req := &activeRequest{
		command: command,
		token:   m.seq,
	}
	m.requests[requesterID] = req

	release := func() {
		cancel()
		m.release(requesterID, req.token)
	}

	return ctx, release, nil
}

func (m *Manager) release(requesterID int64, token uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if req, exists := m.requests[requesterID]; exists && req.token == token {
		delete(m.requests, requesterID)
	}
}
