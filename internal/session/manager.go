package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hirevox/hirevox/internal/service"
	"github.com/hirevox/hirevox/pkg/speech"
)

// ErrNotFound means the token resolves to no interview. The candidate client
// shows its terminal not-found screen and there is no way back.
var ErrNotFound = errors.New("interview not found")

// Manager owns the live sessions for one token surface. Each surface gets its
// own manager because the recording ceiling differs between them.
type Manager struct {
	store  Store
	clock  Clock
	caps   speech.Capabilities
	cfg    Config
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(store Store, caps speech.Capabilities, cfg Config, logger *slog.Logger) *Manager {
	return NewManagerWithClock(store, caps, cfg, logger, RealClock())
}

func NewManagerWithClock(store Store, caps speech.Capabilities, cfg Config, logger *slog.Logger, clock Clock) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    store,
		clock:    clock,
		caps:     caps,
		cfg:      cfg,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Session returns the live session for a token, creating one on first access.
// An unknown token is ErrNotFound.
func (m *Manager) Session(ctx context.Context, token string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[token]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	detail, err := m.store.InterviewByToken(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve interview token: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[token]; ok {
		return s, nil
	}
	s := newSession(*detail, m.store, m.clock, m.caps, m.cfg)
	m.sessions[token] = s
	m.logger.Info("interview session created",
		"token", token,
		"interview_id", detail.ID,
		"questions", len(detail.Questions))
	return s, nil
}

// Release closes and drops the session for a token, if any.
func (m *Manager) Release(token string) {
	m.mu.Lock()
	s, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// Shutdown closes every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
