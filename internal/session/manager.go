package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusStarting Status = "starting"
	StatusActive   Status = "active"
	StatusEnded    Status = "ended"
	StatusFailed   Status = "failed"
)

var (
	ErrNotFound   = errors.New("conversation not found")
	ErrBadToken   = errors.New("invalid conversation token")
	ErrTerminated = errors.New("conversation already terminated")
)

// Session is one spoken conversation. It is created in StatusStarting when
// the HTTP request arrives and moves to StatusActive once the client's audio
// transport attaches. StatusEnded and StatusFailed are terminal.
type Session struct {
	ID              string    `json:"conversation_id"`
	ParticipantName string    `json:"participant_name"`
	BirthDate       string    `json:"birth_date,omitempty"`
	VoiceID         string    `json:"voice_id"`
	RoomURL         string    `json:"room_url"`
	Token           string    `json:"-"`
	Status          Status    `json:"status"`
	ActiveTurnID    string    `json:"active_turn_id"`
	StartedAt       time.Time `json:"started_at"`
	LastActivityAt  time.Time `json:"last_activity_at"`
}

func (s *Session) Terminal() bool {
	return s.Status == StatusEnded || s.Status == StatusFailed
}

type Manager struct {
	mu                sync.RWMutex
	sessions          map[string]*Session
	inactivityTimeout time.Duration
	onExpire          func(*Session)
}

func NewManager(inactivityTimeout time.Duration) *Manager {
	if inactivityTimeout <= 0 {
		inactivityTimeout = 2 * time.Minute
	}
	return &Manager{
		sessions:          make(map[string]*Session),
		inactivityTimeout: inactivityTimeout,
	}
}

func (m *Manager) SetExpireHook(hook func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = hook
}

func (m *Manager) Create(participantName, birthDate, voiceID string) *Session {
	now := time.Now().UTC()
	id := uuid.NewString()
	s := &Session{
		ID:              id,
		ParticipantName: participantName,
		BirthDate:       birthDate,
		VoiceID:         voiceID,
		RoomURL:         "/v1/conversations/ws?conversation_id=" + id,
		Token:           newToken(),
		Status:          StatusStarting,
		StartedAt:       now,
		LastActivityAt:  now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return clone(s)
}

func (m *Manager) Get(conversationID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

// Attach validates the transport credential and moves the conversation from
// starting to active. A second attach on a live conversation is rejected.
func (m *Manager) Attach(conversationID, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Token != token {
		return nil, ErrBadToken
	}
	if s.Terminal() {
		return nil, ErrTerminated
	}
	if s.Status == StatusActive {
		return nil, errors.New("conversation already has an attached transport")
	}
	s.Status = StatusActive
	s.LastActivityAt = time.Now().UTC()
	return clone(s), nil
}

func (m *Manager) Touch(conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[conversationID]
	if !ok {
		return ErrNotFound
	}
	s.LastActivityAt = time.Now().UTC()
	return nil
}

func (m *Manager) StartTurn(conversationID, turnID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[conversationID]
	if !ok {
		return ErrNotFound
	}
	s.ActiveTurnID = turnID
	s.LastActivityAt = time.Now().UTC()
	return nil
}

func (m *Manager) End(conversationID string) (*Session, error) {
	return m.terminate(conversationID, StatusEnded)
}

// Fail marks a conversation that died from an unrecoverable pipeline error.
func (m *Manager) Fail(conversationID string) (*Session, error) {
	return m.terminate(conversationID, StatusFailed)
}

func (m *Manager) terminate(conversationID string, status Status) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.Terminal() {
		s.Status = status
	}
	s.ActiveTurnID = ""
	s.LastActivityAt = time.Now().UTC()
	return clone(s), nil
}

func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.expireInactive()
			}
		}
	}()
}

func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.sessions {
		if s.Status == StatusActive || s.Status == StatusStarting {
			count++
		}
	}
	return count
}

func (m *Manager) expireInactive() {
	now := time.Now().UTC()
	var expired []*Session

	m.mu.Lock()
	for _, s := range m.sessions {
		if s.Terminal() {
			continue
		}
		if now.Sub(s.LastActivityAt) < m.inactivityTimeout {
			continue
		}
		s.Status = StatusEnded
		s.ActiveTurnID = ""
		s.LastActivityAt = now
		expired = append(expired, clone(s))
	}
	hook := m.onExpire
	m.mu.Unlock()

	if hook != nil {
		for _, s := range expired {
			hook(s)
		}
	}
}

func newToken() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}

func clone(s *Session) *Session {
	c := *s
	return &c
}
