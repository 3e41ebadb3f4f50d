package memory

import (
	"context"
	"sync"

	"localmarket/internal/domain/model"
	repo "localmarket/internal/repository"
)

type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]model.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: map[string]model.Session{}}
}

func (r *SessionRepository) Create(ctx context.Context, s model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.ID]; exists {
		return repo.ErrConflict
	}
	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *SessionRepository) Find(ctx context.Context, sessionID string) (model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return model.Session{}, repo.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

// fnがエラーを返したら保存しない
func (r *SessionRepository) Update(ctx context.Context, sessionID string, fn func(s *model.Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return repo.ErrSessionNotFound
	}

	working := cloneSession(s)
	if err := fn(&working); err != nil {
		return err
	}
	r.sessions[sessionID] = cloneSession(working)
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sessionID]; !ok {
		return repo.ErrSessionNotFound
	}
	delete(r.sessions, sessionID)
	return nil
}

func cloneSession(s model.Session) model.Session {
	lines := make(map[string]int, len(s.Cart.Lines))
	for id, q := range s.Cart.Lines {
		lines[id] = q
	}
	s.Cart.Lines = lines
	if s.User.Merchant != nil {
		m := *s.User.Merchant
		s.User.Merchant = &m
	}
	return s
}
