package session

import (
	"context"
	"fmt"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/pkg/log"
)

// Store owns the load/save lifecycle of session contexts. A failed or
// malformed load yields an empty-but-valid context, never an error to
// the turn.
type Store struct {
	repo         core.SessionRepository
	maxExchanges int
	ttlTurns     int
}

func NewStore(repo core.SessionRepository, maxExchanges, ttlTurns int) *Store {
	return &Store{
		repo:         repo,
		maxExchanges: maxExchanges,
		ttlTurns:     ttlTurns,
	}
}

func (s *Store) Load(ctx context.Context, sessionID string) *Context {
	snap, err := s.repo.LoadSession(ctx, sessionID)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("session", sessionID).
			Msg("failed to load session, starting empty")
		return New(sessionID, s.maxExchanges, s.ttlTurns)
	}
	return FromSnapshot(sessionID, snap, s.maxExchanges, s.ttlTurns)
}

func (s *Store) Save(ctx context.Context, c *Context) error {
	if err := s.repo.SaveSession(ctx, c.ID, c.Snapshot()); err != nil {
		return fmt.Errorf("failed to save session %s: %w", c.ID, err)
	}
	return nil
}
