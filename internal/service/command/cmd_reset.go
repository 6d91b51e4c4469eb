package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/voxbot/internal/service/session"
)

// ContextResetter is any per-session state holder outside the session
// store that a reset must also clear. The slot-filling resolver keeps
// its in-progress intent here.
type ContextResetter interface {
	Reset(sessionID string)
}

// ResetCommand wipes the session's conversational memory: history,
// facts, the short-lived weather/event references and any in-progress
// resolver state. Registered under two names so "/forget" works too.
type ResetCommand struct {
	name      string
	store     *session.Store
	resetters []ContextResetter
}

func NewResetCommand(store *session.Store, name string, resetters ...ContextResetter) *ResetCommand {
	return &ResetCommand{
		name:      name,
		store:     store,
		resetters: resetters,
	}
}

func (c *ResetCommand) Name() string {
	return c.name
}

func (c *ResetCommand) Description() string {
	return "Clear conversation history and remembered context"
}

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, _ []string) (string, error) {
	sess := c.store.Load(ctx, sessionID)
	sess.Reset()
	if err := c.store.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("failed to clear memory: %w", err)
	}
	for _, r := range c.resetters {
		r.Reset(sessionID)
	}
	return "Memory cleared.", nil
}
