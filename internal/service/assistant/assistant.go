package assistant

import (
	"context"
	"strings"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/internal/service/session"
	"github.com/sandevgo/voxbot/pkg/log"
)

// TurnResolver turns one user utterance into one reply against the
// session's conversational state. The rule-based engine and the
// slot-filling resolver both satisfy it.
type TurnResolver interface {
	ResolveTurn(ctx context.Context, sess *session.Context, text string) (string, error)
}

// Assistant is the front-end facing entry point shared by every
// transport. It routes slash commands, manages session persistence
// around the turn and delegates the utterance to the configured
// resolver strategy.
type Assistant struct {
	store    *session.Store
	commands core.CmdRouter
	resolver TurnResolver
}

func New(store *session.Store, commands core.CmdRouter, resolver TurnResolver) *Assistant {
	return &Assistant{
		store:    store,
		commands: commands,
		resolver: resolver,
	}
}

// Run handles one utterance end to end. It never returns an error for
// collaborator failures; the resolver maps those to apology replies.
// Persistence failures are logged and do not block the turn.
func (a *Assistant) Run(ctx context.Context, sessionID, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}

	if reply, handled := a.commands.Execute(ctx, sessionID, input); handled {
		return reply, nil
	}

	sess := a.store.Load(ctx, sessionID)
	sess.BeginTurn()

	reply, err := a.resolver.ResolveTurn(ctx, sess, input)
	if err != nil {
		return "", err
	}

	if err := a.store.Save(ctx, sess); err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("session", sessionID).
			Msg("failed to persist session")
	}
	return reply, nil
}
