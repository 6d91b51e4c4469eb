package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	sessions map[string]core.SessionSnapshot
	saveErr  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: make(map[string]core.SessionSnapshot)}
}

func (m *memoryRepo) LoadSession(_ context.Context, id string) (core.SessionSnapshot, error) {
	return m.sessions[id], nil
}

func (m *memoryRepo) SaveSession(_ context.Context, id string, snap core.SessionSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[id] = snap
	return nil
}

type echoResolver struct {
	err     error
	gotTurn int
}

func (r *echoResolver) ResolveTurn(_ context.Context, sess *session.Context, text string) (string, error) {
	r.gotTurn = sess.Turn()
	if r.err != nil {
		return "", r.err
	}
	return "echo: " + text, nil
}

type noCommands struct{}

func (noCommands) Execute(context.Context, string, string) (string, bool) { return "", false }
func (noCommands) ListCommands() []core.Command                           { return nil }

type fixedCommand struct{ reply string }

func (c fixedCommand) Execute(context.Context, string, string) (string, bool) { return c.reply, true }
func (c fixedCommand) ListCommands() []core.Command                           { return nil }

func TestRun_DelegatesToResolverAndPersists(t *testing.T) {
	repo := newMemoryRepo()
	resolver := &echoResolver{}
	a := New(session.NewStore(repo, 4, 5), noCommands{}, resolver)

	reply, err := a.Run(context.Background(), "s1", "hello there")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello there", reply)
	assert.Equal(t, 1, resolver.gotTurn, "turn counter advances before resolution")
	assert.Equal(t, 1, repo.sessions["s1"].Turn, "session is persisted after the turn")
}

func TestRun_CommandsShortCircuit(t *testing.T) {
	repo := newMemoryRepo()
	resolver := &echoResolver{}
	a := New(session.NewStore(repo, 4, 5), fixedCommand{reply: "Memory cleared."}, resolver)

	reply, err := a.Run(context.Background(), "s1", "/reset")
	require.NoError(t, err)
	assert.Equal(t, "Memory cleared.", reply)
	assert.Zero(t, resolver.gotTurn, "resolver must not run for commands")
}

func TestRun_EmptyInputIsIgnored(t *testing.T) {
	a := New(session.NewStore(newMemoryRepo(), 4, 5), noCommands{}, &echoResolver{})

	reply, err := a.Run(context.Background(), "s1", "   ")
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestRun_SaveFailureDoesNotBlockReply(t *testing.T) {
	repo := newMemoryRepo()
	repo.saveErr = errors.New("disk full")
	a := New(session.NewStore(repo, 4, 5), noCommands{}, &echoResolver{})

	reply, err := a.Run(context.Background(), "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", reply)
}
