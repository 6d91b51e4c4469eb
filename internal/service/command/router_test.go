package command

import (
	"context"
	"testing"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	sessions map[string]core.SessionSnapshot
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{sessions: make(map[string]core.SessionSnapshot)}
}

func (m *memoryRepo) LoadSession(_ context.Context, id string) (core.SessionSnapshot, error) {
	return m.sessions[id], nil
}

func (m *memoryRepo) SaveSession(_ context.Context, id string, snap core.SessionSnapshot) error {
	m.sessions[id] = snap
	return nil
}

func testStore(repo *memoryRepo) *session.Store {
	return session.NewStore(repo, 4, 5)
}

func TestRouter_NonCommandFallsThrough(t *testing.T) {
	router := New(NewCommands(testStore(newMemoryRepo())))

	_, handled := router.Execute(context.Background(), "s1", "what's the weather?")
	assert.False(t, handled)
}

func TestRouter_UnknownCommand(t *testing.T) {
	router := New(NewCommands(testStore(newMemoryRepo())))

	reply, handled := router.Execute(context.Background(), "s1", "/bogus")
	assert.True(t, handled)
	assert.Equal(t, "Unknown command: /bogus", reply)
}

func TestResetCommand_ClearsPersistedSession(t *testing.T) {
	repo := newMemoryRepo()
	repo.sessions["s1"] = core.SessionSnapshot{
		History:      []core.Message{{Role: core.RoleUser, Content: "hi"}, {Role: core.RoleAssistant, Content: "hello"}},
		Facts:        map[string]string{"location": "Bonn"},
		WeatherPlace: "Paris",
		WeatherDay:   "tomorrow",
		WeatherTurn:  3,
		Turn:         3,
	}
	router := New(NewCommands(testStore(repo)))

	reply, handled := router.Execute(context.Background(), "s1", "/reset")
	require.True(t, handled)
	assert.Equal(t, "Memory cleared.", reply)

	snap := repo.sessions["s1"]
	assert.Empty(t, snap.History)
	assert.Empty(t, snap.Facts)
	assert.Empty(t, snap.WeatherPlace)
	assert.Equal(t, 3, snap.Turn, "turn counter survives a reset")
}

type recordingResetter struct {
	sessions []string
}

func (r *recordingResetter) Reset(sessionID string) {
	r.sessions = append(r.sessions, sessionID)
}

func TestResetCommand_ClearsStrategyState(t *testing.T) {
	resetter := &recordingResetter{}
	router := New(NewCommands(testStore(newMemoryRepo()), resetter))

	_, handled := router.Execute(context.Background(), "s1", "/reset")
	require.True(t, handled)
	assert.Equal(t, []string{"s1"}, resetter.sessions)
}

func TestResetCommand_ForgetAlias(t *testing.T) {
	router := New(NewCommands(testStore(newMemoryRepo())))

	reply, handled := router.Execute(context.Background(), "s1", "/forget")
	require.True(t, handled)
	assert.Equal(t, "Memory cleared.", reply)
}

func TestHelpCommand_ListsEverything(t *testing.T) {
	router := New(NewCommands(testStore(newMemoryRepo())))

	reply, handled := router.Execute(context.Background(), "s1", "/help")
	require.True(t, handled)
	assert.Contains(t, reply, "/help")
	assert.Contains(t, reply, "/reset")
	assert.Contains(t, reply, "/forget")
}
