package slots

import (
	"context"
	"testing"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedExtractor struct {
	results []core.Extraction
	calls   int
}

func (s *scriptedExtractor) ClassifyAndExtract(_ context.Context, _ string, _ core.ConversationView) (core.Extraction, error) {
	res := s.results[s.calls]
	s.calls++
	return res, nil
}

func strp(s string) *string { return &s }

func TestHandleTurn_FollowupForSingleMissingField(t *testing.T) {
	extractor := &scriptedExtractor{results: []core.Extraction{
		{
			Intent:      core.SlotIntentCalendarCreate,
			Title:       strp("Standup"),
			Description: strp("daily sync"),
			StartTime:   strp("2025-03-05T09:00:00Z"),
			EndTime:     strp("2025-03-05T10:00:00Z"),
		},
	}}
	m := NewMachine(extractor)
	state := NewState()

	res, err := m.HandleTurn(context.Background(), state, "schedule the standup")
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, res.Status)
	assert.Equal(t, "Please provide location.", res.Question)
}

func TestHandleTurn_FollowupForSeveralMissingFields(t *testing.T) {
	extractor := &scriptedExtractor{results: []core.Extraction{
		{
			Intent:      core.SlotIntentCalendarCreate,
			Description: strp("daily sync"),
			StartTime:   strp("2025-03-05T09:00:00Z"),
			EndTime:     strp("2025-03-05T10:00:00Z"),
		},
	}}
	m := NewMachine(extractor)
	state := NewState()

	res, err := m.HandleTurn(context.Background(), state, "schedule something")
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, res.Status)
	// required-field table order, no Oxford comma
	assert.Equal(t, "Please provide title and location.", res.Question)
}

func TestHandleTurn_CompletesAcrossTurns(t *testing.T) {
	extractor := &scriptedExtractor{results: []core.Extraction{
		{
			Intent: core.SlotIntentWeather,
			Day:    strp("monday"),
		},
		{
			Intent:   core.SlotIntentWeather,
			Location: strp("Marburg"),
		},
	}}
	m := NewMachine(extractor)
	state := NewState()

	res, err := m.HandleTurn(context.Background(), state, "what's the weather on monday")
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, res.Status)
	assert.Equal(t, "Please provide location.", res.Question)

	res, err = m.HandleTurn(context.Background(), state, "in Marburg")
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, core.SlotIntentWeather, res.Intent)
	assert.Equal(t, "Marburg", res.Slots["location"])
	assert.Equal(t, "monday", res.Slots["day"])
}

func TestHandleTurn_IntentSwitchResetsSlots(t *testing.T) {
	extractor := &scriptedExtractor{results: []core.Extraction{
		{
			Intent:   core.SlotIntentWeather,
			Location: strp("Paris"),
		},
		{
			Intent: core.SlotIntentCalendarGet,
		},
	}}
	m := NewMachine(extractor)
	state := NewState()

	_, err := m.HandleTurn(context.Background(), state, "weather in Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris", state.Slots["location"])

	res, err := m.HandleTurn(context.Background(), state, "actually show my calendar")
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, res.Status)
	assert.Equal(t, core.SlotIntentCalendarGet, state.Intent)
	assert.Empty(t, state.Slots, "slots must reset atomically on intent switch")
}

func TestHandleTurn_UnknownIntentDoesNotReset(t *testing.T) {
	extractor := &scriptedExtractor{results: []core.Extraction{
		{
			Intent:   core.SlotIntentWeather,
			Location: strp("Paris"),
		},
		{
			Intent: core.SlotIntentUnknown,
			Day:    strp("friday"),
		},
	}}
	m := NewMachine(extractor)
	state := NewState()

	_, err := m.HandleTurn(context.Background(), state, "weather in Paris")
	require.NoError(t, err)

	res, err := m.HandleTurn(context.Background(), state, "friday")
	require.NoError(t, err)
	assert.Equal(t, core.SlotIntentWeather, state.Intent)
	assert.Equal(t, "Paris", state.Slots["location"])
	assert.Equal(t, StatusComplete, res.Status)
}

func TestMerge_NullsNeverErase(t *testing.T) {
	state := NewState()
	state.SwitchIntent(core.SlotIntentCalendarCreate)
	state.Slots["title"] = "Standup"

	state.Merge(core.Extraction{
		Intent:   core.SlotIntentCalendarCreate,
		Location: strp("Berlin"),
		// Title nil: must not erase the collected title
	})

	assert.Equal(t, "Standup", state.Slots["title"])
	assert.Equal(t, "Berlin", state.Slots["location"])
}

func TestHandleTurn_HistoryIsBounded(t *testing.T) {
	results := make([]core.Extraction, 10)
	for i := range results {
		results[i] = core.Extraction{Intent: core.SlotIntentCalendarCreate}
	}
	m := NewMachine(&scriptedExtractor{results: results})
	state := NewState()

	for i := 0; i < 10; i++ {
		_, err := m.HandleTurn(context.Background(), state, "schedule something")
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, len(state.History), maxHistoryTurns)
}

func TestBuildFollowup(t *testing.T) {
	assert.Equal(t, "Please provide location.", BuildFollowup([]string{"location"}))
	assert.Equal(t, "Please provide location and title.", BuildFollowup([]string{"location", "title"}))
	assert.Equal(t, "Please provide title, description and location.",
		BuildFollowup([]string{"title", "description", "location"}))
}
