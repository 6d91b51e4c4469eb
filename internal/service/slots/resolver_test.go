package slots

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyCalendar struct {
	failures int
	created  []core.Event
	deleted  []int64
}

func (f *flakyCalendar) ListEvents(context.Context) ([]core.Event, error) { return nil, nil }

func (f *flakyCalendar) CreateEvent(_ context.Context, e core.Event) (core.Event, error) {
	if f.failures > 0 {
		f.failures--
		return core.Event{}, errors.New("calendar down")
	}
	e.ID = int64(len(f.created) + 1)
	f.created = append(f.created, e)
	return e, nil
}

func (f *flakyCalendar) UpdateEvent(_ context.Context, id int64, _ map[string]string) (core.Event, error) {
	return core.Event{ID: id}, nil
}

func (f *flakyCalendar) DeleteEvent(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type staticWeather struct{}

func (staticWeather) ForecastForDay(_ context.Context, place, day string) (core.Forecast, error) {
	return core.Forecast{Place: place, Day: day, Weather: "clear sky",
		Temperature: core.TempRange{Min: 2, Max: 8}}, nil
}

func completeCreate() core.Extraction {
	return core.Extraction{
		Intent:      core.SlotIntentCalendarCreate,
		Title:       strp("Standup"),
		Description: strp("daily sync"),
		StartTime:   strp("2025-03-05T09:00:00"),
		EndTime:     strp("2025-03-05T10:00:00"),
		Location:    strp("Berlin"),
	}
}

func TestResolveTurn_SuccessfulDispatchClearsSlots(t *testing.T) {
	cal := &flakyCalendar{}
	r := NewResolver(&scriptedExtractor{results: []core.Extraction{completeCreate()}},
		staticWeather{}, cal)
	sess := session.New("s1", 4, 5)

	reply, err := r.ResolveTurn(context.Background(), sess, "schedule the standup")
	require.NoError(t, err)
	assert.Equal(t, `Created event "Standup".`, reply)
	require.Len(t, cal.created, 1)

	state := r.stateFor("s1")
	assert.Equal(t, core.SlotIntentUnknown, state.Intent)
	assert.Empty(t, state.Slots)

	id, ok := sess.LastEvent()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestResolveTurn_FailedDispatchRetainsSlots(t *testing.T) {
	cal := &flakyCalendar{failures: 1}
	r := NewResolver(&scriptedExtractor{results: []core.Extraction{
		completeCreate(),
		{Intent: core.SlotIntentUnknown},
	}}, staticWeather{}, cal)
	sess := session.New("s1", 4, 5)

	reply, err := r.ResolveTurn(context.Background(), sess, "schedule the standup")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I couldn't complete that right now. Please try again.", reply)

	state := r.stateFor("s1")
	assert.Equal(t, core.SlotIntentCalendarCreate, state.Intent)
	assert.Equal(t, "Standup", state.Slots["title"], "slots survive a failed dispatch")

	// retry dispatches with the retained slots
	reply, err = r.ResolveTurn(context.Background(), sess, "try again")
	require.NoError(t, err)
	assert.Equal(t, `Created event "Standup".`, reply)
}

func TestResolveTurn_DeleteForgetsEventReference(t *testing.T) {
	cal := &flakyCalendar{}
	eventID := int64(7)
	r := NewResolver(&scriptedExtractor{results: []core.Extraction{
		{Intent: core.SlotIntentCalendarDelete, EventID: &eventID},
	}}, staticWeather{}, cal)
	sess := session.New("s1", 4, 5)
	sess.RememberEvent(7)

	reply, err := r.ResolveTurn(context.Background(), sess, "delete event 7")
	require.NoError(t, err)
	assert.Equal(t, "Deleted event #7.", reply)
	assert.Equal(t, []int64{7}, cal.deleted)

	_, ok := sess.LastEvent()
	assert.False(t, ok)
}

func TestReset_DropsInProgressIntent(t *testing.T) {
	r := NewResolver(&scriptedExtractor{results: []core.Extraction{
		{Intent: core.SlotIntentCalendarCreate, Title: strp("Standup")},
	}}, staticWeather{}, &flakyCalendar{})
	sess := session.New("s1", 4, 5)

	reply, err := r.ResolveTurn(context.Background(), sess, "schedule the standup")
	require.NoError(t, err)
	assert.Contains(t, reply, "Please provide")

	r.Reset("s1")

	state := r.stateFor("s1")
	assert.Equal(t, core.SlotIntentUnknown, state.Intent)
	assert.Empty(t, state.Slots)
	assert.Empty(t, state.History)
}

func TestStateFor_ConcurrentSessions(t *testing.T) {
	r := NewResolver(&scriptedExtractor{}, staticWeather{}, &flakyCalendar{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i%4)
			for j := 0; j < 100; j++ {
				r.stateFor(id)
				if j%10 == 0 {
					r.Reset(id)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.NotNil(t, r.stateFor("s0"))
}

func TestResolveTurn_WeatherDispatch(t *testing.T) {
	r := NewResolver(&scriptedExtractor{results: []core.Extraction{
		{Intent: core.SlotIntentWeather, Location: strp("Paris"), Day: strp("monday")},
	}}, staticWeather{}, &flakyCalendar{})

	reply, err := r.ResolveTurn(context.Background(), session.New("s1", 4, 5), "weather in Paris on monday")
	require.NoError(t, err)
	assert.Equal(t, "The weather in Paris on monday will be clear sky with temperatures between 2°C and 8°C.", reply)
}
