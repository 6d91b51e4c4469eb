package nlp

import (
	"testing"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want core.Intent
	}{
		{"what's the weather in Paris", core.IntentWeather},
		{"will it rain tomorrow", core.IntentWeather},
		{"what's on my calendar", core.IntentCalendar},
		{"cancel my next appointment", core.IntentCalendar},
		{"tell me a joke", core.IntentChat},
		// weather cues win over calendar cues
		{"what's the weather for my meeting tomorrow", core.IntentWeather},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyCalendarOp(t *testing.T) {
	tests := []struct {
		text string
		want core.CalendarOp
	}{
		{"delete my next event", core.OpDelete},
		{"remove the standup meeting", core.OpDelete},
		{"change the location of my appointment", core.OpUpdate},
		{"schedule a meeting titled Standup", core.OpAdd},
		{"set up a new appointment", core.OpAdd},
		{"what's on my calendar", core.OpList},
		{"show my events", core.OpList},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCalendarOp(tt.text))
		})
	}
}

// A turn matching both a destructive and an additive cue must resolve
// to the destructive one.
func TestClassifyCalendarOp_DeleteBeatsAdd(t *testing.T) {
	utterances := []string{
		"delete the event I asked you to add",
		"cancel the meeting and create a new one",
		"remove the appointment you scheduled",
	}
	for _, text := range utterances {
		assert.Equal(t, core.OpDelete, ClassifyCalendarOp(text), text)
	}
}

func TestClassifyCalendarOp_UpdateBeatsAdd(t *testing.T) {
	assert.Equal(t, core.OpUpdate, ClassifyCalendarOp("change the meeting you created"))
}
