package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCondition(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"will it rain in Paris tomorrow?", "rain"},
		{"is it going to be rainy on monday?", "rain"},
		{"will it be sunny?", "sun"},
		{"any thunderstorm expected?", "thunderstorm"},
		{"how windy will it get?", "wind"},
		{"what's the weather like?", ""},
		// weekday names must never read as conditions
		{"what's the weather on sunday in Paris", ""},
		{"what is the weather on Sunday?", ""},
		{"weather on monday please", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Condition(tt.text), tt.text)
	}
}

func TestConditionMatches(t *testing.T) {
	assert.True(t, ConditionMatches("rain", "light rain"))
	assert.True(t, ConditionMatches("rain", "drizzle"))
	assert.True(t, ConditionMatches("sun", "clear sky"))
	assert.False(t, ConditionMatches("snow", "light rain"))
	// unmapped keywords fall back to plain substring
	assert.True(t, ConditionMatches("hail", "hail showers"))
}
