package session

import (
	"github.com/sandevgo/voxbot/internal/core"
)

// Context is one session's conversational state: a bounded exchange
// history, long-lived facts, and short-lived references (last weather
// query, last created calendar event) that expire after a fixed number
// of turns. It is not safe for concurrent use; a session handles one
// turn at a time.
type Context struct {
	ID string

	history       []core.Message
	facts         map[string]string
	weatherPlace  string
	weatherDay    string
	weatherTurn   int
	lastEventID   int64
	lastEventTurn int
	turn          int

	maxExchanges int
	ttlTurns     int
}

func New(id string, maxExchanges, ttlTurns int) *Context {
	return &Context{
		ID:           id,
		facts:        make(map[string]string),
		maxExchanges: maxExchanges,
		ttlTurns:     ttlTurns,
	}
}

func FromSnapshot(id string, snap core.SessionSnapshot, maxExchanges, ttlTurns int) *Context {
	c := New(id, maxExchanges, ttlTurns)
	c.history = snap.History
	if snap.Facts != nil {
		c.facts = snap.Facts
	}
	c.weatherPlace = snap.WeatherPlace
	c.weatherDay = snap.WeatherDay
	c.weatherTurn = snap.WeatherTurn
	c.lastEventID = snap.LastEventID
	c.lastEventTurn = snap.LastEventTurn
	c.turn = snap.Turn
	return c
}

func (c *Context) Snapshot() core.SessionSnapshot {
	return core.SessionSnapshot{
		History:       c.history,
		Facts:         c.facts,
		WeatherPlace:  c.weatherPlace,
		WeatherDay:    c.weatherDay,
		WeatherTurn:   c.weatherTurn,
		LastEventID:   c.lastEventID,
		LastEventTurn: c.lastEventTurn,
		Turn:          c.turn,
	}
}

// BeginTurn advances the turn counter and returns the current turn.
func (c *Context) BeginTurn() int {
	c.turn++
	return c.turn
}

func (c *Context) Turn() int {
	return c.turn
}

func (c *Context) History() []core.Message {
	return c.history
}

// AppendExchange records one completed user/assistant pair and trims
// the history to the configured window.
func (c *Context) AppendExchange(userText, assistantText string) {
	c.history = append(c.history,
		core.Message{Role: core.RoleUser, Content: userText},
		core.Message{Role: core.RoleAssistant, Content: assistantText},
	)
	c.TrimHistory(c.maxExchanges)
}

// TrimHistory retains only the most recent maxExchanges completed
// user/assistant pairs. A trailing user turn without its assistant
// reply is dropped until completed.
func (c *Context) TrimHistory(maxExchanges int) {
	var exchanges [][]core.Message
	var buffer []core.Message
	for _, msg := range c.history {
		buffer = append(buffer, msg)
		if msg.Role == core.RoleAssistant {
			exchanges = append(exchanges, buffer)
			buffer = nil
		}
	}
	if len(exchanges) > maxExchanges {
		exchanges = exchanges[len(exchanges)-maxExchanges:]
	}

	var trimmed []core.Message
	for _, pair := range exchanges {
		trimmed = append(trimmed, pair...)
	}
	c.history = trimmed
}

func (c *Context) Fact(key string) (string, bool) {
	v, ok := c.facts[key]
	return v, ok
}

func (c *Context) SetFact(key, value string) {
	c.facts[key] = value
}

// UpdateWeatherContext overwrites the remembered place/day of the last
// weather query, stamped with the current turn.
func (c *Context) UpdateWeatherContext(place, day string) {
	c.weatherPlace = place
	c.weatherDay = day
	c.weatherTurn = c.turn
}

// WeatherContext returns the remembered place and day keyword of the
// last weather query. A context older than the TTL is cleared as a
// side effect and reported as absent.
func (c *Context) WeatherContext() (place, day string) {
	if c.weatherPlace == "" && c.weatherDay == "" {
		return "", ""
	}
	if c.turn-c.weatherTurn > c.ttlTurns {
		c.weatherPlace = ""
		c.weatherDay = ""
		c.weatherTurn = 0
		return "", ""
	}
	return c.weatherPlace, c.weatherDay
}

// RememberEvent records the id of the most recently created or
// modified calendar event for later "that one" references.
func (c *Context) RememberEvent(id int64) {
	c.lastEventID = id
	c.lastEventTurn = c.turn
}

// LastEvent returns the remembered event id, subject to the same
// turn-based TTL as the weather context.
func (c *Context) LastEvent() (int64, bool) {
	if c.lastEventID == 0 {
		return 0, false
	}
	if c.turn-c.lastEventTurn > c.ttlTurns {
		c.ForgetEvent()
		return 0, false
	}
	return c.lastEventID, true
}

func (c *Context) ForgetEvent() {
	c.lastEventID = 0
	c.lastEventTurn = 0
}

// Reset clears all conversational state. The turn counter survives so
// TTL arithmetic stays monotonic within the session.
func (c *Context) Reset() {
	c.history = nil
	c.facts = make(map[string]string)
	c.weatherPlace = ""
	c.weatherDay = ""
	c.weatherTurn = 0
	c.ForgetEvent()
}
