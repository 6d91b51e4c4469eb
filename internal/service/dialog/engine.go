package dialog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/internal/service/calendar"
	"github.com/sandevgo/voxbot/internal/service/nlp"
	"github.com/sandevgo/voxbot/internal/service/session"
	"github.com/sandevgo/voxbot/pkg/log"
)

const systemPrompt = `You are a concise, friendly assistant.
Rules:
- Answer simple factual questions directly.
- Use conversation history ONLY when necessary.
- Do NOT restate past conversations unless asked.
- Keep responses short and clear.
- If you don't know the answer, say "I don't know" and do NOT hallucinate.`

// Fixed user-facing sentences for collaborator failures. Nothing in a
// turn is ever fatal; the worst case is one of these.
const (
	apologyChat     = "Sorry, I'm having trouble responding right now. Please try again."
	apologyForecast = "I couldn't find that day in the forecast."
	apologyWeather  = "Sorry, I couldn't reach the weather service right now."
	apologyCalendar = "Sorry, I couldn't reach your calendar right now."
)

// Engine is the rule-based turn resolver: classify, extract, dispatch,
// format. It is the canonical strategy; the slot-filling machine is
// the pluggable alternative.
type Engine struct {
	weather      core.WeatherProvider
	chat         core.ChatProvider
	resolver     *calendar.Resolver
	defaultPlace string
	now          func() time.Time
}

func NewEngine(weather core.WeatherProvider, chat core.ChatProvider, resolver *calendar.Resolver, defaultPlace string) *Engine {
	return &Engine{
		weather:      weather,
		chat:         chat,
		resolver:     resolver,
		defaultPlace: defaultPlace,
		now:          time.Now,
	}
}

func (e *Engine) ResolveTurn(ctx context.Context, sess *session.Context, text string) (string, error) {
	intent := nlp.Classify(text)
	log.FromCtx(ctx).Debug().Str("intent", string(intent)).Str("session", sess.ID).Msg("classified turn")

	switch intent {
	case core.IntentWeather:
		return e.weatherTurn(ctx, sess, text), nil
	case core.IntentCalendar:
		reply, err := e.resolver.Resolve(ctx, text, sess)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("calendar dispatch failed")
			return apologyCalendar, nil
		}
		return reply, nil
	default:
		return e.chatTurn(ctx, sess, text), nil
	}
}

func (e *Engine) weatherTurn(ctx context.Context, sess *session.Context, text string) string {
	ctxPlace, ctxDay := sess.WeatherContext()

	place := nlp.Location(text)
	if place == "" {
		place = ctxPlace
	}
	if place == "" {
		if fact, ok := sess.Fact("location"); ok {
			place = fact
		} else {
			place = e.defaultPlace
		}
	}

	dayKeyword := nlp.DayKeyword(text)
	if dayKeyword == "" {
		dayKeyword = ctxDay
	}
	if dayKeyword == "" {
		dayKeyword = "today"
	}
	day := nlp.ResolveDay(dayKeyword, e.now())

	forecast, err := e.weather.ForecastForDay(ctx, place, day)
	if errors.Is(err, core.ErrDayNotInForecast) {
		return apologyForecast
	}
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("place", place).Str("day", day).
			Msg("weather lookup failed")
		return apologyWeather
	}

	sess.UpdateWeatherContext(place, dayKeyword)

	return FormatForecast(forecast,
		nlp.Condition(text),
		nlp.IsTemperatureQuery(text),
		dayKeyword == "today")
}

// chatTurn is the open-domain fallback. Only chat exchanges feed the
// session history; task turns do not.
func (e *Engine) chatTurn(ctx context.Context, sess *session.Context, text string) string {
	reply, err := e.chat.Chat(ctx, systemPrompt, sess.History(), text)
	if err != nil || strings.TrimSpace(reply) == "" {
		log.FromCtx(ctx).Warn().Err(err).Msg("chat fallback failed")
		return apologyChat
	}
	reply = strings.TrimSpace(reply)
	sess.AppendExchange(text, reply)
	return reply
}
