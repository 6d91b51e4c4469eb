package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/voxbot/pkg/log"
)

type CalendarConfig struct {
	BaseURL    string        `env:"CALENDAR_BASE_URL" envDefault:"https://api.responsible-nlp.net/calendar.php"`
	CalendarID int64         `env:"CALENDAR_ID" envDefault:"54"`
	Timeout    time.Duration `env:"CALENDAR_TIMEOUT" envDefault:"10s"`
}

func NewCalendarConfig(ctx context.Context) *CalendarConfig {
	c := &CalendarConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Calendar config")
	}
	return c
}
