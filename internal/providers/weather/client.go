package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sandevgo/voxbot/internal/config"
	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/pkg/retry"
)

// Client talks to the forecast endpoint. One POST per query; the
// endpoint returns the multi-day forecast for a place and the client
// picks the requested day out of it.
type Client struct {
	http    *http.Client
	baseURL string
	retrier *retry.Retrier
}

func NewClient(cfg *config.WeatherConfig) *Client {
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		retrier: retry.NewDefaultRetrier(),
	}
}

type forecastDay struct {
	Day         string `json:"day"`
	Weather     string `json:"weather"`
	Temperature struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"temperature"`
}

type forecastResponse struct {
	Place    string        `json:"place"`
	Forecast []forecastDay `json:"forecast"`
	Error    string        `json:"error"`
}

func (c *Client) ForecastForDay(ctx context.Context, place, day string) (core.Forecast, error) {
	var payload forecastResponse
	err := c.retrier.Do(ctx, func() error {
		var err error
		payload, err = c.fetch(ctx, place)
		return err
	})
	if err != nil {
		return core.Forecast{}, fmt.Errorf("fetch forecast for %s: %w", place, err)
	}

	if payload.Error != "" {
		return core.Forecast{}, fmt.Errorf("weather service: %s", payload.Error)
	}

	for _, fd := range payload.Forecast {
		if strings.EqualFold(fd.Day, day) {
			return core.Forecast{
				Place:   payload.Place,
				Day:     fd.Day,
				Weather: fd.Weather,
				Temperature: core.TempRange{
					Min: fd.Temperature.Min,
					Max: fd.Temperature.Max,
				},
			}, nil
		}
	}
	return core.Forecast{}, core.ErrDayNotInForecast
}

func (c *Client) fetch(ctx context.Context, place string) (forecastResponse, error) {
	form := url.Values{"place": {place}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return forecastResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return forecastResponse{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return forecastResponse{}, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return forecastResponse{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var payload forecastResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return forecastResponse{}, fmt.Errorf("decode: %w", err)
	}
	return payload, nil
}
