package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sandevgo/voxbot/internal/config"
	"github.com/sandevgo/voxbot/internal/core"
	"github.com/sandevgo/voxbot/pkg/retry"
)

// Client is the calendar REST client. Every request carries the
// calendar id as the "calenderid" query parameter; the misspelling is
// the service's, not ours.
type Client struct {
	http       *http.Client
	baseURL    string
	calendarID int64
	retrier    *retry.Retrier
}

func NewClient(cfg *config.CalendarConfig) *Client {
	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		calendarID: cfg.CalendarID,
		retrier:    retry.NewDefaultRetrier(),
	}
}

func (c *Client) ListEvents(ctx context.Context) ([]core.Event, error) {
	var events []core.Event
	err := c.retrier.Do(ctx, func() error {
		data, err := c.do(ctx, http.MethodGet, nil, nil)
		if err != nil {
			return err
		}
		events = events[:0]
		return json.Unmarshal(data, &events)
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (c *Client) CreateEvent(ctx context.Context, event core.Event) (core.Event, error) {
	data, err := c.do(ctx, http.MethodPost, nil, event)
	if err != nil {
		return core.Event{}, fmt.Errorf("create event: %w", err)
	}

	var created core.Event
	if err := json.Unmarshal(data, &created); err != nil {
		return core.Event{}, fmt.Errorf("decode created event: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id int64, fields map[string]string) (core.Event, error) {
	params := url.Values{"id": {strconv.FormatInt(id, 10)}}
	data, err := c.do(ctx, http.MethodPut, params, fields)
	if err != nil {
		return core.Event{}, fmt.Errorf("update event %d: %w", id, err)
	}

	var updated core.Event
	if err := json.Unmarshal(data, &updated); err != nil {
		return core.Event{}, fmt.Errorf("decode updated event: %w", err)
	}
	return updated, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	params := url.Values{"id": {strconv.FormatInt(id, 10)}}
	if _, err := c.do(ctx, http.MethodDelete, params, nil); err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, params url.Values, body any) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("calenderid", strconv.FormatInt(c.calendarID, 10))

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"?"+params.Encode(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}
