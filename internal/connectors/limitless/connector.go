// Package limitless fetches lifelog records from the Limitless API.
package limitless

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/connectors"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

var _ driven.Connector = (*Connector)(nil)

// Config holds Limitless connector configuration.
type Config struct {
	// BaseURL overrides the production API endpoint. Empty uses the default.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string
}

// Connector fetches lifelogs from the Limitless API.
type Connector struct {
	cfg    Config
	client *Client
	mu     sync.Mutex
	closed bool
}

// New creates a new Limitless connector.
func New(cfg Config) *Connector {
	return &Connector{
		cfg:    cfg,
		client: NewClient(cfg.BaseURL, cfg.APIKey),
	}
}

// Source returns the vendor identifier.
func (c *Connector) Source() string {
	return domain.SourceLimitless
}

// Validate checks the API key is configured and accepted.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectorClosed
	}
	if c.cfg.APIKey == "" {
		return fmt.Errorf("%w: limitless API key not configured", domain.ErrAuthRequired)
	}

	if _, _, err := c.client.ListLifelogs(ctx, listParams{Limit: 1}); err != nil {
		if connectors.IsUnauthorized(err) {
			return fmt.Errorf("%w: limitless rejected the API key", domain.ErrConnectorValidation)
		}
		return fmt.Errorf("%w: %w", domain.ErrConnectorValidation, err)
	}
	return nil
}

// Fetch streams lifelogs for the query. The API filters by single day,
// so a Since bound becomes one paginated pass per day up to today.
func (c *Connector) Fetch(ctx context.Context, q driven.FetchQuery) (<-chan domain.RawRecord, <-chan error) {
	records := make(chan domain.RawRecord)
	errs := make(chan error, 1)

	go func() {
		defer close(records)
		defer close(errs)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errs <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		days, err := fetchDays(q.Since, q.Timezone)
		if err != nil {
			errs <- err
			return
		}

		fetched := 0
		for _, day := range days {
			done, err := c.fetchDay(ctx, records, day, q, &fetched)
			if err != nil {
				errs <- err
				return
			}
			if done {
				return
			}
		}
	}()

	return records, errs
}

// fetchDay paginates one day (or the vendor default window when day is
// empty). It reports done when the overall fetch limit is reached.
func (c *Connector) fetchDay(
	ctx context.Context,
	records chan<- domain.RawRecord,
	day string,
	q driven.FetchQuery,
	fetched *int,
) (bool, error) {
	cursor := ""
	for {
		batch := pageSize
		if q.Limit > 0 {
			remaining := q.Limit - *fetched
			if remaining <= 0 {
				return true, nil
			}
			if remaining < batch {
				batch = remaining
			}
		}

		page, nextCursor, err := c.client.ListLifelogs(ctx, listParams{
			Limit:    batch,
			Cursor:   cursor,
			Date:     day,
			Timezone: q.Timezone,
		})
		if err != nil {
			return false, fmt.Errorf("listing lifelogs: %w", err)
		}
		logger.Debug("Limitless returned %d lifelogs for %q", len(page), day)

		for _, payload := range page {
			var envelope struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(payload, &envelope); err != nil || envelope.ID == "" {
				logger.Warn("Skipping lifelog without an id")
				continue
			}

			record := domain.RawRecord{
				Source:    domain.SourceLimitless,
				NativeID:  envelope.ID,
				Payload:   payload,
				FetchedAt: time.Now().UTC(),
			}
			select {
			case records <- record:
				*fetched++
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		if nextCursor == "" || len(page) < batch {
			return false, nil
		}
		cursor = nextCursor
	}
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// fetchDays expands a Since bound into the days to fetch, oldest first.
// An empty bound yields a single unbounded pass.
func fetchDays(since, timezone string) ([]string, error) {
	if since == "" {
		return []string{""}, nil
	}

	loc := time.UTC
	if timezone != "" {
		parsed, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown timezone %q", domain.ErrInvalidInput, timezone)
		}
		loc = parsed
	}

	start, err := time.ParseInLocation(domain.DateLayout, since, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid since date %q", domain.ErrInvalidInput, since)
	}

	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var days []string
	for day := start; !day.After(today); day = day.AddDate(0, 0, 1) {
		days = append(days, day.Format(domain.DateLayout))
	}
	return days, nil
}
