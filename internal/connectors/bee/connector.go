// Package bee fetches conversation records from the Bee API.
package bee

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pensieve-labs/pensieve-cli/internal/connectors"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
	"github.com/pensieve-labs/pensieve-cli/internal/logger"
)

var _ driven.Connector = (*Connector)(nil)

// Config holds Bee connector configuration.
type Config struct {
	// BaseURL overrides the production API endpoint. Empty uses the default.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string
}

// Connector fetches conversations from the Bee API. The API has no
// server-side date filter, so a Since bound is applied client-side on
// the listed start times before the per-conversation detail fetch.
type Connector struct {
	cfg    Config
	client *Client
	mu     sync.Mutex
	closed bool
}

// New creates a new Bee connector.
func New(cfg Config) *Connector {
	return &Connector{
		cfg:    cfg,
		client: NewClient(cfg.BaseURL, cfg.APIKey),
	}
}

// Source returns the vendor identifier.
func (c *Connector) Source() string {
	return domain.SourceBee
}

// Validate checks the API key is configured and accepted.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrConnectorClosed
	}
	if c.cfg.APIKey == "" {
		return fmt.Errorf("%w: bee API key not configured", domain.ErrAuthRequired)
	}

	if _, _, err := c.client.ListConversations(ctx, 1, ""); err != nil {
		if connectors.IsUnauthorized(err) {
			return fmt.Errorf("%w: bee rejected the API key", domain.ErrConnectorValidation)
		}
		return fmt.Errorf("%w: %w", domain.ErrConnectorValidation, err)
	}
	return nil
}

// Fetch streams conversation detail payloads for the query. The limit
// counts emitted records, not listed ones, so date-filtered
// conversations do not eat into it.
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

		fetched := 0
		cursor := ""
		for {
			page, nextCursor, err := c.client.ListConversations(ctx, pageSize, cursor)
			if err != nil {
				errs <- fmt.Errorf("listing conversations: %w", err)
				return
			}
			logger.Debug("Bee returned %d conversations", len(page))

			for _, stub := range page {
				if q.Limit > 0 && fetched >= q.Limit {
					return
				}
				if stub.ID.String() == "" {
					logger.Warn("Skipping conversation without an id")
					continue
				}
				if skipBefore(stub.StartTime, q.Since) {
					continue
				}

				payload, err := c.client.GetConversation(ctx, stub.ID.String())
				if err != nil {
					if connectors.IsNotFound(err) {
						logger.Warn("Conversation %s disappeared between listing and detail fetch", stub.ID)
						continue
					}
					errs <- fmt.Errorf("fetching conversation %s: %w", stub.ID, err)
					return
				}

				record := domain.RawRecord{
					Source:    domain.SourceBee,
					NativeID:  stub.ID.String(),
					Payload:   payload,
					FetchedAt: time.Now().UTC(),
				}
				select {
				case records <- record:
					fetched++
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}

			if nextCursor == "" || len(page) < pageSize {
				return
			}
			cursor = nextCursor
		}
	}()

	return records, errs
}

// Close releases resources.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// skipBefore reports whether a conversation started before the since
// date. Both are compared on the date prefix, which works because
// start times are ISO 8601. Records without a start time are kept.
func skipBefore(startTime, since string) bool {
	if since == "" || startTime == "" {
		return false
	}
	if len(startTime) < len(domain.DateLayout) {
		return false
	}
	return startTime[:len(domain.DateLayout)] < since
}
