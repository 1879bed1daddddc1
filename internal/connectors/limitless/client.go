package limitless

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/pensieve-labs/pensieve-cli/internal/connectors"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

const (
	// DefaultBaseURL is the production Limitless API endpoint.
	DefaultBaseURL = "https://api.limitless.ai"

	// apiKeyHeader carries the API key.
	apiKeyHeader = "X-API-Key"

	// lifelogsPath is the lifelogs listing endpoint.
	lifelogsPath = "/v1/lifelogs"

	// pageSize is the maximum page size the API accepts.
	pageSize = 10
)

// Client wraps the Limitless lifelogs API.
type Client struct {
	api *connectors.Client
}

// NewClient creates a Limitless API client. An empty baseURL uses the
// production endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		api: connectors.NewClient(domain.SourceLimitless, baseURL, apiKeyHeader, apiKey),
	}
}

// listParams bounds one lifelogs page request.
type listParams struct {
	Limit    int
	Cursor   string
	Date     string
	Timezone string
}

// lifelogsResponse is the API envelope. Individual lifelogs stay raw so
// the connector can hand the vendor payload through unparsed.
type lifelogsResponse struct {
	Data struct {
		Lifelogs []json.RawMessage `json:"lifelogs"`
	} `json:"data"`
	Meta struct {
		Lifelogs struct {
			NextCursor string `json:"nextCursor"`
		} `json:"lifelogs"`
	} `json:"meta"`
}

// ListLifelogs fetches one page of lifelogs, oldest first. It returns
// the page and the cursor for the next one ("" when exhausted).
func (c *Client) ListLifelogs(ctx context.Context, p listParams) ([]json.RawMessage, string, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(p.Limit))
	params.Set("direction", "asc")
	params.Set("includeMarkdown", "false")
	params.Set("includeHeadings", "true")
	if p.Date != "" {
		params.Set("date", p.Date)
	}
	if p.Timezone != "" {
		params.Set("timezone", p.Timezone)
	}
	if p.Cursor != "" {
		params.Set("cursor", p.Cursor)
	}

	var resp lifelogsResponse
	if err := c.api.GetJSON(ctx, lifelogsPath, params, &resp); err != nil {
		return nil, "", err
	}
	return resp.Data.Lifelogs, resp.Meta.Lifelogs.NextCursor, nil
}
