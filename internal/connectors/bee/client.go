package bee

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/pensieve-labs/pensieve-cli/internal/connectors"
	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

const (
	// DefaultBaseURL is the production Bee API endpoint.
	DefaultBaseURL = "https://api.bee.computer"

	// apiKeyHeader carries the API key.
	apiKeyHeader = "x-api-key"

	// conversationsPath is the conversations listing endpoint.
	conversationsPath = "/v1/me/conversations"

	// pageSize is the page size used for listing.
	pageSize = 10
)

// Client wraps the Bee conversations API.
type Client struct {
	api *connectors.Client
}

// NewClient creates a Bee API client. An empty baseURL uses the
// production endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		api: connectors.NewClient(domain.SourceBee, baseURL, apiKeyHeader, apiKey),
	}
}

// conversationStub is the slice of a listed conversation the connector
// needs for filtering. Utterances only exist in the detail payload.
type conversationStub struct {
	ID        json.Number `json:"id"`
	StartTime string      `json:"start_time"`
}

// conversationsResponse is the listing envelope.
type conversationsResponse struct {
	Conversations []conversationStub `json:"conversations"`
	NextCursor    string             `json:"next_cursor"`
}

// ListConversations fetches one page of conversations, oldest first. It
// returns the page and the cursor for the next one ("" when exhausted).
func (c *Client) ListConversations(ctx context.Context, limit int, cursor string) ([]conversationStub, string, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("direction", "asc")
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	var resp conversationsResponse
	if err := c.api.GetJSON(ctx, conversationsPath, params, &resp); err != nil {
		return nil, "", err
	}
	return resp.Conversations, resp.NextCursor, nil
}

// GetConversation fetches one conversation's detail payload, including
// transcriptions. A top-level "conversation" envelope is unwrapped.
func (c *Client) GetConversation(ctx context.Context, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.api.GetJSON(ctx, conversationsPath+"/"+url.PathEscape(id), nil, &raw); err != nil {
		return nil, err
	}

	var env struct {
		Conversation json.RawMessage `json:"conversation"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Conversation) > 0 {
		return env.Conversation, nil
	}
	return raw, nil
}
