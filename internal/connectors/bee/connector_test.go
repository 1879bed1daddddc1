package bee

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
	"github.com/pensieve-labs/pensieve-cli/internal/core/ports/driven"
)

// conversationList builds one listing response. Each id is paired with
// its start time.
func conversationList(stubs map[int]string, order []int, nextCursor string) []byte {
	conversations := make([]map[string]any, 0, len(order))
	for _, id := range order {
		conversations = append(conversations, map[string]any{
			"id":         id,
			"start_time": stubs[id],
		})
	}
	body, _ := json.Marshal(map[string]any{
		"conversations": conversations,
		"next_cursor":   nextCursor,
	})
	return body
}

// beeServer answers both the listing and detail endpoints.
func beeServer(t *testing.T, list func(cursor string) []byte, detailCalls *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		if r.URL.Path == "/v1/me/conversations" {
			_, _ = w.Write(list(r.URL.Query().Get("cursor")))
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/v1/me/conversations/")
		*detailCalls = append(*detailCalls, id)
		body, _ := json.Marshal(map[string]any{
			"id":            json.Number(id),
			"short_summary": "Conversation " + id,
			"start_time":    "2025-07-14T09:30:00Z",
		})
		_, _ = w.Write(body)
	}))
}

func collect(t *testing.T, records <-chan domain.RawRecord, errs <-chan error) ([]domain.RawRecord, error) {
	t.Helper()
	var out []domain.RawRecord
	for record := range records {
		out = append(out, record)
	}
	return out, <-errs
}

func TestNew(t *testing.T) {
	connector := New(Config{APIKey: "key"})
	require.NotNil(t, connector)
	assert.Equal(t, domain.SourceBee, connector.Source())

	var _ driven.Connector = connector
}

func TestConnector_Validate_MissingKey(t *testing.T) {
	connector := New(Config{})

	err := connector.Validate(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestConnector_Validate_RejectedKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	connector := New(Config{BaseURL: server.URL, APIKey: "bad-key"})

	err := connector.Validate(context.Background())
	assert.ErrorIs(t, err, domain.ErrConnectorValidation)
}

func TestConnector_Fetch_EmitsDetailPayloads(t *testing.T) {
	var detailCalls []string
	server := beeServer(t, func(_ string) []byte {
		return conversationList(map[int]string{
			101: "2025-07-14T09:30:00Z",
			102: "2025-07-14T11:00:00Z",
		}, []int{101, 102}, "")
	}, &detailCalls)
	defer server.Close()

	connector := New(Config{BaseURL: server.URL, APIKey: "secret"})

	records, errs := connector.Fetch(context.Background(), driven.FetchQuery{})
	got, err := collect(t, records, errs)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"101", "102"}, detailCalls)
	assert.Equal(t, domain.SourceBee, got[0].Source)
	assert.Equal(t, "101", got[0].NativeID)

	// The record carries the detail payload, not the listing stub.
	var detail struct {
		ShortSummary string `json:"short_summary"`
	}
	require.NoError(t, json.Unmarshal(got[0].Payload, &detail))
	assert.Equal(t, "Conversation 101", detail.ShortSummary)
}

func TestConnector_Fetch_UnwrapsDetailEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/me/conversations" {
			_, _ = w.Write(conversationList(map[int]string{7: "2025-07-14T09:30:00Z"}, []int{7}, ""))
			return
		}
		_, _ = w.Write([]byte(`{"conversation":{"id":7,"short_summary":"wrapped"}}`))
	}))
	defer server.Close()

	connector := New(Config{BaseURL: server.URL, APIKey: "secret"})

	records, errs := connector.Fetch(context.Background(), driven.FetchQuery{})
	got, err := collect(t, records, errs)
	require.NoError(t, err)

	require.Len(t, got, 1)
	var detail struct {
		ShortSummary string `json:"short_summary"`
	}
	require.NoError(t, json.Unmarshal(got[0].Payload, &detail))
	assert.Equal(t, "wrapped", detail.ShortSummary)
}

func TestConnector_Fetch_SinceFiltersBeforeDetailFetch(t *testing.T) {
	var detailCalls []string
	server := beeServer(t, func(cursor string) []byte {
		if cursor == "" {
			// A full page of mostly-old conversations keeps pagination going.
			stubs := make(map[int]string, pageSize)
			order := make([]int, 0, pageSize)
			for i := 0; i < pageSize; i++ {
				id := 200 + i
				stubs[id] = "2025-07-01T08:00:00Z"
				order = append(order, id)
			}
			stubs[200+pageSize-1] = "2025-07-14T08:00:00Z"
			return conversationList(stubs, order, "page-2")
		}
		return conversationList(map[int]string{
			300: "2025-06-30T08:00:00Z",
			301: "2025-07-15T10:00:00Z",
		}, []int{300, 301}, "")
	}, &detailCalls)
	defer server.Close()

	connector := New(Config{BaseURL: server.URL, APIKey: "secret"})

	records, errs := connector.Fetch(context.Background(), driven.FetchQuery{Since: "2025-07-10"})
	got, err := collect(t, records, errs)
	require.NoError(t, err)

	// Only the conversations on or after the since date reach detail fetch.
	assert.Equal(t, []string{fmt.Sprintf("%d", 200+pageSize-1), "301"}, detailCalls)
	require.Len(t, got, 2)
	assert.Equal(t, "301", got[1].NativeID)
}

func TestConnector_Fetch_LimitCountsEmitted(t *testing.T) {
	var detailCalls []string
	server := beeServer(t, func(_ string) []byte {
		return conversationList(map[int]string{
			101: "2025-07-14T09:00:00Z",
			102: "2025-07-14T10:00:00Z",
			103: "2025-07-14T11:00:00Z",
		}, []int{101, 102, 103}, "")
	}, &detailCalls)
	defer server.Close()

	connector := New(Config{BaseURL: server.URL, APIKey: "secret"})

	records, errs := connector.Fetch(context.Background(), driven.FetchQuery{Limit: 2})
	got, err := collect(t, records, errs)
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Equal(t, []string{"101", "102"}, detailCalls)
}

func TestConnector_Fetch_VanishedConversationSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/me/conversations" {
			_, _ = w.Write(conversationList(map[int]string{
				101: "2025-07-14T09:00:00Z",
				102: "2025-07-14T10:00:00Z",
			}, []int{101, 102}, ""))
			return
		}
		if strings.HasSuffix(r.URL.Path, "/101") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":102,"short_summary":"still here"}`))
	}))
	defer server.Close()

	connector := New(Config{BaseURL: server.URL, APIKey: "secret"})

	records, errs := connector.Fetch(context.Background(), driven.FetchQuery{})
	got, err := collect(t, records, errs)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "102", got[0].NativeID)
}

func TestConnector_Fetch_ListErrorIsTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	connector := New(Config{BaseURL: server.URL, APIKey: "secret"})

	records, errs := connector.Fetch(context.Background(), driven.FetchQuery{})
	got, err := collect(t, records, errs)
	assert.Empty(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing conversations")
}

func TestConnector_Fetch_Closed(t *testing.T) {
	connector := New(Config{APIKey: "key"})
	require.NoError(t, connector.Close())

	records, errs := connector.Fetch(context.Background(), driven.FetchQuery{})
	got, err := collect(t, records, errs)
	assert.Empty(t, got)
	assert.ErrorIs(t, err, domain.ErrConnectorClosed)
}

func TestSkipBefore(t *testing.T) {
	tests := []struct {
		name      string
		startTime string
		since     string
		expected  bool
	}{
		{"no since keeps everything", "2025-07-01T08:00:00Z", "", false},
		{"no start time is kept", "", "2025-07-10", false},
		{"older is skipped", "2025-07-09T23:59:59Z", "2025-07-10", true},
		{"same day is kept", "2025-07-10T00:00:00Z", "2025-07-10", false},
		{"newer is kept", "2025-07-11T08:00:00Z", "2025-07-10", false},
		{"short start time is kept", "2025", "2025-07-10", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, skipBefore(tt.startTime, tt.since))
		})
	}
}
