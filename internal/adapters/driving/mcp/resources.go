package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Pensieve resources.
	uriScheme = "pensieve://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing days with entries.
	s.impl.AddResource(&mcp.Resource{
		URI:         uriScheme + "days",
		Name:        "days",
		Description: "List of days in the archive with entry counts, newest first",
		MIMEType:    "application/json",
	}, s.handleDaysResource)

	// Template for a single day's entries.
	s.impl.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "days/{date}/entries",
		Name:        "day-entries",
		Description: "Entries recorded on a specific day",
		MIMEType:    "application/json",
	}, s.handleDayEntriesResource)

	// Template for entry content.
	s.impl.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "entries/{entryId}",
		Name:        "entry-content",
		Description: "Full text of a specific entry",
		MIMEType:    "text/plain",
	}, s.handleEntryContentResource)
}

// handleDaysResource returns the list of days that have entries.
func (s *Server) handleDaysResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.entries == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	stats, err := s.entries.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading archive stats: %w", err)
	}

	// Build simplified day list, newest first.
	type dayInfo struct {
		Date    string `json:"date"`
		Entries int    `json:"entries"`
	}

	dates := make([]string, 0, len(stats.Dates))
	for date := range stats.Dates {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	infos := make([]dayInfo, len(dates))
	for i, date := range dates {
		infos[i] = dayInfo{Date: date, Entries: stats.Dates[date]}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling days: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDayEntriesResource returns the entries for a specific day.
func (s *Server) handleDayEntriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.entries == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract date from URI: pensieve://days/{date}/entries
	date := extractDate(req.Params.URI)
	if date == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries, err := s.entries.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	// Build simplified entry list.
	type entryInfo struct {
		ID     string `json:"id"`
		Source string `json:"source"`
		Time   string `json:"time"`
		Title  string `json:"title"`
	}

	infos := make([]entryInfo, len(entries))
	for i := range entries {
		infos[i] = entryInfo{
			ID:     entries[i].ID,
			Source: entries[i].Source,
			Time:   entries[i].Timestamp.Format("15:04"),
			Title:  entries[i].Title(),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling entries: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleEntryContentResource returns the full text of a specific entry.
func (s *Server) handleEntryContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.entries == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract entryId from URI: pensieve://entries/{entryId}
	entryID := extractEntryID(req.Params.URI)
	if entryID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entry, err := s.entries.Get(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     entry.Text,
		}},
	}, nil
}

// extractDate extracts the date from a URI like pensieve://days/{date}/entries.
func extractDate(uri string) string {
	const prefix = uriScheme + "days/"
	const suffix = "/entries"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}

// extractEntryID extracts the entry ID from a URI like pensieve://entries/{entryId}.
func extractEntryID(uri string) string {
	const prefix = uriScheme + "entries/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
