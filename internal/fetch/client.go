// Package fetch pulls the full record set from the transaction-management
// API. The API pages with limit/offset and signals the final page by
// returning fewer rows than requested.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"otc-reports/internal/record"
	"otc-reports/pkg/platform"
)

// DefaultPageSize matches the upstream API's maximum page size.
const DefaultPageSize = 50

// Client fetches paginated record listings.
type Client struct {
	baseURL  string
	apiToken string
	pageSize int
	http     *platform.HTTPClient
	logger   *slog.Logger
}

// NewClient creates a fetch client for the given API base URL and token.
func NewClient(baseURL, apiToken string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		pageSize: DefaultPageSize,
		http:     platform.NewHTTPClient(3, 30*time.Second),
		logger:   logger,
	}
}

// wireRecord is the upstream listing shape. The attribute bag arrives as a
// JSON array of {id,key,label,value} entries; a malformed bag degrades to an
// empty one rather than failing the page.
type wireRecord struct {
	ID          int64              `json:"id"`
	TeamName    string             `json:"team_name"`
	Created     string             `json:"created"`
	Timezone    string             `json:"timezone"`
	CreatedBy   string             `json:"created_by"`
	FieldValues []record.Attribute `json:"field_values"`
}

// Properties fetches every record from the properties listing.
func (c *Client) Properties(ctx context.Context) (record.Collection, error) {
	return c.fetchAll(ctx, "/v1/properties")
}

// Agents fetches every record from the agents listing.
func (c *Client) Agents(ctx context.Context) (record.Collection, error) {
	return c.fetchAll(ctx, "/v1/agents")
}

func (c *Client) fetchAll(ctx context.Context, path string) (record.Collection, error) {
	var all record.Collection
	offset := 0
	for {
		page, err := c.fetchPage(ctx, path, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s at offset %d: %w", path, offset, err)
		}
		for _, w := range page {
			all = append(all, toRecord(w))
		}
		c.logger.Info("fetched page", "path", path, "offset", offset, "rows", len(page))
		if len(page) < c.pageSize {
			return all, nil
		}
		offset += c.pageSize
	}
}

func (c *Client) fetchPage(ctx context.Context, path string, offset int) ([]wireRecord, error) {
	params := url.Values{}
	params.Set("api_token", c.apiToken)
	params.Set("limit", fmt.Sprintf("%d", c.pageSize))
	params.Set("offset", fmt.Sprintf("%d", offset))

	var page []wireRecord
	if err := c.http.GetJSON(ctx, c.baseURL+path+"?"+params.Encode(), &page); err != nil {
		return nil, err
	}
	return page, nil
}

func toRecord(w wireRecord) record.Record {
	createdAt, _ := time.Parse("2006-01-02 15:04:05", w.Created)
	return record.Record{
		ID:         fmt.Sprintf("%d", w.ID),
		Team:       w.TeamName,
		CreatedAt:  createdAt,
		Timezone:   w.Timezone,
		CreatedBy:  w.CreatedBy,
		Attributes: w.FieldValues,
	}
}
