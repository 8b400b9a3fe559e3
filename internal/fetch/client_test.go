package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pagedServer(t *testing.T, total int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-token", r.URL.Query().Get("api_token"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		var page []map[string]interface{}
		for i := offset; i < offset+limit && i < total; i++ {
			page = append(page, map[string]interface{}{
				"id":        i + 1,
				"team_name": "Team Molly Kelley",
				"created":   "2025-01-02 10:00:00",
				"field_values": []map[string]interface{}{
					{"key": "contract_status", "label": "Contract Status", "value": "CTC - Pending"},
				},
			})
		}
		if page == nil {
			page = []map[string]interface{}{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(page)
	}))
}

func TestPropertiesPaginatesUntilShortPage(t *testing.T) {
	// 120 rows = two full pages of 50 plus a short page of 20.
	srv := pagedServer(t, 120)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", nil)
	records, err := c.Properties(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 120)

	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "120", records[119].ID)
	assert.Equal(t, "Team Molly Kelley", records[0].Team)
	assert.Equal(t, 2025, records[0].CreatedAt.Year())

	status, ok := records[0].Extract("contract_status")
	require.True(t, ok)
	assert.Equal(t, "CTC - Pending", status)
}

func TestPropertiesExactPageBoundary(t *testing.T) {
	// Exactly one full page: the loop must stop on the following empty page.
	srv := pagedServer(t, 50)
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", nil)
	records, err := c.Properties(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 50)
}

func TestFetchErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-token", nil)
	_, err := c.Properties(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d", http.StatusForbidden))
}
