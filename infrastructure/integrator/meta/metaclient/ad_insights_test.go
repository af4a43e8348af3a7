package metaclient_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

func TestGetAdInsights_FollowsCursorPagination(t *testing.T) {
	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)

		assert.Equal(t, "/act_123/insights", r.URL.Path)
		assert.Equal(t, "token-1", r.URL.Query().Get("access_token"))
		assert.Equal(t, "ad", r.URL.Query().Get("level"))
		// The field selection must survive onto cursor pages.
		assert.Contains(t, r.URL.Query().Get("fields"), "spend")

		if r.URL.Query().Get("after") == "" {
			fmt.Fprint(w, `{
				"data": [{"ad_id":"ad-1","date_start":"2024-03-14"}],
				"paging": {"cursors":{"after":"cursor-2"},"next":"https://graph.example.com/next"}
			}`)
			return
		}

		assert.Equal(t, "cursor-2", r.URL.Query().Get("after"))
		fmt.Fprint(w, `{"data": [{"ad_id":"ad-2","date_start":"2024-03-14"}], "paging": {}}`)
	}))
	defer server.Close()

	client := metaclient.NewClient(&config.Config{
		Meta: config.Meta{URL: server.URL, PageSize: 1},
	})

	dateRange := utils.DateRange{
		From: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	}

	insights, err := client.GetAdInsights("token-1", "123", dateRange)

	require.NoError(t, err)
	require.Len(t, insights, 2)
	assert.Equal(t, "ad-1", insights[0].AdID)
	assert.Equal(t, "ad-2", insights[1].AdID)
	assert.Len(t, requests, 2)
}

func TestGetAdInsights_PropagatesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"invalid time_range"}}`)
	}))
	defer server.Close()

	client := metaclient.NewClient(&config.Config{
		Meta: config.Meta{URL: server.URL, PageSize: 25},
	})

	_, err := client.GetAdInsights("token-1", "123", utils.DateRange{
		From: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid time_range")
}
