package integrator_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/internal/domain"
)

func TestDo_ReturnsBodyOnSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	body, err := integrator.Do(server.Client(), domain.PlatformMeta, req, 0)

	require.NoError(t, err)
	assert.Equal(t, `{"data":[]}`, string(body))
}

func TestDo_RetriesAfterRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	body, err := integrator.Do(server.Client(), domain.PlatformTikTok, req, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_RewindsPostBodyOnRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"query":"metrics"}`, string(payload))

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader(`{"query":"metrics"}`))
	require.NoError(t, err)

	_, err = integrator.Do(server.Client(), domain.PlatformYouTube, req, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestDo_GivesUpAfterRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = integrator.Do(server.Client(), domain.PlatformMeta, req, time.Millisecond)

	require.Error(t, err)
	assert.True(t, integrator.IsRateLimited(err))
	assert.Equal(t, int32(4), calls.Load())
}

func TestDo_NonRetryableStatusFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"expired token"}}`))
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = integrator.Do(server.Client(), domain.PlatformMeta, req, time.Millisecond)

	require.Error(t, err)
	assert.False(t, integrator.IsRateLimited(err))
	assert.Contains(t, err.Error(), "expired token")
	assert.Equal(t, int32(1), calls.Load())
}
