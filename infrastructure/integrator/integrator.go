package integrator

import (
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/pkg/utils"
)

// Ingestor is the contract every platform integrator satisfies. The sync
// runner only knows this interface; everything platform-specific (auth,
// pagination, field mapping) lives behind it.
type Ingestor interface {
	Platform() domain.Platform
	// FetchPerformance returns one row per (day, ad) for the inclusive date
	// range, mapped to the shared raw shape with metrics in the platform's
	// original currency. The range is already chunked by the caller.
	FetchPerformance(conn *domain.Connection, accessToken string, dateRange utils.DateRange) ([]*domain.RawPerformance, error)
	// BackfillCreatives resolves creative metadata for the given ads. Missing
	// ads are simply absent from the result; a partial map is not an error.
	BackfillCreatives(conn *domain.Connection, accessToken string, adIDs []string) (map[string]domain.CreativeUpdate, error)
}

// APIError is a non-2xx answer from a platform API. Rate limits are retried
// by Do; anything else aborts the current chunk only.
type APIError struct {
	Platform   domain.Platform
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return errors.Errorf("%s API returned status %d: %s", e.Platform, e.StatusCode, e.Body).Error()
}

// IsRateLimited reports whether err (possibly wrapped) is a 429 answer.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

const maxRateLimitRetries = 3

// Do sends the request and reads the full body. On 429 it waits the fixed
// cooldown and re-sends the same request, up to maxRateLimitRetries times.
// Other non-2xx statuses return an *APIError immediately.
func Do(client *http.Client, platform domain.Platform, req *http.Request, cooldown time.Duration) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRateLimitRetries; attempt++ {
		if attempt > 0 {
			logrus.WithFields(logrus.Fields{
				"platform": platform,
				"url":      req.URL.Path,
				"cooldown": cooldown.String(),
				"attempt":  attempt,
			}).Warn("ingest: rate limited, waiting before retry")
			time.Sleep(cooldown)

			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, errors.Wrap(err, "rewinding request body for retry")
				}
				req.Body = body
			}
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, errors.Wrapf(err, "requesting %s API", platform)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s API response", platform)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		lastErr = &APIError{
			Platform:   platform,
			StatusCode: resp.StatusCode,
			Body:       truncateBody(body),
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return nil, lastErr
		}
	}

	return nil, errors.Wrap(lastErr, "rate limit retries exhausted")
}

func truncateBody(body []byte) string {
	const maxLen = 512
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
