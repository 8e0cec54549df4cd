package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/models"
)

// maxBodySize caps a provider response
const maxBodySize = 20 * 1024 * 1024

type httpFetcher struct {
	client  *http.Client
	opts    Options
	origin  models.Origin
	logger  *logrus.Logger
	baseURL string
}

// get fetches baseURL/path with params. Transport failures and 5xx
// responses are retried with exponential backoff; 401/403 map to
// ErrInvalidToken and are not retried.
func (h *httpFetcher) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	fullURL := h.baseURL
	if path != "" {
		fullURL += "/" + path
	}
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	h.logger.WithFields(logrus.Fields{
		"origin": h.origin,
		"url":    redact(fullURL),
	}).Debug("Making provider request")

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %v: %w", err, models.ErrTransport))
		}
		req.Header.Set("User-Agent", h.opts.UserAgent)
		req.Header.Set("Accept", "application/json, text/html")

		resp, err := h.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			h.logger.WithError(err).WithField("attempt", attempt).Warn("Provider request failed")
			return fmt.Errorf("%s request failed: %v: %w", h.origin, err, models.ErrTransport)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(fmt.Errorf("%s returned status %d: %w", h.origin, resp.StatusCode, models.ErrInvalidToken))
		case resp.StatusCode >= 500:
			h.logger.WithFields(logrus.Fields{
				"status_code": resp.StatusCode,
				"attempt":     attempt,
			}).Warn("Provider returned server error")
			return fmt.Errorf("%s returned status %d: %w", h.origin, resp.StatusCode, models.ErrTransport)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("%s returned status %d: %w", h.origin, resp.StatusCode, models.ErrTransport))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return fmt.Errorf("failed to read %s response: %v: %w", h.origin, err, models.ErrTransport)
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = h.opts.InitialInterval
	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, h.opts.MaxRetries), ctx))
	if err != nil {
		return nil, err
	}

	h.logger.WithFields(logrus.Fields{
		"origin":   h.origin,
		"bytes":    len(body),
		"attempts": attempt,
	}).Debug("Provider request completed")
	return body, nil
}

// redact hides credentials in logged URLs
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, key := range []string{"token", "api_token", "api_key"} {
		if q.Has(key) {
			q.Set(key, "xxx")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
