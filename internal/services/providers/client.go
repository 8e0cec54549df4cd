// Package providers fetches raw records from the metadata providers
package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/models"
)

// Client returns provider-shaped records for one origin
type Client interface {
	Origin() models.Origin
	Fetch(ctx context.Context, query Query) ([]models.RawRecord, error)
}

// Query narrows a fetch
type Query struct {
	Limit int // 0 means provider default
	Page  int // 1-based, 0 means first page
}

// Endpoint is the connection settings of one provider
type Endpoint struct {
	Origin   models.Origin
	Host     string
	BasePath string
	Token    string
}

// Options tunes the HTTP layer shared by every client
type Options struct {
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
	UserAgent       string
}

// DefaultOptions returns the production HTTP settings
func DefaultOptions() Options {
	return Options{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		UserAgent:       "videosync/1.0",
	}
}

// New builds the client of an endpoint. Missing connection settings map to
// the provider error taxonomy.
func New(ep Endpoint, opts Options, logger *logrus.Logger) (Client, error) {
	if strings.TrimSpace(ep.Host) == "" {
		return nil, fmt.Errorf("%s: %w", ep.Origin, models.ErrHostNotFound)
	}
	if strings.TrimSpace(ep.BasePath) == "" {
		return nil, fmt.Errorf("%s: %w", ep.Origin, models.ErrBasePathNotFound)
	}

	h := &httpFetcher{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		origin:  ep.Origin,
		logger:  logger,
		baseURL: joinURL(ep.Host, ep.BasePath),
	}

	if ep.Origin == models.OriginRutor {
		return &RutorClient{http: h, host: joinURL(ep.Host, "")}, nil
	}

	spec, ok := jsonSpecs[ep.Origin]
	if !ok {
		return nil, fmt.Errorf("no client for origin %q: %w", ep.Origin, models.ErrInvalidArgument)
	}
	if strings.TrimSpace(ep.Token) == "" {
		return nil, fmt.Errorf("%s: %w", ep.Origin, models.ErrTokenNotFound)
	}
	return &JSONClient{http: h, spec: spec, token: ep.Token}, nil
}

// joinURL joins host and base path; a host without scheme gets https
func joinURL(host, basePath string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	basePath = strings.Trim(strings.TrimSpace(basePath), "/")
	if basePath == "" {
		return host
	}
	return host + "/" + basePath
}
