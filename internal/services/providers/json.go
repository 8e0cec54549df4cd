package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/amaumene/videosync/internal/models"
)

// jsonSpec describes the list endpoint of a JSON provider
type jsonSpec struct {
	path       string // relative to the base path
	tokenParam string
	resultsKey string // empty when the body is a bare array
	limitParam string
	pageParam  string
}

var jsonSpecs = map[models.Origin]jsonSpec{
	models.OriginMoonwalk: {path: "movies_updates.json", tokenParam: "api_token", resultsKey: "updates", limitParam: "limit", pageParam: "page"},
	models.OriginTmdb:     {path: "movie/popular", tokenParam: "api_key", resultsKey: "results", pageParam: "page"},
	models.OriginKodik:    {path: "list", tokenParam: "token", resultsKey: "results", limitParam: "limit"},
	models.OriginHdvb:     {path: "videos.json", tokenParam: "token", limitParam: "limit", pageParam: "page"},
	models.OriginVideoCdn: {path: "short", tokenParam: "api_token", resultsKey: "data", limitParam: "limit", pageParam: "page"},
}

// DefaultBasePaths are used when configuration leaves the base path unset
var DefaultBasePaths = map[models.Origin]string{
	models.OriginMoonwalk: "/api",
	models.OriginTmdb:     "/3",
	models.OriginKodik:    "/",
	models.OriginHdvb:     "/api",
	models.OriginVideoCdn: "/api",
	models.OriginRutor:    "/browse/0/1/0/0",
}

// JSONClient fetches a provider list endpoint that answers with JSON
type JSONClient struct {
	http  *httpFetcher
	spec  jsonSpec
	token string
}

// Origin returns the provider tag
func (c *JSONClient) Origin() models.Origin {
	return c.http.origin
}

// Fetch returns the records of one list page
func (c *JSONClient) Fetch(ctx context.Context, query Query) ([]models.RawRecord, error) {
	params := url.Values{}
	params.Set(c.spec.tokenParam, c.token)
	if query.Limit > 0 && c.spec.limitParam != "" {
		params.Set(c.spec.limitParam, strconv.Itoa(query.Limit))
	}
	if query.Page > 0 && c.spec.pageParam != "" {
		params.Set(c.spec.pageParam, strconv.Itoa(query.Page))
	}

	body, err := c.http.get(ctx, c.spec.path, params)
	if err != nil {
		return nil, err
	}

	records, err := decodeRecords(body, c.spec.resultsKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.http.origin, err)
	}
	if query.Limit > 0 && len(records) > query.Limit {
		records = records[:query.Limit]
	}

	c.http.logger.WithField("origin", c.http.origin).WithField("count", len(records)).Debug("Fetched provider records")
	return records, nil
}

func decodeRecords(body []byte, resultsKey string) ([]models.RawRecord, error) {
	if resultsKey == "" {
		var list []models.RawRecord
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("failed to parse response: %v: %w", err, models.ErrFormat)
		}
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v: %w", err, models.ErrFormat)
	}
	raw, ok := envelope[resultsKey]
	if !ok {
		return nil, nil
	}
	var list []models.RawRecord
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %v: %w", resultsKey, err, models.ErrFormat)
	}
	return list, nil
}
