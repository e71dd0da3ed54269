// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package connector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/metrics"
	"github.com/tomtom215/finboard/internal/models"
)

// DefaultMaxBodyBytes caps how much of a REST response is read.
const DefaultMaxBodyBytes = 8 << 20

// InjectAPIKey appends param=key to rawURL, using "&" when the URL already
// has a query string and "?" otherwise. Either value being empty returns
// rawURL unchanged.
func InjectAPIKey(rawURL, key, param string) string {
	if key == "" || param == "" {
		return rawURL
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + url.QueryEscape(param) + "=" + url.QueryEscape(key)
}

// Fetcher performs one GET against a JSON endpoint and classifies the result.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	userAgent    string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithMaxBodyBytes limits the response body size.
func WithMaxBodyBytes(n int64) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodyBytes = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) { f.userAgent = ua }
}

// NewFetcher creates a Fetcher. A nil client gets a 30 second timeout.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	f := &Fetcher{
		client:       client,
		maxBodyBytes: DefaultMaxBodyBytes,
		userAgent:    "FinBoard/1.0",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs rawURL and decodes the body. Failures are *SourceError:
//
//	401, 403        -> auth
//	429             -> rate_limited
//	other non-2xx   -> transport with StatusCode
//	network error   -> transport
//	malformed body  -> decode
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (jsonvalue.Value, error) {
	start := time.Now()
	v, err := f.fetch(ctx, rawURL)
	metrics.RecordSourceFetch(Result(err), time.Since(start))
	return v, err
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (jsonvalue.Value, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return jsonvalue.Value{}, &SourceError{Kind: models.ErrorKindTransport, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return jsonvalue.Value{}, &SourceError{Kind: models.ErrorKindTransport, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return jsonvalue.Value{}, &SourceError{Kind: models.ErrorKindRateLimited, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return jsonvalue.Value{}, &SourceError{Kind: models.ErrorKindAuth, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return jsonvalue.Value{}, &SourceError{Kind: models.ErrorKindTransport, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		return jsonvalue.Value{}, &SourceError{Kind: models.ErrorKindTransport, Err: fmt.Errorf("read body: %w", err)}
	}

	v, err := jsonvalue.Parse(body)
	if err != nil {
		return jsonvalue.Value{}, &SourceError{Kind: models.ErrorKindDecode, Err: err}
	}
	return v, nil
}
