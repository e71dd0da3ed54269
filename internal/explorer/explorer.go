// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package explorer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/finboard/internal/connector"
	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/metrics"
	"github.com/tomtom215/finboard/internal/models"
)

var (
	// ErrInvalidAPIKey is returned when the endpoint answers 401 or 403.
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrThrottled is returned when the local probe budget is spent.
	ErrThrottled = errors.New("too many probe requests")
	// ErrCircuitOpen is returned while a host's breaker rejects calls.
	ErrCircuitOpen = errors.New("upstream temporarily unavailable")
	// ErrInvalidURL is returned for anything but an absolute http(s) URL.
	ErrInvalidURL = errors.New("probe url must be an absolute http or https URL")
)

// Config tunes the probe limiter and breakers.
type Config struct {
	RatePerSecond   float64
	Burst           int
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		RatePerSecond:   2,
		Burst:           5,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Request is one probe.
type Request struct {
	URL         string `json:"url" validate:"required,source_url"`
	APIKey      string `json:"apiKey,omitempty"`
	APIKeyParam string `json:"apiKeyParam,omitempty" validate:"max=128"`
}

// Field is one discovered leaf.
type Field struct {
	Path           string          `json:"path"`
	SuggestedLabel string          `json:"suggested_label"`
	Kind           string          `json:"kind"`
	Sample         jsonvalue.Value `json:"sample"`
}

// Result describes the probed response.
type Result struct {
	URL           string            `json:"url"`
	IsArray       bool              `json:"is_array"`
	RecordCount   int               `json:"record_count"`
	SuggestedType models.WidgetType `json:"suggested_type"`
	Fields        []Field           `json:"fields"`
	Raw           jsonvalue.Value   `json:"raw"`
}

// Explorer runs probes.
type Explorer struct {
	fetcher *connector.Fetcher
	limiter *rate.Limiter
	cfg     Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[jsonvalue.Value]
}

// New creates an Explorer. Zero config values fall back to DefaultConfig.
func New(fetcher *connector.Fetcher, cfg Config) *Explorer {
	def := DefaultConfig()
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = def.RatePerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}
	if fetcher == nil {
		fetcher = connector.NewFetcher(nil)
	}
	return &Explorer{
		fetcher:  fetcher,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		cfg:      cfg,
		breakers: make(map[string]*gobreaker.CircuitBreaker[jsonvalue.Value]),
	}
}

// Probe fetches req.URL once and describes the response.
func (e *Explorer) Probe(ctx context.Context, req Request) (*Result, error) {
	u, err := url.Parse(req.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		metrics.RecordExplorerProbe("error")
		return nil, ErrInvalidURL
	}

	if !e.limiter.Allow() {
		metrics.RecordExplorerProbe("throttled")
		return nil, ErrThrottled
	}

	target := connector.InjectAPIKey(req.URL, req.APIKey, req.APIKeyParam)
	cb := e.breaker(u.Host)

	raw, err := cb.Execute(func() (jsonvalue.Value, error) {
		return e.fetcher.Fetch(ctx, target)
	})
	if err != nil {
		return nil, e.classify(cb.Name(), req.URL, err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cb.Name(), "success").Inc()
	metrics.RecordExplorerProbe("success")
	return describe(logging.RedactURL(req.URL), raw), nil
}

func (e *Explorer) classify(name, rawURL string, err error) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(name, "rejected").Inc()
		metrics.RecordExplorerProbe("rejected")
		logging.Warn().Str("breaker", name).Msg("Explorer probe rejected by circuit breaker")
		return ErrCircuitOpen
	case errors.Is(err, connector.ErrAuth):
		metrics.CircuitBreakerRequests.WithLabelValues(name, "success").Inc()
		metrics.RecordExplorerProbe("error")
		return ErrInvalidAPIKey
	default:
		if !countsAsSuccess(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(name, "failure").Inc()
		}
		metrics.RecordExplorerProbe("error")
		logging.Debug().Err(err).Str("url", logging.RedactURL(rawURL)).Msg("Explorer probe failed")
		return fmt.Errorf("probe %s: %w", logging.RedactURL(rawURL), err)
	}
}

// breaker returns the breaker for host, creating it on first use.
func (e *Explorer) breaker(host string) *gobreaker.CircuitBreaker[jsonvalue.Value] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cb, ok := e.breakers[host]; ok {
		return cb
	}

	name := "explorer:" + host
	threshold := e.cfg.BreakerFailures
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[jsonvalue.Value](gobreaker.Settings{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      e.cfg.BreakerTimeout,
		IsSuccessful: countsAsSuccess,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
	e.breakers[host] = cb
	return cb
}

// countsAsSuccess keeps answers that prove the host is up from tripping
// the breaker.
func countsAsSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, connector.ErrAuth) ||
		errors.Is(err, connector.ErrRateLimited) ||
		errors.Is(err, connector.ErrDecode) ||
		errors.Is(err, context.Canceled)
}

func describe(displayURL string, raw jsonvalue.Value) *Result {
	res := &Result{
		URL:           displayURL,
		SuggestedType: models.WidgetTypeCard,
		Raw:           raw,
	}

	sample := raw
	if raw.IsArray() {
		res.IsArray = true
		res.RecordCount = raw.Len()
		if res.RecordCount > 0 {
			res.SuggestedType = models.WidgetTypeTable
			sample = raw.Items()[0]
		}
	} else if raw.IsPresent() {
		res.RecordCount = 1
	}

	entries := jsonvalue.Flatten(sample)
	res.Fields = make([]Field, 0, len(entries))
	for _, entry := range entries {
		res.Fields = append(res.Fields, Field{
			Path:           entry.Path,
			SuggestedLabel: SuggestLabel(entry.Path),
			Kind:           entry.Value.Kind().String(),
			Sample:         entry.Value,
		})
	}
	return res
}

// SuggestLabel turns a dotted path into a display label: the last segment
// with its first letter upper-cased and underscores shown as spaces.
//
//	SuggestLabel("market_data.current_price") // "Current price"
func SuggestLabel(path string) string {
	last := jsonvalue.LastSegment(path)
	if last == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(last)
	return string(unicode.ToUpper(r)) + strings.ReplaceAll(last[size:], "_", " ")
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
