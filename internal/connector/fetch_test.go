// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package connector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/models"
)

func TestInjectAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		url   string
		key   string
		param string
		want  string
	}{
		{"no query", "https://api.example.com/q", "abc", "apikey", "https://api.example.com/q?apikey=abc"},
		{"existing query", "https://api.example.com/q?symbol=IBM", "abc", "apikey", "https://api.example.com/q?symbol=IBM&apikey=abc"},
		{"no key", "https://api.example.com/q", "", "apikey", "https://api.example.com/q"},
		{"no param", "https://api.example.com/q", "abc", "", "https://api.example.com/q"},
		{"escaped key", "https://api.example.com/q", "a b&c", "token", "https://api.example.com/q?token=a+b%26c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := InjectAPIKey(tt.url, tt.key, tt.param); got != tt.want {
				t.Errorf("InjectAPIKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetcher_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":67000.5}}`))
	}))
	defer srv.Close()

	v, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if got := jsonvalue.Text(jsonvalue.Resolve(v, "bitcoin.usd")); got != "67000.5" {
		t.Errorf("bitcoin.usd = %q, want 67000.5", got)
	}
}

func TestFetcher_StatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status      int
		sentinel    error
		message     string
		credentials bool
	}{
		{http.StatusTooManyRequests, ErrRateLimited, "Rate limit exceeded.", false},
		{http.StatusUnauthorized, ErrAuth, "Missing/Invalid API Key", true},
		{http.StatusForbidden, ErrAuth, "Missing/Invalid API Key", true},
		{http.StatusInternalServerError, ErrTransport, "API Error: 500", false},
		{http.StatusNotFound, ErrTransport, "API Error: 404", false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("Fetch() error = %v, want %v", err, tt.sentinel)
			}

			var se *SourceError
			if !errors.As(err, &se) {
				t.Fatalf("error is %T, want *SourceError", err)
			}
			if se.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.status)
			}

			we := se.WidgetError()
			if we.Message != tt.message {
				t.Errorf("Message = %q, want %q", we.Message, tt.message)
			}
			if we.NeedsCredentials != tt.credentials {
				t.Errorf("NeedsCredentials = %v, want %v", we.NeedsCredentials, tt.credentials)
			}
		})
	}
}

func TestFetcher_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"price": `))
	}))
	defer srv.Close()

	_, err := NewFetcher(srv.Client()).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("Fetch() error = %v, want ErrDecode", err)
	}
	if we := AsWidgetError(err); we.Kind != models.ErrorKindTransport {
		t.Errorf("widget error kind = %q, want transport", we.Kind)
	}
}

func TestFetcher_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(nil).Fetch(context.Background(), url)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Fetch() error = %v, want ErrTransport", err)
	}
	if got := AsWidgetError(err).Message; got != "Failed to fetch data" {
		t.Errorf("Message = %q", got)
	}
}

func TestResult(t *testing.T) {
	t.Parallel()

	if got := Result(nil); got != "success" {
		t.Errorf("Result(nil) = %q", got)
	}
	if got := Result(&SourceError{Kind: models.ErrorKindAuth}); got != "auth" {
		t.Errorf("Result(auth) = %q", got)
	}
	if got := Result(errors.New("boom")); got != "transport" {
		t.Errorf("Result(plain) = %q", got)
	}
}
