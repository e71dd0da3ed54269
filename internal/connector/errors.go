// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package connector

import (
	"errors"
	"fmt"

	"github.com/tomtom215/finboard/internal/models"
)

// Sentinel errors matched with errors.Is against a *SourceError.
var (
	ErrAuth        = errors.New("missing or invalid API key")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrTransport   = errors.New("transport failure")
	ErrDecode      = errors.New("malformed JSON payload")
	ErrSocket      = errors.New("websocket failure")
)

// SourceError describes why a data source could not be read.
type SourceError struct {
	Kind       models.ErrorKind
	StatusCode int
	Err        error
}

func (e *SourceError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s (status %d)", e.Kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *SourceError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *SourceError) Is(target error) bool {
	switch target {
	case ErrAuth:
		return e.Kind == models.ErrorKindAuth
	case ErrRateLimited:
		return e.Kind == models.ErrorKindRateLimited
	case ErrTransport:
		return e.Kind == models.ErrorKindTransport
	case ErrDecode:
		return e.Kind == models.ErrorKindDecode
	case ErrSocket:
		return e.Kind == models.ErrorKindSocket
	default:
		return false
	}
}

// WidgetError converts e into the message shown on the widget.
//
// Malformed REST bodies surface as transport errors, matching how the
// dashboard has always reported them.
func (e *SourceError) WidgetError() *models.WidgetError {
	we := &models.WidgetError{Kind: e.Kind, StatusCode: e.StatusCode}

	switch e.Kind {
	case models.ErrorKindAuth:
		we.Message = "Missing/Invalid API Key"
		we.NeedsCredentials = true
	case models.ErrorKindRateLimited:
		we.Message = "Rate limit exceeded."
	case models.ErrorKindSocket:
		we.Message = "WebSocket Error"
	case models.ErrorKindDecode:
		we.Kind = models.ErrorKindTransport
		we.Message = "Invalid JSON response"
	default:
		if e.StatusCode != 0 {
			we.Message = fmt.Sprintf("API Error: %d", e.StatusCode)
		} else {
			we.Message = "Failed to fetch data"
		}
	}

	return we
}

// AsWidgetError converts any error into a widget error. Unknown errors are
// reported as transport failures.
func AsWidgetError(err error) *models.WidgetError {
	if err == nil {
		return nil
	}
	var se *SourceError
	if errors.As(err, &se) {
		return se.WidgetError()
	}
	return (&SourceError{Kind: models.ErrorKindTransport, Err: err}).WidgetError()
}

// Result labels a fetch outcome for metrics.
func Result(err error) string {
	if err == nil {
		return "success"
	}
	var se *SourceError
	if errors.As(err, &se) {
		return string(se.Kind)
	}
	return string(models.ErrorKindTransport)
}
