// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	widgetIDKey  contextKey = "widget_id"
)

// GenerateRequestID creates a new request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns ctx carrying the HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" when absent.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithWidgetID returns ctx carrying the widget a goroutine works for.
func ContextWithWidgetID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, widgetIDKey, id)
}

// WidgetIDFromContext returns the widget ID, or "" when absent.
func WidgetIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(widgetIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger with request_id and widget_id added when
// ctx carries them.
//
//	logging.Ctx(ctx).Info().Msg("Widget added")
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := With()
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if id := WidgetIDFromContext(ctx); id != "" {
		lc = lc.Str("widget_id", id)
	}
	l := lc.Logger()
	return &l
}

// WithComponent creates a child logger with a component field.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
