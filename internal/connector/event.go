// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package connector

import (
	"context"

	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/models"
)

// EventKind says which Event fields carry information.
type EventKind uint8

const (
	// EventState sets State, Err and Live.
	EventState EventKind = iota + 1
	// EventPayload replaces the raw payload, sets State and clears Err.
	EventPayload
	// EventCooldown reports the seconds left before polling resumes.
	EventCooldown
	// EventClosed marks the socket closed without an error.
	EventClosed
)

func (k EventKind) String() string {
	switch k {
	case EventState:
		return "state"
	case EventPayload:
		return "payload"
	case EventCooldown:
		return "cooldown"
	case EventClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is a message from a connector to the widget runtime that owns it.
// Generation is stamped by the runtime, not by connectors.
type Event struct {
	Generation uint64
	Kind       EventKind
	State      models.ConnectionState
	Err        *models.WidgetError
	Live       bool
	Payload    jsonvalue.Value
	Cooldown   int
}

// EmitFunc delivers an event to the owning runtime. It must not block past
// the cancellation of the connector's context.
type EmitFunc func(Event)

// Connector acquires data for one widget until ctx is canceled.
type Connector interface {
	Run(ctx context.Context, emit EmitFunc) error
	String() string
}

func stateEvent(state models.ConnectionState, err *models.WidgetError, live bool) Event {
	return Event{Kind: EventState, State: state, Err: err, Live: live}
}

func payloadEvent(v jsonvalue.Value, state models.ConnectionState, live bool) Event {
	return Event{Kind: EventPayload, Payload: v, State: state, Live: live}
}

func cooldownEvent(seconds int) Event {
	return Event{Kind: EventCooldown, Cooldown: seconds}
}
