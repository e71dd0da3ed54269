// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

/*
streamer.go - WebSocket Source Connector

A Streamer opens one socket to a push source, sends the optional subscribe
message once the connection is open, and forwards every frame that decodes
as JSON. Frames that fail to decode are dropped. There is no reconnect: a
closed or failed socket stays down until the widget is reconfigured or
refreshed.
*/

package connector

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/finboard/internal/jsonvalue"
	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/metrics"
	"github.com/tomtom215/finboard/internal/models"
)

// Streamer defaults.
const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultMaxMessageBytes  = 1 << 20
	closeGracePeriod        = time.Second
)

// StreamerConfig configures a Streamer.
type StreamerConfig struct {
	WidgetID  string
	URL       string
	Subscribe []byte

	HandshakeTimeout time.Duration
	MaxMessageBytes  int64
}

// Streamer is the push connector.
type Streamer struct {
	cfg    StreamerConfig
	dialer *websocket.Dialer
}

// NewStreamer creates a Streamer.
func NewStreamer(cfg StreamerConfig) *Streamer {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = DefaultMaxMessageBytes
	}
	// A JSON null means no subscribe message.
	if models.IsUnsetMessage(cfg.Subscribe) {
		cfg.Subscribe = nil
	}
	return &Streamer{
		cfg: cfg,
		dialer: &websocket.Dialer{
			HandshakeTimeout:  cfg.HandshakeTimeout,
			EnableCompression: true,
		},
	}
}

func (s *Streamer) String() string {
	return fmt.Sprintf("ws-streamer[%s]", s.cfg.WidgetID)
}

// Run dials the socket and reads until the socket closes or ctx is
// canceled. Cancellation sends a normal-closure frame before closing.
func (s *Streamer) Run(ctx context.Context, emit EmitFunc) error {
	emit(stateEvent(models.StateConnecting, nil, false))

	conn, resp, err := s.dialer.DialContext(ctx, s.cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.Debug().Err(cerr).Msg("Failed to close handshake response body")
		}
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		se := &SourceError{Kind: models.ErrorKindSocket, Err: err}
		if resp != nil {
			se.StatusCode = resp.StatusCode
		}
		logging.Warn().Err(err).Str("widget_id", s.cfg.WidgetID).Msg("WebSocket dial failed")
		emit(stateEvent(models.StateError, se.WidgetError(), false))
		return se
	}
	conn.SetReadLimit(s.cfg.MaxMessageBytes)

	metrics.SocketConnectionsActive.Inc()
	defer metrics.SocketConnectionsActive.Dec()

	logging.Debug().Str("widget_id", s.cfg.WidgetID).Msg("WebSocket connected")
	emit(stateEvent(models.StateLive, nil, true))

	if len(s.cfg.Subscribe) > 0 {
		if werr := conn.WriteMessage(websocket.TextMessage, s.cfg.Subscribe); werr != nil {
			logging.Warn().Err(werr).Str("widget_id", s.cfg.WidgetID).Msg("Failed to send subscribe message")
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			closeConnection(conn)
		case <-done:
			if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				logging.Debug().Err(err).Msg("Failed to close websocket")
			}
		}
	}()

	return s.readLoop(ctx, conn, emit)
}

func (s *Streamer) readLoop(ctx context.Context, conn *websocket.Conn, emit EmitFunc) error {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Debug().Str("widget_id", s.cfg.WidgetID).Msg("WebSocket closed by source")
				emit(Event{Kind: EventClosed, State: models.StateIdle})
				return nil
			}
			se := &SourceError{Kind: models.ErrorKindSocket, Err: err}
			logging.Warn().Err(err).Str("widget_id", s.cfg.WidgetID).Msg("WebSocket read error")
			emit(stateEvent(models.StateError, se.WidgetError(), false))
			return se
		}

		v, perr := jsonvalue.Parse(message)
		if perr != nil {
			metrics.RecordSocketFrame(false)
			logging.Debug().Err(perr).Str("widget_id", s.cfg.WidgetID).Msg("Dropping undecodable frame")
			continue
		}
		metrics.RecordSocketFrame(true)

		if ctx.Err() != nil {
			return nil
		}
		emit(payloadEvent(v, models.StateLive, true))
	}
}

// closeConnection sends a normal-closure frame and closes conn.
func closeConnection(conn *websocket.Conn) {
	if err := conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeGracePeriod),
	); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		logging.Debug().Err(err).Msg("Failed to send close message")
	}
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		logging.Debug().Err(err).Msg("Failed to close websocket")
	}
}
