// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/finboard/internal/logging"
	"github.com/tomtom215/finboard/internal/metrics"
	"github.com/tomtom215/finboard/internal/models"
	"github.com/tomtom215/finboard/internal/widget"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeDashboardState = "dashboard_state"
	MessageTypeWidgetSnapshot = "widget_snapshot"
	MessageTypeLayoutChanged  = "layout_changed"
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
)

const broadcastBuffer = 256

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// LayoutChangedData is the payload of a layout_changed message.
type LayoutChangedData struct {
	Widgets []models.Widget `json:"widgets"`
}

// StateFunc returns the payload of the dashboard_state message sent to
// each new client.
type StateFunc func() interface{}

// directMessage is a reply addressed to one client.
type directMessage struct {
	client *Client
	msg    Message
}

// Hub maintains the set of active clients and broadcasts messages to the clients.
//
// Only the run loop sends on or closes a client's send channel.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	direct     chan directMessage
	mu         sync.RWMutex

	// done is closed when the current run ends and replaced on restart.
	runMu sync.Mutex
	done  chan struct{}

	stateMu sync.RWMutex
	state   StateFunc
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

func (h *Hub) runDone() chan struct{} {
	h.runMu.Lock()
	defer h.runMu.Unlock()
	return h.done
}

// Register hands a client to the run loop. It returns false when the hub
// has stopped; the caller then owns the connection and should close it.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.runDone():
		return false
	}
}

// Unregister removes a client. It returns immediately once the hub has
// stopped, since shutdown already closed every client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.runDone():
	}
}

// reply queues msg for a single client through the run loop. Replies to
// clients the hub already dropped are discarded.
func (h *Hub) reply(client *Client, msg Message) bool {
	select {
	case h.direct <- directMessage{client: client, msg: msg}:
		return true
	case <-h.runDone():
		return false
	}
}

// SetStateFunc sets the source of the greeting sent to new clients. The
// hub and the dashboard reference each other, so this is wired after both
// exist.
func (h *Hub) SetStateFunc(fn StateFunc) {
	h.stateMu.Lock()
	defer h.stateMu.Unlock()
	h.state = fn
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client and returns ctx.Err().
//
// Selection is prioritized: shutdown first, then client lifecycle, then
// broadcasts, so a client is always registered before it can miss a
// message.
func (h *Hub) RunWithContext(ctx context.Context) error {
	h.runMu.Lock()
	select {
	case <-h.done:
		h.done = make(chan struct{})
	default:
	}
	done := h.done
	h.runMu.Unlock()
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.register:
			h.addClient(client)
			continue
		case client := <-h.unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case d := <-h.direct:
			h.sendDirect(d)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(total))

	h.stateMu.RLock()
	state := h.state
	h.stateMu.RUnlock()
	if state != nil {
		select {
		case client.send <- Message{Type: MessageTypeDashboardState, Data: state()}:
		default:
		}
	}

	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WSConnections.Set(float64(total))

	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// sendDirect delivers a reply if the client is still registered. A full
// buffer drops the reply rather than the client.
func (h *Hub) sendDirect(d directMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[d.client] {
		return
	}
	select {
	case d.client.send <- d.msg:
	default:
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// sortedClientsLocked returns clients in ID order. Caller holds h.mu.
func (h *Hub) sortedClientsLocked() []*Client {
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// broadcastToClients sends message to every client in ID order. Clients
// whose buffer is full are disconnected.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	var toRemove []*Client
	for _, client := range h.sortedClientsLocked() {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}
	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.RecordBroadcast(message.Type)
	if len(toRemove) > 0 {
		metrics.WSConnections.Set(float64(total))
		logging.Warn().Int("dropped_clients", len(toRemove)).Msg("disconnected slow websocket clients")
	}
}

// closeAllClients closes every client's send channel in ID order.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.sortedClientsLocked() {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WSConnections.Set(0)
}

// BroadcastJSON queues a message for all clients. It never blocks; when the
// queue is full the message is dropped.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// PublishSnapshot broadcasts a widget snapshot.
func (h *Hub) PublishSnapshot(s widget.Snapshot) {
	h.BroadcastJSON(MessageTypeWidgetSnapshot, s)
}

// PublishLayout broadcasts the new widget list.
func (h *Hub) PublishLayout(widgets []models.Widget) {
	h.BroadcastJSON(MessageTypeLayoutChanged, LayoutChangedData{Widgets: widgets})
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
