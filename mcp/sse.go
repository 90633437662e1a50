package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/foomo/reportviewer/service/vo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID       string
	Writer   http.ResponseWriter
	Flusher  http.Flusher
	Done     chan struct{}
	LastSeen time.Time

	mu sync.Mutex
}

// SSEServer fans viewer events out to connected clients
type SSEServer struct {
	logger       *zap.Logger
	config       *SSEServerConfig
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	broadcast    chan SSEEvent
	closed       bool
	loopDone     chan struct{}
}

// SSEServerConfig holds configuration for the SSE server
type SSEServerConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
	ClientTimeout     time.Duration
}

// DefaultSSEServerConfig returns the default configuration for SSE server
func DefaultSSEServerConfig() *SSEServerConfig {
	return &SSEServerConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
		ClientTimeout:     60 * time.Second,
	}
}

// NewSSEServer creates a new SSE server and starts its broadcast loop
func NewSSEServer(logger *zap.Logger, config *SSEServerConfig) *SSEServer {
	if config == nil {
		config = DefaultSSEServerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sseServer := &SSEServer{
		logger:    logger,
		config:    config,
		clients:   make(map[string]*SSEClient),
		broadcast: make(chan SSEEvent, config.BufferSize),
		loopDone:  make(chan struct{}),
	}

	go sseServer.broadcastLoop()

	return sseServer
}

// broadcastLoop handles broadcasting events to all connected clients
func (s *SSEServer) broadcastLoop() {
	defer close(s.loopDone)
	for event := range s.broadcast {
		var failed []string
		s.clientsMutex.RLock()
		for clientID, client := range s.clients {
			select {
			case <-client.Done:
				failed = append(failed, clientID)
			default:
				if err := s.sendEventToClient(client, event); err != nil {
					s.logger.Error("failed to send event to client", zap.String("clientID", clientID), zap.Error(err))
					failed = append(failed, clientID)
				}
			}
		}
		s.clientsMutex.RUnlock()
		for _, clientID := range failed {
			s.removeClient(clientID)
		}
	}
}

// sendEventToClient sends an SSE event to a specific client
func (s *SSEServer) sendEventToClient(client *SSEClient, event SSEEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	if _, err := fmt.Fprintf(client.Writer, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, string(eventJSON)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	client.Flusher.Flush()
	client.LastSeen = time.Now()

	return nil
}

// addClient adds a new SSE client
func (s *SSEServer) addClient(w http.ResponseWriter) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	client := &SSEClient{
		ID:       uuid.NewString(),
		Writer:   w,
		Flusher:  flusher,
		Done:     make(chan struct{}),
		LastSeen: time.Now(),
	}

	connectEvent := newSSEEvent("connected", map[string]string{"clientID": client.ID, "message": "Connected to viewer event stream"})
	if err := s.sendEventToClient(client, connectEvent); err != nil {
		s.logger.Error("failed to send connection event", zap.String("clientID", client.ID), zap.Error(err))
		return nil
	}

	s.clientsMutex.Lock()
	s.clients[client.ID] = client
	s.clientsMutex.Unlock()

	s.logger.Info("SSE client connected", zap.String("clientID", client.ID))
	return client
}

// removeClient removes a client from the server
func (s *SSEServer) removeClient(clientID string) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	if client, exists := s.clients[clientID]; exists {
		close(client.Done)
		delete(s.clients, clientID)
		s.logger.Info("SSE client disconnected", zap.String("clientID", clientID))
	}
}

func newSSEEvent(name string, data interface{}) SSEEvent {
	return SSEEvent{
		ID:        uuid.NewString(),
		Event:     name,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Publish queues a viewer event for all clients. It never blocks; events are
// dropped when the buffer is full.
func (s *SSEServer) Publish(event vo.Event) {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	if s.closed {
		return
	}

	sseEvent := newSSEEvent(string(event.Type), event)
	select {
	case s.broadcast <- sseEvent:
	default:
		s.logger.Warn("broadcast channel full, dropping event", zap.String("eventID", sseEvent.ID))
	}
}

// Close stops the broadcast loop and disconnects all clients
func (s *SSEServer) Close() {
	s.clientsMutex.Lock()
	if s.closed {
		s.clientsMutex.Unlock()
		return
	}
	s.closed = true
	close(s.broadcast)
	s.clientsMutex.Unlock()

	<-s.loopDone

	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for clientID, client := range s.clients {
		close(client.Done)
		delete(s.clients, clientID)
	}
}

// HandleSSE handles SSE client connections
func (s *SSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	client := s.addClient(w)
	if client == nil {
		return
	}

	ticker := time.NewTicker(s.config.KeepaliveInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			s.removeClient(client.ID)
			return
		case <-client.Done:
			return
		case <-ticker.C:
			keepaliveEvent := newSSEEvent("keepalive", map[string]interface{}{"timestamp": time.Now()})
			if err := s.sendEventToClient(client, keepaliveEvent); err != nil {
				s.removeClient(client.ID)
				return
			}
		}
	}
}

// GetConnectedClients returns information about connected clients
func (s *SSEServer) GetConnectedClients() []map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	clients := make([]map[string]interface{}, 0, len(s.clients))
	for _, client := range s.clients {
		client.mu.Lock()
		lastSeen := client.LastSeen
		client.mu.Unlock()
		clients = append(clients, map[string]interface{}{
			"id":        client.ID,
			"lastSeen":  lastSeen,
			"connected": time.Since(lastSeen) < s.config.ClientTimeout,
		})
	}
	return clients
}

// GetStats returns server statistics
func (s *SSEServer) GetStats() map[string]interface{} {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	return map[string]interface{}{
		"connectedClients": len(s.clients),
		"bufferSize":       len(s.broadcast),
		"serverVersion":    Version,
	}
}
