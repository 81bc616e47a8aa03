package websocket

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/elev8sports/elev8-api/internal/cache"
	"github.com/elev8sports/elev8-api/internal/publisher"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development (TODO: restrict in production)
	},
}

// Server pushes completed-import events to connected web clients. Events
// arrive on a Redis stream written by the REST side, so the two servers
// can run as separate processes.
type Server struct {
	port   string
	server *http.Server
	hub    *Hub
	cache  *cache.RedisCache
	log    *logrus.Logger

	cancelRelay context.CancelFunc
}

// NewServer creates a new WebSocket server
func NewServer(rc *cache.RedisCache, log *logrus.Logger) *Server {
	return &Server{
		hub:   NewHub(),
		cache: rc,
		log:   log,
	}
}

// Start starts the WebSocket server
func (s *Server) Start(port string) error {
	s.port = port

	go s.hub.Run()

	relayCtx, cancel := context.WithCancel(context.Background())
	s.cancelRelay = cancel
	go s.relayImportEvents(relayCtx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/imports", s.handleImports)
	mux.HandleFunc("/ws/health", s.handleHealth)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: mux,
	}

	s.log.WithField("port", port).Info("WebSocket server listening")
	return s.server.ListenAndServe()
}

// relayImportEvents tails the import stream and broadcasts each event to
// connected clients. Reads start at the stream tail so clients only see
// imports that complete while they are connected.
func (s *Server) relayImportEvents(ctx context.Context) {
	lastID := "$"

	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := s.cache.Client().XRead(ctx, &redis.XReadArgs{
			Streams: []string{publisher.ImportStream, lastID},
			Block:   5 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			s.log.WithError(err).Warn("Import stream read failed")
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				lastID = message.ID
				if data, ok := message.Values["data"].(string); ok {
					s.hub.Broadcast([]byte(data))
				}
			}
		}
	}
}

// handleImports upgrades the connection and registers it with the hub
func (s *Server) handleImports(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("Failed to upgrade connection")
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// handleHealth returns WebSocket server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "healthy", "clients": %d}`, s.hub.ClientCount())
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cancelRelay != nil {
		s.cancelRelay()
	}
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
