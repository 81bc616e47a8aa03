package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/elev8sports/elev8-api/internal/auth"
	"github.com/elev8sports/elev8-api/internal/cache"
	"github.com/elev8sports/elev8-api/internal/publisher"
	"github.com/elev8sports/elev8-api/internal/store"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, db *store.Database, rc *cache.RedisCache, pub *publisher.RedisPublisher, verifier auth.Verifier, log *logrus.Logger) *Server {
	handler := NewHandler(db, rc, pub, log)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggingMiddleware(log))
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes, all behind auth
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(verifier))

	// Children
	api.HandleFunc("/children", handler.CreateChild).Methods("POST")
	api.HandleFunc("/children", handler.ListChildren).Methods("GET")
	api.HandleFunc("/children/{childID}", handler.GetChild).Methods("GET")
	api.HandleFunc("/children/{childID}", handler.UpdateChild).Methods("PUT")
	api.HandleFunc("/children/{childID}", handler.DeleteChild).Methods("DELETE")

	// GameChanger ingestion and stats
	api.HandleFunc("/gamechanger/upload-csv", handler.UploadCSV).Methods("POST")
	api.HandleFunc("/gamechanger/stats/{childID}", handler.GetChildStats).Methods("GET")
	api.HandleFunc("/gamechanger/stats/{childID}/summary", handler.GetChildStatSummary).Methods("GET")
	api.HandleFunc("/gamechanger/imports", handler.ListImports).Methods("GET")
	api.HandleFunc("/gamechanger/imports/{importID}/reprocess", handler.ReprocessImport).Methods("POST")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
