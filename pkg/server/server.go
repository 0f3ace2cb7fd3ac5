// Package server exposes the relato engine over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/relato"
	"github.com/soundprediction/relato/pkg/config"
	"github.com/soundprediction/relato/pkg/server/handlers"
	"github.com/soundprediction/relato/pkg/telemetry"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	router *gin.Engine
	engine relato.Engine
	logger *slog.Logger
	server *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, engine relato.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config: cfg,
		engine: engine,
		logger: logger,
	}
}

// Setup sets up the server routes and middleware
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(contextMiddleware())

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// Router returns the configured gin router. Setup must have been called.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes sets up all the routes
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.engine)
	peopleHandler := handlers.NewPeopleHandler(s.engine)
	factsHandler := handlers.NewFactsHandler(s.engine)
	searchHandler := handlers.NewSearchHandler(s.engine)

	// Health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		people := v1.Group("/people")
		{
			people.POST("", peopleHandler.CreatePerson)
			people.GET("", peopleHandler.ListPeople)
			people.GET("/:name", peopleHandler.GetPerson)
			people.PATCH("/:name", peopleHandler.UpdatePerson)
			people.DELETE("/:name", peopleHandler.DeletePerson)
			people.GET("/:name/relationships", peopleHandler.GetRelationships)

			people.POST("/:name/facts", factsHandler.AddFact)
			people.GET("/:name/facts", factsHandler.ListFacts)
			people.DELETE("/:name/facts", factsHandler.DeleteAllFacts)
			people.PATCH("/:name/facts/:number", factsHandler.UpdateFact)
			people.DELETE("/:name/facts/:number", factsHandler.DeleteFact)
		}

		v1.POST("/facts/backfill", factsHandler.Backfill)
		v1.POST("/search", searchHandler.SearchFacts)
		v1.POST("/search/people", searchHandler.SearchPeople)
	}
}

// Start starts the server
func (s *Server) Start() error {
	s.logger.Info("starting server", slog.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextMiddleware tags request contexts for telemetry
func contextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), telemetry.ContextKeyRequestSource, "server")
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
