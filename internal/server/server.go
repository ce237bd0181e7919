// Package server is a development stand-in for the remote clinic API. It
// exposes the same routes and status semantics so the console can run and
// be tested without the real backend.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soulconnect/clinic-console/pkg/logger"
)

// Server wraps the gin engine around the in-memory store.
type Server struct {
	engine *gin.Engine
	store  *Store
	log    *logger.Logger
}

// New builds the stub server with CORS open for the browser console.
func New(store *Store, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())
	engine.Use(requestLogger(log))

	s := &Server{engine: engine, store: store, log: log}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		patients := api.Group("/patients")
		{
			patients.GET("", s.listPatients)
			patients.GET("/search", s.searchPatient)
			patients.GET("/:id", s.getPatient)
			patients.POST("", s.createPatient)
			patients.PUT("/:id", s.updatePatient)
			patients.DELETE("/:id", s.deletePatient)
		}

		appointments := api.Group("/appointments")
		{
			appointments.GET("", s.listAppointments)
			appointments.POST("", s.createAppointment)
			appointments.PUT("/:id", s.updateAppointment)
			appointments.DELETE("/:id", s.deleteAppointment)
		}

		api.GET("/appointment-types", s.listAppointmentTypes)
	}

	s.engine.GET("/assets/colombia-locations.json", s.serveLocations)
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.log.Info("stub api listening", "addr", addr)
	return s.engine.Run(addr)
}
