package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bxt04/studentpipe/internal/broker"
	"github.com/bxt04/studentpipe/internal/config"
	"github.com/bxt04/studentpipe/internal/consumer"
	"github.com/bxt04/studentpipe/internal/pkg/logger"
)

// StudentCounter reports how many students have been loaded
type StudentCounter interface {
	Count(ctx context.Context) (int, error)
}

// Server exposes the operational HTTP surface: a liveness probe and a
// stats endpoint aggregating stage counters, queue depths and the loaded
// student count.
type Server struct {
	config *config.Config
	router *gin.Engine
	http   *http.Server

	conn    *broker.Connection
	stages  []*consumer.Stage
	counter StudentCounter
}

func New(cfg *config.Config, conn *broker.Connection, stages []*consumer.Stage, counter StudentCounter) *Server {
	if cfg.Logging.Format != "console" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:  cfg,
		router:  gin.New(),
		conn:    conn,
		stages:  stages,
		counter: counter,
	}

	s.router.Use(gin.Recovery())
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/stats", s.handleStats)

	return s
}

// Start runs the HTTP listener in the background and reports startup
// failures on the returned channel.
func (s *Server) Start() <-chan error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.http.Addr).Msg("Ops HTTP server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("ops server failed: %w", err)
		}
	}()
	return errs
}

// Shutdown stops the HTTP listener, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type stageStatus struct {
	Name  string                 `json:"name"`
	State string                 `json:"state"`
	Stats consumer.StatsSnapshot `json:"stats"`
}

func (s *Server) handleStats(c *gin.Context) {
	stages := make([]stageStatus, 0, len(s.stages))
	for _, st := range s.stages {
		stages = append(stages, stageStatus{
			Name:  st.Name(),
			State: st.State().String(),
			Stats: st.Stats(),
		})
	}

	resp := gin.H{"stages": stages}

	ch, err := s.conn.Channel()
	if err == nil {
		depths, depthErr := broker.QueueDepths(ch)
		_ = ch.Close()
		if depthErr == nil {
			resp["queues"] = depths
		} else {
			logger.Error().Err(depthErr).Msg("Failed to read queue depths")
		}
	} else {
		logger.Error().Err(err).Msg("Failed to open stats channel")
	}

	if s.counter != nil {
		count, countErr := s.counter.Count(c.Request.Context())
		if countErr == nil {
			resp["students_loaded"] = count
		} else {
			logger.Error().Err(countErr).Msg("Failed to count loaded students")
		}
	}

	c.JSON(http.StatusOK, resp)
}
