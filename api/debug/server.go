// Package debug serves an HTTP API for inspecting and poking a running
// scene: state snapshots, forced monster timers, manual pulses, visual buffer
// controls and a live event stream.
package debug

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/eventbus"
	"github.com/pikol93/CJ12/game/world"
	mw "github.com/pikol93/CJ12/middleware"
)

const shutdownTimeout = 5 * time.Second

// Scene gives handlers the world that is running right now.
type Scene interface {
	Current() *world.World
}

// Server is the debug API.
type Server struct {
	cfg    config.DebugAPIConfig
	engine *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New builds the router. The rate limiter's sweeper lives until ctx is done.
func New(ctx context.Context, cfg config.DebugAPIConfig, debugMode bool, scene Scene, bus *eventbus.Bus, logger *zap.Logger) (*Server, error) {
	if debugMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	allow, err := mw.Allowlist(cfg.AllowedCIDRs)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger), allow)
	if cfg.RateLimitRPS > 0 {
		r.Use(mw.RateLimit(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))
	}

	h := &handlers{scene: scene, logger: logger}
	r.GET("/health", h.health)
	r.GET("/state", h.state)
	r.POST("/monsters/:id/roar", h.forceRoar)
	r.POST("/monsters/:id/echo", h.forceEcho)
	r.POST("/player/pulse", h.playerPulse)
	r.POST("/visual/erase", h.eraseVisual)
	r.POST("/visual/force-edge-check", h.forceEdgeCheck)
	r.GET("/visual/uniforms", h.uniforms)
	if bus != nil {
		r.GET("/events", newStream(bus, logger).serve)
	}

	return &Server{
		cfg:    cfg,
		engine: r,
		http:   &http.Server{Addr: cfg.Addr, Handler: r, ReadHeaderTimeout: 5 * time.Second},
		logger: logger,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start serves in the background. Listen errors other than a clean shutdown
// are logged.
func (s *Server) Start() {
	go func() {
		s.logger.Info("debug api listening", zap.String("addr", s.cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("debug api stopped", zap.Error(err))
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("debug api shutdown: %w", err)
	}
	return nil
}
