package debug

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pikol93/CJ12/game/player"
	"github.com/pikol93/CJ12/game/pulse"
	"github.com/pikol93/CJ12/game/world"
	mw "github.com/pikol93/CJ12/middleware"
	"github.com/pikol93/CJ12/visual"
)

const commandTimeout = 2 * time.Second

var errUnknownMonster = errors.New("unknown monster")

type handlers struct {
	scene  Scene
	logger *zap.Logger
}

// do runs fn on the simulation goroutine of the current scene and maps the
// usual failures to a response. It reports whether fn succeeded.
func (h *handlers) do(c *gin.Context, fn func(w *world.World) error) bool {
	w := h.scene.Current()
	if w == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no scene running"})
		return false
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), commandTimeout)
	defer cancel()

	err := w.Do(ctx, fn)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errUnknownMonster):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, player.ErrControlLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, world.ErrStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scene is reloading"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "simulation did not respond"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
	return false
}

// GET /health
func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "scene": h.scene.Current() != nil})
}

// GET /state
func (h *handlers) state(c *gin.Context) {
	var snap world.Snapshot
	if h.do(c, func(w *world.World) error {
		snap = w.Snapshot()
		return nil
	}) {
		c.JSON(http.StatusOK, snap)
	}
}

// POST /monsters/:id/roar
func (h *handlers) forceRoar(c *gin.Context) {
	h.forceTimer(c, "roar", func(w *world.World, id string) error {
		m, ok := w.Monster(id)
		if !ok {
			return errUnknownMonster
		}
		m.ForceRoar()
		return nil
	})
}

// POST /monsters/:id/echo
func (h *handlers) forceEcho(c *gin.Context) {
	h.forceTimer(c, "echo", func(w *world.World, id string) error {
		m, ok := w.Monster(id)
		if !ok {
			return errUnknownMonster
		}
		m.ForceEcho()
		return nil
	})
}

func (h *handlers) forceTimer(c *gin.Context, timer string, fn func(w *world.World, id string) error) {
	id := c.Param("id")
	if h.do(c, func(w *world.World) error { return fn(w, id) }) {
		h.logger.Info("monster timer forced",
			zap.String("monster_id", id),
			zap.String("timer", timer),
			zap.String("trace_id", mw.GetTraceID(c)))
		c.JSON(http.StatusAccepted, gin.H{"monster_id": id, "forced": timer})
	}
}

// POST /player/pulse
func (h *handlers) playerPulse(c *gin.Context) {
	var ev pulse.Event
	if h.do(c, func(w *world.World) error {
		var err error
		ev, err = w.Player().ManualPulse()
		return err
	}) {
		c.JSON(http.StatusCreated, ev)
	}
}

// POST /visual/erase
func (h *handlers) eraseVisual(c *gin.Context) {
	if h.do(c, func(w *world.World) error {
		w.Visual().Erase()
		return nil
	}) {
		c.Status(http.StatusNoContent)
	}
}

// POST /visual/force-edge-check?enabled=true|false
func (h *handlers) forceEdgeCheck(c *gin.Context) {
	enabled, err := strconv.ParseBool(c.Query("enabled"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled must be true or false"})
		return
	}
	if h.do(c, func(w *world.World) error {
		w.Visual().SetForceEdgeCheck(enabled)
		return nil
	}) {
		c.JSON(http.StatusOK, gin.H{"force_edge_check": enabled})
	}
}

// GET /visual/uniforms
func (h *handlers) uniforms(c *gin.Context) {
	var u visual.Uniforms
	if h.do(c, func(w *world.World) error {
		u = w.Visual().Uniforms()
		return nil
	}) {
		c.JSON(http.StatusOK, u)
	}
}
