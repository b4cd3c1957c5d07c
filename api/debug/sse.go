package debug

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pikol93/CJ12/eventbus"
)

const keepaliveInterval = 15 * time.Second

var streamChannels = []string{
	eventbus.ChannelPulse,
	eventbus.ChannelDetection,
	eventbus.ChannelState,
	eventbus.ChannelLifecycle,
}

type stream struct {
	bus       *eventbus.Bus
	logger    *zap.Logger
	keepalive time.Duration
}

func newStream(bus *eventbus.Bus, logger *zap.Logger) *stream {
	return &stream{bus: bus, logger: logger, keepalive: keepaliveInterval}
}

// serve handles GET /events[?channels=detection,state]. Each bus message is
// written as an SSE event named after its channel.
func (s *stream) serve(c *gin.Context) {
	channels, err := parseChannels(c.Query("channels"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msgCh, unsub, err := s.bus.Subscribe(c.Request.Context(), channels...)
	if err != nil {
		s.logger.Error("sse subscribe failed", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	defer unsub()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	fmt.Fprintf(c.Writer, "event: connected\ndata: {\"channels\":%q}\n\n", strings.Join(channels, ","))
	c.Writer.Flush()

	ticker := time.NewTicker(s.keepalive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", msg.Channel, msg.Payload)
			c.Writer.Flush()

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()

		case <-c.Request.Context().Done():
			return
		}
	}
}

func parseChannels(q string) ([]string, error) {
	if q == "" {
		return streamChannels, nil
	}
	var out []string
	for _, name := range strings.Split(q, ",") {
		name = strings.TrimSpace(name)
		known := false
		for _, ch := range streamChannels {
			if ch == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown channel %q", name)
		}
		out = append(out, name)
	}
	return out, nil
}
