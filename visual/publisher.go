package visual

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// PulseChannel is the bus channel visual pulses are published on.
const PulseChannel = "pulse"

// Publisher is the subset of eventbus.Bus used here.
type Publisher interface {
	Publish(ctx context.Context, channel, message string) error
}

// BusSink forwards visual pulses as JSON to a publisher.
type BusSink struct {
	pub    Publisher
	logger *zap.Logger
}

// NewBusSink creates a sink publishing to pub.
func NewBusSink(pub Publisher, logger *zap.Logger) *BusSink {
	return &BusSink{pub: pub, logger: logger}
}

// EmitVisualPulse implements Sink.
func (s *BusSink) EmitVisualPulse(p Pulse) {
	data, err := json.Marshal(p)
	if err != nil {
		s.logger.Warn("visual pulse encode failed", zap.Error(err))
		return
	}
	if err := s.pub.Publish(context.Background(), PulseChannel, string(data)); err != nil {
		s.logger.Warn("visual pulse publish failed", zap.Error(err))
	}
}
