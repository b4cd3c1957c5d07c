// Package eventbus is an in-process fan-out pub/sub used to expose simulation
// events (detections, state changes, pulses) to observers such as the debug
// API. Publishing never blocks the simulation.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
)

// Channels published by the simulation.
const (
	ChannelPulse     = "pulse"
	ChannelDetection = "detection"
	ChannelState     = "state"
	ChannelLifecycle = "lifecycle"
)

// Message is a received pub/sub message.
type Message struct {
	Channel string
	Payload string
}

type subscriber struct {
	ch chan *Message
}

// Bus is an in-process fan-out pub/sub implementation.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]*subscriber
	bufSize     int
	dropped     atomic.Uint64
}

// New creates a Bus with the given per-subscriber buffer size.
func New(bufSize int) *Bus {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &Bus{
		subscribers: make(map[string][]*subscriber),
		bufSize:     bufSize,
	}
}

// Publish sends a message to all subscribers of the given channel. Slow
// subscribers lose messages instead of stalling the publisher. The read lock
// is held across the sends so cancel cannot close a channel mid-delivery;
// the sends never block.
func (b *Bus) Publish(_ context.Context, channel, message string) error {
	msg := &Message{Channel: channel, Payload: message}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subscribers[channel] {
		select {
		case s.ch <- msg:
		default:
			b.dropped.Add(1)
		}
	}
	return nil
}

// PublishJSON encodes v and publishes it.
func (b *Bus) PublishJSON(ctx context.Context, channel string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("eventbus: encode %s: %w", channel, err)
	}
	return b.Publish(ctx, channel, string(data))
}

// Subscribe returns a channel of messages for the given channels, and a cancel
// function that unsubscribes and closes the channel.
func (b *Bus) Subscribe(_ context.Context, channels ...string) (<-chan *Message, func(), error) {
	if len(channels) == 0 {
		return nil, nil, fmt.Errorf("eventbus: subscribe needs at least one channel")
	}
	ch := make(chan *Message, b.bufSize)
	subs := make([]*subscriber, len(channels))

	b.mu.Lock()
	for i, c := range channels {
		s := &subscriber{ch: ch}
		b.subscribers[c] = append(b.subscribers[c], s)
		subs[i] = s
	}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, c := range channels {
				list := b.subscribers[c]
				kept := make([]*subscriber, 0, len(list))
				for _, sub := range list {
					if sub != subs[i] {
						kept = append(kept, sub)
					}
				}
				if len(kept) == 0 {
					delete(b.subscribers, c)
				} else {
					b.subscribers[c] = kept
				}
			}
			close(ch)
		})
	}

	return ch, cancel, nil
}

// Dropped returns how many deliveries were skipped because a subscriber's
// buffer was full.
func (b *Bus) Dropped() uint64 { return b.dropped.Load() }
