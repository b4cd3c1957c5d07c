package world

import "sync/atomic"

// Holder publishes the scene that is currently running. main swaps it on
// every reload; readers on other goroutines see either the old or new world.
type Holder struct {
	p atomic.Pointer[World]
}

// Set replaces the current world. Nil means no scene is running.
func (h *Holder) Set(w *World) { h.p.Store(w) }

// Current returns the running world, or nil between scenes.
func (h *Holder) Current() *World { return h.p.Load() }
