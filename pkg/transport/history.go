// Copyright (c) 2025 SIROS Foundation
// SPDX-License-Identifier: BSD-2-Clause

package transport

import (
	"sync"
	"time"
)

// DefaultHistorySize is the number of exchanges kept per service
const DefaultHistorySize = 16

// Exchange is one request/response pair sent by a SOAPService.
type Exchange struct {
	Operation string
	Request   []byte
	Response  []byte
	Time      time.Time
	Duration  time.Duration
	Err       string
}

// History keeps the most recent exchanges of a service
type History struct {
	mu      sync.RWMutex
	size    int
	entries []Exchange
}

// NewHistory creates a history keeping at most size exchanges
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:    size,
		entries: make([]Exchange, 0, size),
	}
}

// Record appends an exchange, evicting the oldest one when full
func (h *History) Record(e Exchange) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == h.size {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, e)
}

// Last returns the most recent exchange
func (h *History) Last() (Exchange, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return Exchange{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Entries returns the recorded exchanges, oldest first
func (h *History) Entries() []Exchange {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Exchange, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded exchanges
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
