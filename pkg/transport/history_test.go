package transport

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory(0)
	if h.size != DefaultHistorySize {
		t.Errorf("expected default size %d, got %d", DefaultHistorySize, h.size)
	}
	if _, ok := h.Last(); ok {
		t.Error("expected empty history")
	}
}

func TestHistory_Evicts(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Record(Exchange{Operation: fmt.Sprintf("op-%d", i)})
	}

	entries := h.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Operation != "op-2" {
		t.Errorf("expected oldest op-2, got %s", entries[0].Operation)
	}
	last, _ := h.Last()
	if last.Operation != "op-4" {
		t.Errorf("expected last op-4, got %s", last.Operation)
	}
}

func TestHistory_Concurrent(t *testing.T) {
	h := NewHistory(8)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h.Record(Exchange{Operation: fmt.Sprintf("op-%d", i)})
			h.Entries()
		}(i)
	}
	wg.Wait()

	if h.Len() != 8 {
		t.Errorf("expected 8 entries, got %d", h.Len())
	}
}
