package eventstream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHub_EmitRecordsEventsInOrder(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Close()

	h.Emit(Event{Kind: KindNavigation, URL: "https://example.test/form"})
	h.Emit(Event{Kind: KindResponse, URL: "https://example.test/submit", Status: 200})
	h.Emit(Event{Kind: KindMutation, Mutations: 3})

	waitUntil(t, func() bool { return len(h.Events()) == 3 })

	events := h.Events()
	assert.Equal(t, KindNavigation, events[0].Kind)
	assert.Equal(t, KindResponse, events[1].Kind)
	assert.Equal(t, KindMutation, events[2].Kind)
}

func TestHub_ResponseStatusesFiltersToResponseEvents(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Close()

	h.Emit(Event{Kind: KindNavigation})
	h.Emit(Event{Kind: KindResponse, Status: 429})
	h.Emit(Event{Kind: KindResponse, Status: 200})

	waitUntil(t, func() bool { return len(h.ResponseStatuses()) == 2 })
	assert.Equal(t, []int{429, 200}, h.ResponseStatuses())
}

func TestHub_MutationCountSumsAllBatches(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Close()

	h.Emit(Event{Kind: KindMutation, Mutations: 2})
	h.Emit(Event{Kind: KindMutation, Mutations: 5})

	waitUntil(t, func() bool { return h.MutationCount() == 7 })
	assert.Equal(t, 7, h.MutationCount())
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
