package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics tracks process-wide counters exposed on the admin stats endpoint.
type Metrics struct {
	reordersApplied  int64
	reordersRejected int64
	chatCalls        int64
	chatErrors       int64
	chatLatency      int64 // Total latency in nanoseconds
	contactMessages  int64
	uploads          int64
}

var global = &Metrics{}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	ReordersApplied  int64   `json:"reordersApplied"`
	ReordersRejected int64   `json:"reordersRejected"`
	ChatCalls        int64   `json:"chatCalls"`
	ChatErrors       int64   `json:"chatErrors"`
	ChatAvgLatencyMs float64 `json:"chatAvgLatencyMs"`
	ChatErrorRate    float64 `json:"chatErrorRate"`
	ContactMessages  int64   `json:"contactMessages"`
	Uploads          int64   `json:"uploads"`
}

// Get returns the current metrics snapshot
func Get() Snapshot {
	calls := atomic.LoadInt64(&global.chatCalls)
	errs := atomic.LoadInt64(&global.chatErrors)
	latency := atomic.LoadInt64(&global.chatLatency)

	s := Snapshot{
		ReordersApplied:  atomic.LoadInt64(&global.reordersApplied),
		ReordersRejected: atomic.LoadInt64(&global.reordersRejected),
		ChatCalls:        calls,
		ChatErrors:       errs,
		ContactMessages:  atomic.LoadInt64(&global.contactMessages),
		Uploads:          atomic.LoadInt64(&global.uploads),
	}
	if calls > 0 {
		s.ChatAvgLatencyMs = float64(latency) / float64(calls) / 1e6
		s.ChatErrorRate = float64(errs) / float64(calls) * 100
	}
	return s
}

// Reset zeroes all counters (useful for testing)
func Reset() {
	atomic.StoreInt64(&global.reordersApplied, 0)
	atomic.StoreInt64(&global.reordersRejected, 0)
	atomic.StoreInt64(&global.chatCalls, 0)
	atomic.StoreInt64(&global.chatErrors, 0)
	atomic.StoreInt64(&global.chatLatency, 0)
	atomic.StoreInt64(&global.contactMessages, 0)
	atomic.StoreInt64(&global.uploads, 0)
}

func RecordReorder(applied bool) {
	if applied {
		atomic.AddInt64(&global.reordersApplied, 1)
		return
	}
	atomic.AddInt64(&global.reordersRejected, 1)
}

func RecordChatCall(duration time.Duration, err error) {
	atomic.AddInt64(&global.chatCalls, 1)
	atomic.AddInt64(&global.chatLatency, duration.Nanoseconds())
	if err != nil {
		atomic.AddInt64(&global.chatErrors, 1)
	}
}

func RecordContactMessage() {
	atomic.AddInt64(&global.contactMessages, 1)
}

func RecordUpload() {
	atomic.AddInt64(&global.uploads, 1)
}
