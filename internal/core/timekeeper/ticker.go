package timekeeper

import (
	"sync"
	"time"
)

// TickSource delivers periodic ticks until stopped.
// Stop must not wait for an in-flight callback to return.
type TickSource interface {
	Start(interval time.Duration, fn func())
	Stop()
}

// tickerSource drives callbacks from a time.Ticker goroutine.
type tickerSource struct {
	mu     sync.Mutex
	stopCh chan struct{}
}

// NewTickerSource returns a TickSource backed by time.Ticker.
func NewTickerSource() TickSource {
	return &tickerSource{}
}

func (source *tickerSource) Start(interval time.Duration, fn func()) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.stopCh != nil {
		return
	}
	stopCh := make(chan struct{})
	source.stopCh = stopCh

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

func (source *tickerSource) Stop() {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.stopCh == nil {
		return
	}
	close(source.stopCh)
	source.stopCh = nil
}

// ManualSource is a TickSource fired explicitly, for tests and replays.
type ManualSource struct {
	mu     sync.Mutex
	fn     func()
	starts int
}

// NewManualSource returns an idle ManualSource.
func NewManualSource() *ManualSource {
	return &ManualSource{}
}

func (source *ManualSource) Start(_ time.Duration, fn func()) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.fn != nil {
		return
	}
	source.fn = fn
	source.starts++
}

func (source *ManualSource) Stop() {
	source.mu.Lock()
	source.fn = nil
	source.mu.Unlock()
}

// Active reports whether the source is currently started.
func (source *ManualSource) Active() bool {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.fn != nil
}

// Starts returns how many times the source was started.
func (source *ManualSource) Starts() int {
	source.mu.Lock()
	defer source.mu.Unlock()
	return source.starts
}

// Fire delivers n ticks, stopping early if the source is stopped.
func (source *ManualSource) Fire(n int) {
	for i := 0; i < n; i++ {
		source.mu.Lock()
		fn := source.fn
		source.mu.Unlock()
		if fn == nil {
			return
		}
		fn()
	}
}
