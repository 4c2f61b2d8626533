package timekeeper

import (
	"sync"
	"time"

	"focusquest/internal/core/model"
)

// CompletionHandler is invoked after a countdown reaches zero, before the
// TimeKeeper returns to focus mode.
type CompletionHandler func(finished model.Mode)

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval time.Duration
	Source       TickSource
}

// TimeKeeper is the countdown state machine behind the focus timer.
type TimeKeeper struct {
	mu         sync.Mutex
	config     model.QuestConfig
	options    Config
	mode       model.Mode
	remaining  int
	running    bool
	generation uint64
	onComplete CompletionHandler
	events     []chan Event
	closed     bool
}

// New creates a TimeKeeper in focus mode with a full countdown.
func New(config model.QuestConfig, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Source == nil {
		options.Source = NewTickerSource()
	}

	keeper := &TimeKeeper{
		config:  config,
		options: options,
		mode:    model.ModeFocus,
	}
	keeper.remaining = config.Seconds(model.ModeFocus)
	return keeper
}

// SetCompletionHandler injects the completion handler.
func (keeper *TimeKeeper) SetCompletionHandler(handler CompletionHandler) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.onComplete = handler
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	if keeper.closed {
		close(ch)
	} else {
		keeper.events = append(keeper.events, ch)
	}
	keeper.mu.Unlock()
	return ch
}

// Snapshot returns the current countdown state.
func (keeper *TimeKeeper) Snapshot() State {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.stateLocked()
}

// SelectMode stops any countdown and loads the full duration of mode.
// Unknown modes are ignored.
func (keeper *TimeKeeper) SelectMode(mode model.Mode) {
	if !mode.Valid() {
		return
	}
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.stopLocked()
	keeper.mode = mode
	keeper.remaining = keeper.config.Seconds(mode)
	keeper.emitStateLocked(EventStateChange, time.Now())
}

// Start begins ticking. It is a no-op while already running.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.running || keeper.closed {
		return
	}
	if keeper.remaining <= 0 {
		keeper.remaining = keeper.config.Seconds(keeper.mode)
	}
	keeper.running = true
	keeper.generation++
	generation := keeper.generation
	keeper.options.Source.Start(keeper.options.TickInterval, func() {
		keeper.tick(generation)
	})
	keeper.emitStateLocked(EventStateChange, time.Now())
}

// Pause stops ticking and keeps the remaining time; Start resumes from it.
func (keeper *TimeKeeper) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.running {
		return
	}
	keeper.stopLocked()
	keeper.emitStateLocked(EventStateChange, time.Now())
}

// Reset stops ticking and reloads the full duration of the current mode.
func (keeper *TimeKeeper) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.stopLocked()
	keeper.remaining = keeper.config.Seconds(keeper.mode)
	keeper.emitStateLocked(EventStateChange, time.Now())
}

// Tick advances the running countdown by one second.
func (keeper *TimeKeeper) Tick() {
	keeper.mu.Lock()
	generation := keeper.generation
	keeper.mu.Unlock()
	keeper.tick(generation)
}

// Close stops ticking and closes observers.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.stopLocked()
	keeper.closed = true
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) tick(generation uint64) {
	keeper.mu.Lock()
	if !keeper.running || generation != keeper.generation {
		keeper.mu.Unlock()
		return
	}

	now := time.Now()
	keeper.remaining--
	if keeper.remaining > 0 {
		keeper.emitStateLocked(EventProgress, now)
		keeper.mu.Unlock()
		return
	}

	keeper.remaining = 0
	keeper.stopLocked()
	finished := keeper.mode
	handler := keeper.onComplete
	keeper.emitStateLocked(EventCompleted, now)
	keeper.mu.Unlock()

	if handler != nil {
		handler(finished)
	}
	keeper.SelectMode(model.ModeFocus)
}

func (keeper *TimeKeeper) stopLocked() {
	if !keeper.running {
		return
	}
	keeper.running = false
	keeper.generation++
	keeper.options.Source.Stop()
}

func (keeper *TimeKeeper) stateLocked() State {
	return State{
		Mode:             keeper.mode,
		RemainingSeconds: keeper.remaining,
		Running:          keeper.running,
	}
}

func (keeper *TimeKeeper) progressLocked() float64 {
	total := keeper.config.Seconds(keeper.mode)
	if total <= 0 {
		return 1
	}
	progress := float64(total-keeper.remaining) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (keeper *TimeKeeper) emitStateLocked(eventType EventType, now time.Time) {
	keeper.emitLocked(Event{
		Type:      eventType,
		Mode:      keeper.mode,
		Remaining: time.Duration(keeper.remaining) * time.Second,
		Running:   keeper.running,
		Progress:  keeper.progressLocked(),
		At:        now,
	})
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
