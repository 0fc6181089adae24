// Package slideshow manages automatic advancing through the image set.
package slideshow

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultInterval = 3 * time.Second
	minInterval     = 200 * time.Millisecond
)

// SlideshowManager handles the slideshow state. It starts stopped; the
// window drives it through Run.
type SlideshowManager struct {
	mu                 sync.Mutex
	running            bool
	wasPlayingBeforeOp bool // Tracks if slideshow was playing before a temp pause
	interval           time.Duration
	changed            chan struct{}
}

// NewSlideshowManager creates a new SlideshowManager.
// Interval is the time between automatic transitions.
func NewSlideshowManager(interval time.Duration) *SlideshowManager {
	return &SlideshowManager{
		interval: normalize(interval),
		changed:  make(chan struct{}, 1),
	}
}

func normalize(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultInterval
	}
	if d < minInterval {
		return minInterval
	}
	return d
}

func (sm *SlideshowManager) notify() {
	select {
	case sm.changed <- struct{}{}:
	default:
	}
}

// Start begins advancing.
func (sm *SlideshowManager) Start() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.running = true
	sm.wasPlayingBeforeOp = false
	sm.notify()
}

// Stop halts advancing.
func (sm *SlideshowManager) Stop() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.running = false
	sm.wasPlayingBeforeOp = false
	sm.notify()
}

// Toggle flips between running and stopped and reports the new state.
func (sm *SlideshowManager) Toggle() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.running = !sm.running
	sm.wasPlayingBeforeOp = false // User toggle overrides any operation-specific state
	sm.notify()
	return sm.running
}

// Pause forces the slideshow to stop.
// If forOperation is true, it remembers if the slideshow was playing.
func (sm *SlideshowManager) Pause(forOperation bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if forOperation {
		sm.wasPlayingBeforeOp = sm.running
	}
	sm.running = false
	sm.notify()
}

// ResumeAfterOperation resumes the slideshow only if it was playing before Pause(true) was called.
func (sm *SlideshowManager) ResumeAfterOperation() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.wasPlayingBeforeOp {
		sm.running = true
		sm.notify()
	}
	sm.wasPlayingBeforeOp = false
}

// IsRunning reports whether the slideshow is advancing.
func (sm *SlideshowManager) IsRunning() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.running
}

// Interval returns the configured slideshow interval.
func (sm *SlideshowManager) Interval() time.Duration {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.interval
}

// SetInterval changes the interval; a running ticker picks it up immediately.
func (sm *SlideshowManager) SetInterval(d time.Duration) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.interval = normalize(d)
	sm.notify()
}

// Run calls tick once per interval while the slideshow is running, until ctx
// is done. Starting or changing the interval restarts the period.
func (sm *SlideshowManager) Run(ctx context.Context, tick func()) {
	ticker := time.NewTicker(sm.Interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sm.changed:
			ticker.Reset(sm.Interval())
		case <-ticker.C:
			if sm.IsRunning() {
				tick()
			}
		}
	}
}
