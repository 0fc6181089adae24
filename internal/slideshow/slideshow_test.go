package slideshow

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSlideshowManagerIntervals(t *testing.T) {
	assert.Equal(t, DefaultInterval, NewSlideshowManager(0).Interval())
	assert.Equal(t, DefaultInterval, NewSlideshowManager(-time.Second).Interval())
	assert.Equal(t, minInterval, NewSlideshowManager(time.Millisecond).Interval())
	assert.Equal(t, 5*time.Second, NewSlideshowManager(5*time.Second).Interval())
}

func TestStartStopToggle(t *testing.T) {
	sm := NewSlideshowManager(0)
	assert.False(t, sm.IsRunning(), "starts stopped")

	sm.Start()
	assert.True(t, sm.IsRunning())
	sm.Stop()
	assert.False(t, sm.IsRunning())

	assert.True(t, sm.Toggle())
	assert.False(t, sm.Toggle())
}

func TestPauseForOperation(t *testing.T) {
	sm := NewSlideshowManager(0)
	sm.Start()
	sm.Pause(true)
	assert.False(t, sm.IsRunning())
	sm.ResumeAfterOperation()
	assert.True(t, sm.IsRunning(), "resumes when it was playing")

	sm.Stop()
	sm.Pause(true)
	sm.ResumeAfterOperation()
	assert.False(t, sm.IsRunning(), "stays stopped when it was stopped")

	sm.Start()
	sm.Pause(false)
	sm.ResumeAfterOperation()
	assert.False(t, sm.IsRunning(), "a plain pause is not undone")
}

func TestToggleClearsOperationPause(t *testing.T) {
	sm := NewSlideshowManager(0)
	sm.Start()
	sm.Pause(true)
	sm.Toggle()
	sm.Toggle()
	sm.ResumeAfterOperation()
	assert.False(t, sm.IsRunning())
}

func TestRunTicksOnlyWhileRunning(t *testing.T) {
	sm := NewSlideshowManager(minInterval)
	var ticks atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sm.Run(ctx, func() { ticks.Add(1) })
		close(done)
	}()

	time.Sleep(2*minInterval + minInterval/2)
	assert.Zero(t, ticks.Load(), "stopped slideshow never ticks")

	sm.Start()
	assert.Eventually(t, func() bool { return ticks.Load() >= 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
