package tui

import (
	"sync"
	"time"

	"github.com/coder/quartz"
)

// timeoutMsg is delivered when the player's turn timer expires. Turn identifies
// the turn the timer was started for so stale timers can be ignored.
type timeoutMsg struct {
	Turn int
}

// TurnTimer limits how long the player may take to act. Expiry is reported on C.
type TurnTimer struct {
	clock   quartz.Clock
	timeout time.Duration
	C       chan timeoutMsg

	mu    sync.Mutex
	timer *quartz.Timer
}

// NewTurnTimer creates a timer on clock. A zero timeout disables it.
func NewTurnTimer(clock quartz.Clock, timeout time.Duration) *TurnTimer {
	return &TurnTimer{
		clock:   clock,
		timeout: timeout,
		C:       make(chan timeoutMsg, 1),
	}
}

// Enabled reports whether turns are timed
func (t *TurnTimer) Enabled() bool {
	return t != nil && t.timeout > 0
}

// Timeout returns the time allowed per turn
func (t *TurnTimer) Timeout() time.Duration {
	return t.timeout
}

// Start times the given turn, replacing any running timer
func (t *TurnTimer) Start(turn int) {
	if !t.Enabled() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = t.clock.AfterFunc(t.timeout, func() {
		// Only the latest expiry matters
		select {
		case <-t.C:
		default:
		}
		select {
		case t.C <- timeoutMsg{Turn: turn}:
		default:
		}
	}, "turn")
}

// Stop cancels the running timer
func (t *TurnTimer) Stop() {
	if !t.Enabled() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
