package attempt

import "sync"

// TimerState enumerates the countdown's states.
type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerExpired TimerState = "expired"
)

// Countdown is the attempt clock. It stays idle until initialization
// completes, then decrements by exactly one per tick. Reaching zero moves it
// to expired, which Tick reports exactly once; the remaining time never goes
// negative.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	state     TimerState
}

// NewCountdown creates an idle countdown with the given number of seconds.
func NewCountdown(seconds int) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{remaining: seconds, state: TimerIdle}
}

// Start moves the countdown from idle to running. One with no time left, or
// one already running or expired, is unaffected.
func (c *Countdown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == TimerIdle && c.remaining > 0 {
		c.state = TimerRunning
	}
}

// Stop returns the countdown to idle. Used when a manual submit completes
// before expiry so no further ticks have any effect.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == TimerRunning {
		c.state = TimerIdle
	}
}

// Tick advances the clock by one second. It returns true on exactly the tick
// that reaches zero; every other call, including all ticks after expiry,
// returns false.
func (c *Countdown) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != TimerRunning {
		return false
	}

	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.state = TimerExpired
		return true
	}
	return false
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// State returns the current timer state.
func (c *Countdown) State() TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
