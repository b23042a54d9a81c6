package cpu

import "time"

// TimerPeriod is the nominal interval between two timer decrements (60 Hz).
const TimerPeriod = time.Second / 60

// Timer is an 8 bit countdown timer that decrements at 60 Hz until it reaches zero.
type Timer struct {
	value uint8
	last  time.Time // time of the last decrement or set
}

// Value returns the current timer value.
func (t *Timer) Value() uint8 {
	return t.value
}

// Set loads the timer and restarts its period.
func (t *Timer) Set(value uint8, now time.Time) {
	t.value = value
	t.last = now
}

// Advance decrements the timer by one if a full period elapsed since the
// last decrement. It returns whether the timer was decremented.
func (t *Timer) Advance(now time.Time) bool {
	if t.value == 0 || now.Sub(t.last) < TimerPeriod {
		return false
	}

	t.value--
	t.last = t.last.Add(TimerPeriod)
	// do not catch up on periods missed while the host was not ticking
	if now.Sub(t.last) >= TimerPeriod {
		t.last = now
	}
	return true
}
