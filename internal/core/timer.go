package core

import "time"

// FixedStep gates simulation updates to a steady interval driven by an
// external clock.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedInterval constructs a FixedStep that fires once per interval. The
// first call to ShouldStepAt fires immediately.
func NewFixedInterval(interval time.Duration) *FixedStep {
	fs := &FixedStep{}
	fs.SetInterval(interval)
	fs.accumulator = fs.step
	return fs
}

// SetInterval changes the tick period. Non-positive values fall back to 60 TPS.
func (f *FixedStep) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second / 60
	}
	f.step = interval
}

// Interval reports the current tick period.
func (f *FixedStep) Interval() time.Duration { return f.step }

// Reset discards accumulated time so the next tick waits a full interval.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = time.Time{}
}

// ShouldStepAt reports whether the simulation should advance by one tick at
// the clock reading now.
func (f *FixedStep) ShouldStepAt(now time.Time) bool {
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
