// Package events records what happened during a simulation session, grouped
// by the tick at which it happened.
package events

import (
	"fmt"
	"sort"

	"firespread/internal/world"
)

// Kind tags an Event variant.
type Kind uint8

const (
	KindStartedBurning Kind = iota
	KindStoppedBurning
	KindWindDirection
	KindWindSpeed
)

func (k Kind) String() string {
	switch k {
	case KindStartedBurning:
		return "started_burning"
	case KindStoppedBurning:
		return "stopped_burning"
	case KindWindDirection:
		return "wind_direction"
	case KindWindSpeed:
		return "wind_speed"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Event is one of TileStartedBurning, TileStoppedBurning,
// WindDirectionChanged or WindSpeedChanged.
type Event interface {
	Kind() Kind
	At() int
	isEvent()
}

// TileStartedBurning is logged when a tile ignites.
type TileStartedBurning struct {
	Tick int
	Tile world.Position
}

// TileStoppedBurning is logged when a tile burns out.
type TileStoppedBurning struct {
	Tick int
	Tile world.Position
}

// WindDirectionChanged carries the previous and new direction in degrees.
type WindDirectionChanged struct {
	Tick     int
	Old, New int
}

// WindSpeedChanged carries the previous and new speed in km/h.
type WindSpeedChanged struct {
	Tick     int
	Old, New float64
}

func (TileStartedBurning) Kind() Kind   { return KindStartedBurning }
func (TileStoppedBurning) Kind() Kind   { return KindStoppedBurning }
func (WindDirectionChanged) Kind() Kind { return KindWindDirection }
func (WindSpeedChanged) Kind() Kind     { return KindWindSpeed }

func (e TileStartedBurning) At() int   { return e.Tick }
func (e TileStoppedBurning) At() int   { return e.Tick }
func (e WindDirectionChanged) At() int { return e.Tick }
func (e WindSpeedChanged) At() int     { return e.Tick }

func (TileStartedBurning) isEvent()   {}
func (TileStoppedBurning) isEvent()   {}
func (WindDirectionChanged) isEvent() {}
func (WindSpeedChanged) isEvent()     {}

func (e TileStartedBurning) String() string {
	return fmt.Sprintf("tick %d: tile %v started burning", e.Tick, e.Tile)
}

func (e TileStoppedBurning) String() string {
	return fmt.Sprintf("tick %d: tile %v stopped burning", e.Tick, e.Tile)
}

func (e WindDirectionChanged) String() string {
	return fmt.Sprintf("tick %d: wind direction %d -> %d", e.Tick, e.Old, e.New)
}

func (e WindSpeedChanged) String() string {
	return fmt.Sprintf("tick %d: wind speed %.2f -> %.2f", e.Tick, e.Old, e.New)
}

// Log is an append-only event history grouped by tick. Ticks are kept in
// ascending order.
type Log struct {
	byTick map[int][]Event
	ticks  []int
	n      int
}

// NewLog returns an empty log.
func NewLog() *Log {
	return &Log{byTick: make(map[int][]Event)}
}

// Append records e under its tick.
func (l *Log) Append(e Event) {
	tick := e.At()
	bucket, ok := l.byTick[tick]
	if !ok {
		i := sort.SearchInts(l.ticks, tick)
		l.ticks = append(l.ticks, 0)
		copy(l.ticks[i+1:], l.ticks[i:])
		l.ticks[i] = tick
	}
	l.byTick[tick] = append(bucket, e)
	l.n++
}

// At returns the events logged at tick. Unknown ticks yield an empty slice.
func (l *Log) At(tick int) []Event {
	return l.byTick[tick]
}

// Ticks returns the ticks that have at least one event, ascending.
func (l *Log) Ticks() []int {
	out := make([]int, len(l.ticks))
	copy(out, l.ticks)
	return out
}

// Len is the total number of events.
func (l *Log) Len() int { return l.n }

// All returns every event in tick order.
func (l *Log) All() []Event {
	out := make([]Event, 0, l.n)
	for _, tick := range l.ticks {
		out = append(out, l.byTick[tick]...)
	}
	return out
}

// Clear drops every event.
func (l *Log) Clear() {
	clear(l.byTick)
	l.ticks = l.ticks[:0]
	l.n = 0
}

// Sample is the number of burning tiles after the events of Tick applied.
type Sample struct {
	Tick    int
	Burning int
}

// BurningCountOverTime replays start/stop events in tick order. The series is
// dense from the first logged tick to the last one; the count before the
// first tick is zero. Other event kinds are ignored.
func BurningCountOverTime(l *Log) []Sample {
	if len(l.ticks) == 0 {
		return nil
	}
	first, last := l.ticks[0], l.ticks[len(l.ticks)-1]
	out := make([]Sample, 0, last-first+1)
	count := 0
	for tick := first; tick <= last; tick++ {
		for _, e := range l.byTick[tick] {
			switch e.(type) {
			case TileStartedBurning:
				count++
			case TileStoppedBurning:
				count--
			}
		}
		out = append(out, Sample{Tick: tick, Burning: count})
	}
	return out
}
