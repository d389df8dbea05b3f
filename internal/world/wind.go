package world

import "firespread/pkg/core"

// MaxWindSpeed bounds Wind.Speed in km/h.
const MaxWindSpeed = 60.0

// Wind is the global wind state of a world. Direction is in degrees measured
// from the +X axis toward +Y.
type Wind struct {
	direction int
	speed     float64

	initialDirection int
	initialSpeed     float64
}

// NewWind builds a wind whose initial and current values are the given ones.
func NewWind(direction int, speed float64) Wind {
	w := Wind{
		initialDirection: normalizeDirection(direction),
		initialSpeed:     clampSpeed(speed),
	}
	w.Reset()
	return w
}

// RandomWind draws a direction in [0,360) and a speed in [0,60).
func RandomWind(src core.Source) Wind {
	return NewWind(src.IntN(360), core.Uniform(src, 0, MaxWindSpeed))
}

func (w *Wind) Direction() int           { return w.direction }
func (w *Wind) Speed() float64           { return w.speed }
func (w *Wind) InitialDirection() int    { return w.initialDirection }
func (w *Wind) InitialSpeed() float64    { return w.initialSpeed }
func (w *Wind) SetDirection(degrees int) { w.direction = normalizeDirection(degrees) }
func (w *Wind) SetSpeed(kmh float64)     { w.speed = clampSpeed(kmh) }

// Reset restores the initial direction and speed.
func (w *Wind) Reset() {
	w.direction = w.initialDirection
	w.speed = w.initialSpeed
}

func normalizeDirection(v int) int {
	return ((v % 360) + 360) % 360
}

func clampSpeed(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > MaxWindSpeed {
		return MaxWindSpeed
	}
	return v
}
