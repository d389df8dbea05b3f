package world

import "fmt"

// Vegetation enumerates the ground cover of a tile. The numeric values are
// part of the serialized world format.
type Vegetation uint8

const (
	Grass Vegetation = iota
	Sparse
	Forest
	Swamp
)

// WaterMoisture is the moisture value that marks a tile as water.
const WaterMoisture = 100

var vegetationNames = [...]string{"grass", "sparse", "forest", "swamp"}

func (v Vegetation) String() string {
	if int(v) < len(vegetationNames) {
		return vegetationNames[v]
	}
	return fmt.Sprintf("vegetation(%d)", uint8(v))
}

// Valid reports whether v is one of the known vegetation kinds.
func (v Vegetation) Valid() bool { return int(v) < len(vegetationNames) }

// Position addresses a tile by its width (X) and depth (Y) coordinates.
type Position struct {
	X, Y int
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Tile is one grid cell. Terrain fields are fixed at construction; the burn
// fields belong to the current simulation session and are cleared by Reset.
type Tile struct {
	x, y       int
	height     float64
	moisture   int
	vegetation Vegetation
	water      bool

	burning    bool
	burned     bool
	burnTime   int
	burningFor int
}

func newTile(x, y int, height float64, moisture int, veg Vegetation) Tile {
	if moisture < 0 {
		moisture = 0
	}
	if moisture > WaterMoisture {
		moisture = WaterMoisture
	}
	return Tile{
		x:          x,
		y:          y,
		height:     height,
		moisture:   moisture,
		vegetation: veg,
		water:      moisture == WaterMoisture,
	}
}

func (t *Tile) X() int                 { return t.x }
func (t *Tile) Y() int                 { return t.y }
func (t *Tile) Position() Position     { return Position{X: t.x, Y: t.y} }
func (t *Tile) Height() float64        { return t.height }
func (t *Tile) Moisture() int          { return t.moisture }
func (t *Tile) Vegetation() Vegetation { return t.vegetation }
func (t *Tile) IsWater() bool          { return t.water }
func (t *Tile) IsBurning() bool        { return t.burning }
func (t *Tile) IsBurned() bool         { return t.burned }
func (t *Tile) BurnTime() int          { return t.burnTime }
func (t *Tile) BurningFor() int        { return t.burningFor }

// Ignite starts a fire on the tile. It returns false for water and for tiles
// that are already burning or burned.
func (t *Tile) Ignite() bool {
	if t.burning || t.burned || t.water {
		return false
	}
	t.burning = true
	return true
}

// Extinguish ends the fire and marks the tile burned.
func (t *Tile) Extinguish() {
	t.burning = false
	t.burned = true
	t.burningFor = 0
}

// Reset clears the session fields.
func (t *Tile) Reset() {
	t.burning = false
	t.burned = false
	t.burningFor = 0
}

// SetBurnTime stores the number of ticks the tile needs to burn out.
func (t *Tile) SetBurnTime(ticks int) { t.burnTime = ticks }

// Tick advances the burn counter and reports the new elapsed value.
func (t *Tile) Tick() int {
	t.burningFor++
	return t.burningFor
}
