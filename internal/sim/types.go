// Package sim provides the pixelwar simulation core: species genomes, the cell
// grid, combat resolution and the tick scheduler.
// This package is UI-agnostic and deterministic for a given seed.
package sim

import "fmt"

// Coord represents a 2D coordinate on the grid.
// X increases to the right, Y increases downward; (0,0) is the top-left corner.
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the neighboring coordinate in the given direction.
// The result may lie outside the grid; callers check it with Grid.InBounds.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Direction is one of the eight compass offsets around a cell.
type Direction uint8

// Canonical enumeration order. Combat visits neighbors in this order.
const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// NumDirections is the size of the neighborhood.
const NumDirections = 8

var directionOffsets = [NumDirections][2]int{
	North:     {0, -1},
	NorthEast: {1, -1},
	East:      {1, 0},
	SouthEast: {1, 1},
	South:     {0, 1},
	SouthWest: {-1, 1},
	West:      {-1, 0},
	NorthWest: {-1, -1},
}

var directionNames = [NumDirections]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// AllDirections returns every direction in canonical order.
func AllDirections() [NumDirections]Direction {
	return [NumDirections]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}
}

// Delta returns the (dx, dy) offset for one step in this direction.
func (d Direction) Delta() (dx, dy int) {
	if d >= NumDirections {
		return 0, 0
	}
	off := directionOffsets[d]
	return off[0], off[1]
}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction {
	return (d + NumDirections/2) % NumDirections
}

// String returns the compass abbreviation of a direction.
func (d Direction) String() string {
	if d >= NumDirections {
		return "?"
	}
	return directionNames[d]
}
