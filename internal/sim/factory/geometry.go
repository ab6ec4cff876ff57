package factory

import "fmt"

// Direction names a side of a grid cell.
type Direction string

const (
	Top    Direction = "top"
	Bottom Direction = "bottom"
	Left   Direction = "left"
	Right  Direction = "right"
)

// NoNeighbor is returned by Neighbor when a side points off the grid.
const NoNeighbor = -1

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Top, Bottom, Left, Right:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrBadDirection, s)
}

func (d Direction) Valid() bool {
	_, err := ParseDirection(string(d))
	return err == nil
}

// Geometry is the shape of a row-major grid.
type Geometry struct {
	Width  int
	Height int
}

func (g Geometry) Cells() int { return g.Width * g.Height }

func (g Geometry) InBounds(index int) bool { return index >= 0 && index < g.Cells() }

func (g Geometry) XY(index int) (x, y int) { return index % g.Width, index / g.Width }

func (g Geometry) Index(x, y int) int {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return NoNeighbor
	}
	return y*g.Width + x
}

// Neighbor returns the index adjacent to index on side d, or NoNeighbor when
// that side crosses the grid edge. It never panics.
func (g Geometry) Neighbor(index int, d Direction) int {
	if !g.InBounds(index) {
		return NoNeighbor
	}
	x, y := g.XY(index)
	switch d {
	case Left:
		x--
	case Right:
		x++
	case Top:
		y--
	case Bottom:
		y++
	default:
		return NoNeighbor
	}
	return g.Index(x, y)
}
