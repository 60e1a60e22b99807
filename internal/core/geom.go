// Package core provides fundamental types and utilities shared by the game
// logic and the terminal platform. It has no Bubble Tea dependency so world
// and gathering code stays pure and testable.
package core

// Point is a tile coordinate. X grows to the right, Y grows downward.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Manhattan returns the taxicab distance between two points.
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Dir is one of the four cardinal facings.
type Dir int

const (
	DirDown Dir = iota
	DirUp
	DirLeft
	DirRight
)

// Delta returns the unit step for the direction.
func (d Dir) Delta() Point {
	switch d {
	case DirUp:
		return Point{Y: -1}
	case DirLeft:
		return Point{X: -1}
	case DirRight:
		return Point{X: 1}
	default:
		return Point{Y: 1}
	}
}

func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "down"
	}
}

// ParseDir converts a saved direction name back into a Dir.
// Unknown names map to DirDown.
func ParseDir(s string) Dir {
	switch s {
	case "up":
		return DirUp
	case "left":
		return DirLeft
	case "right":
		return DirRight
	default:
		return DirDown
	}
}

// Rect represents an axis-aligned rectangle on the screen or the map.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
