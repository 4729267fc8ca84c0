// package common contains small shared types and helpers used throughout this engine. They are plain
// structs and functions, not interface-wrapped components.
package common

// Rect is an axis-aligned rectangle in window pixel coordinates, origin top-left.
type Rect struct {
	// X and Y are the top-left corner of the rectangle.
	X, Y int
	// Width and Height are the size of the rectangle in pixels.
	Width, Height int
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// The left and top edges are inclusive, the right and bottom edges exclusive.
//
// Parameters:
//   - x: the horizontal coordinate in pixels
//   - y: the vertical coordinate in pixels
//
// Returns:
//   - bool: true if the point is inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
