package mesh

import "github.com/paulmach/orb"

// TileSize is the number of world units per level tile.
const TileSize = 32.0

// Vertex is a standing position a character can occupy.
// ID must equal the vertex's index in its graph.
type Vertex struct {
	X  float64
	Y  float64
	ID int
}

// NewVertex creates a vertex at world coordinates (x, y).
func NewVertex(x, y float64, id int) Vertex {
	return Vertex{X: x, Y: y, ID: id}
}

// NewScaledVertex creates a vertex from tile coordinates.
func NewScaledVertex(x, y float64, id int) Vertex {
	return Vertex{X: x * TileSize, Y: y * TileSize, ID: id}
}

// Point returns the vertex position.
func (v Vertex) Point() orb.Point {
	return orb.Point{v.X, v.Y}
}
