package mesh

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// MaxVert is the vertex capacity of a Graph.
const MaxVert = 50

var (
	// ErrOutOfRange is returned when a vertex id falls outside the graph.
	ErrOutOfRange = errors.New("vertex id out of range")
	// ErrNonSequentialID is returned when a vertex id does not match its insertion index.
	ErrNonSequentialID = errors.New("vertex id does not match insertion order")
	// ErrCapacity is returned when adding a vertex to a full graph.
	ErrCapacity = errors.New("graph vertex capacity reached")
)

// Edge is a directed connection labeled with the motion that realizes it.
// Edge{Motion: Stop} means the pair is not connected.
type Edge struct {
	Motion Motion
}

// Link is a non-Stop edge together with its endpoints.
type Link struct {
	From   int
	To     int
	Motion Motion
}

// Graph is a movement graph for one level: up to MaxVert vertices and a dense
// MaxVert x MaxVert adjacency table indexed [from][to].
//
// Only the VertexCount() x VertexCount() block of the table is meaningful;
// every other cell stays Stop unless written explicitly.
type Graph struct {
	vertices []Vertex
	edges    [MaxVert][MaxVert]Edge
}

// NewGraph returns an empty graph with every edge set to Stop.
func NewGraph() *Graph {
	g := &Graph{}
	for from := range g.edges {
		for to := range g.edges[from] {
			g.edges[from][to] = Edge{Motion: Stop}
		}
	}
	return g
}

// AddVertex appends v. Its ID must equal the current vertex count.
func (g *Graph) AddVertex(v Vertex) error {
	if len(g.vertices) >= MaxVert {
		return fmt.Errorf("add vertex %d: %w", v.ID, ErrCapacity)
	}
	if v.ID != len(g.vertices) {
		return fmt.Errorf("add vertex %d at index %d: %w", v.ID, len(g.vertices), ErrNonSequentialID)
	}
	g.vertices = append(g.vertices, v)
	return nil
}

// SetEdge writes the motion for the directed pair (from, to).
// Ids are only checked against the table capacity, so edges may reference
// vertices that have not been added; Validate reports those.
func (g *Graph) SetEdge(from, to int, m Motion) error {
	if !inTable(from) || !inTable(to) {
		return fmt.Errorf("set edge (%d, %d): %w", from, to, ErrOutOfRange)
	}
	if !m.Valid() {
		return fmt.Errorf("set edge (%d, %d): invalid motion %d", from, to, uint8(m))
	}
	g.edges[from][to] = Edge{Motion: m}
	return nil
}

// VertexCount returns the number of vertices in the graph.
func (g *Graph) VertexCount() int {
	return len(g.vertices)
}

// VertexAt returns the vertex with the given id.
func (g *Graph) VertexAt(id int) (Vertex, error) {
	if id < 0 || id >= len(g.vertices) {
		return Vertex{}, fmt.Errorf("vertex %d of %d: %w", id, len(g.vertices), ErrOutOfRange)
	}
	return g.vertices[id], nil
}

// Vertices returns a copy of the vertex sequence.
func (g *Graph) Vertices() []Vertex {
	out := make([]Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Edge returns the motion from one vertex to another. Pairs within capacity
// that were never connected return Stop, even past VertexCount().
func (g *Graph) Edge(from, to int) (Motion, error) {
	if !inTable(from) || !inTable(to) {
		return Stop, fmt.Errorf("edge (%d, %d): %w", from, to, ErrOutOfRange)
	}
	return g.edges[from][to].Motion, nil
}

// HasEdge reports whether the motion from one vertex to another is not Stop.
func (g *Graph) HasEdge(from, to int) (bool, error) {
	m, err := g.Edge(from, to)
	if err != nil {
		return false, err
	}
	return m != Stop, nil
}

// Outgoing returns the non-Stop edges leaving from, ordered by target id.
func (g *Graph) Outgoing(from int) ([]Link, error) {
	if !inTable(from) {
		return nil, fmt.Errorf("outgoing %d: %w", from, ErrOutOfRange)
	}
	var links []Link
	for to, e := range g.edges[from] {
		if e.Motion != Stop {
			links = append(links, Link{From: from, To: to, Motion: e.Motion})
		}
	}
	return links, nil
}

// Links returns every non-Stop edge in the table in row-major order,
// including edges that reference vertices beyond VertexCount().
func (g *Graph) Links() []Link {
	var links []Link
	for from := range g.edges {
		for to, e := range g.edges[from] {
			if e.Motion != Stop {
				links = append(links, Link{From: from, To: to, Motion: e.Motion})
			}
		}
	}
	return links
}

// Equal reports whether both graphs hold the same vertices and edge table.
func (g *Graph) Equal(other *Graph) bool {
	if len(g.vertices) != len(other.vertices) {
		return false
	}
	for i := range g.vertices {
		if g.vertices[i] != other.vertices[i] {
			return false
		}
	}
	return g.edges == other.edges
}

// Bounds returns the bounding box of all vertex positions.
// An empty graph has an empty bound at the origin.
func (g *Graph) Bounds() orb.Bound {
	if len(g.vertices) == 0 {
		return orb.Bound{}
	}
	points := make(orb.MultiPoint, len(g.vertices))
	for i, v := range g.vertices {
		points[i] = v.Point()
	}
	return points.Bound()
}

func inTable(id int) bool {
	return id >= 0 && id < MaxVert
}
