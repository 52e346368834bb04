// Package snap finds the movement-graph vertex nearest to a world position.
package snap

import (
	"errors"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"

	"movement_mesh/pkg/mesh"
)

// DefaultMaxDist is the default snapping radius in world units.
const DefaultMaxDist = 4 * mesh.TileSize

var (
	// ErrPointTooFar is returned when no vertex lies within the snapping radius.
	ErrPointTooFar = errors.New("point too far from any vertex")
	// ErrEmpty is returned when the graph has no vertices.
	ErrEmpty = errors.New("graph has no vertices")
)

// Result is a position snapped to a vertex.
type Result struct {
	Vertex mesh.Vertex
	Dist   float64 // world units from the query point to the vertex
}

// Option configures a Snapper.
type Option func(*Snapper)

// WithMaxDist sets the snapping radius. Non-positive values disable the limit.
func WithMaxDist(d float64) Option {
	return func(s *Snapper) {
		if d <= 0 {
			d = math.Inf(1)
		}
		s.maxDist = d
	}
}

// Snapper indexes the vertices of one graph in an R-tree.
type Snapper struct {
	tree    rtree.RTreeG[mesh.Vertex]
	maxDist float64
}

// New builds a Snapper over the vertices of g.
func New(g *mesh.Graph, opts ...Option) *Snapper {
	s := &Snapper{maxDist: DefaultMaxDist}
	for _, opt := range opts {
		opt(s)
	}
	for _, v := range g.Vertices() {
		p := [2]float64{v.X, v.Y}
		s.tree.Insert(p, p, v)
	}
	return s
}

// Len returns the number of indexed vertices.
func (s *Snapper) Len() int {
	return s.tree.Len()
}

// Nearest returns the vertex closest to (x, y). Ties go to the lower id.
func (s *Snapper) Nearest(x, y float64) (Result, error) {
	if s.tree.Len() == 0 {
		return Result{}, ErrEmpty
	}

	target := orb.Point{x, y}
	q := [2]float64{x, y}

	var best Result
	found := false
	s.tree.Nearby(
		rtree.BoxDist[float64, mesh.Vertex](q, q, nil),
		func(_, _ [2]float64, v mesh.Vertex, _ float64) bool {
			d := planar.Distance(target, v.Point())
			if found && d > best.Dist {
				return false
			}
			if !found || d < best.Dist || (d == best.Dist && v.ID < best.Vertex.ID) {
				best = Result{Vertex: v, Dist: d}
				found = true
			}
			return true
		},
	)

	if best.Dist > s.maxDist {
		return Result{}, ErrPointTooFar
	}
	return best, nil
}

// Within returns every vertex inside the axis-aligned box b, ordered by id.
func (s *Snapper) Within(b orb.Bound) []mesh.Vertex {
	var out []mesh.Vertex
	s.tree.Search(
		[2]float64{b.Min.X(), b.Min.Y()},
		[2]float64{b.Max.X(), b.Max.Y()},
		func(_, _ [2]float64, v mesh.Vertex) bool {
			out = append(out, v)
			return true
		},
	)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
