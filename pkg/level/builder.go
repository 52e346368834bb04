package level

import (
	"fmt"

	"movement_mesh/pkg/mesh"
)

// Build creates a movement graph from a level description.
// Vertices are added in listed order, so their ids must run 0, 1, 2, ...
// Edges may reference ids that were never added.
func Build(d *Description) (*mesh.Graph, error) {
	newVertex := mesh.NewVertex
	if d.Units == UnitsTiles {
		newVertex = mesh.NewScaledVertex
	}

	g := mesh.NewGraph()
	for _, v := range d.Vertices {
		if err := g.AddVertex(newVertex(v.X, v.Y, v.ID)); err != nil {
			return nil, fmt.Errorf("level %d: %w", d.ID, err)
		}
	}

	for i, e := range d.Edges {
		m, err := mesh.ParseMotion(e.Motion)
		if err != nil {
			return nil, fmt.Errorf("level %d edge %d: %w", d.ID, i, err)
		}
		if err := g.SetEdge(e.From, e.To, m); err != nil {
			return nil, fmt.Errorf("level %d edge %d: %w", d.ID, i, err)
		}
	}
	return g, nil
}

// Describe converts a graph back into a description in world units.
func Describe(id int, name string, g *mesh.Graph) *Description {
	d := &Description{ID: id, Name: name, Units: UnitsWorld}
	for _, v := range g.Vertices() {
		d.Vertices = append(d.Vertices, VertexSpec{ID: v.ID, X: v.X, Y: v.Y})
	}
	for _, l := range g.Links() {
		d.Edges = append(d.Edges, EdgeSpec{From: l.From, To: l.To, Motion: l.Motion.String()})
	}
	return d
}
