package level

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movement_mesh/pkg/mesh"
)

func TestParse(t *testing.T) {
	d, err := Parse(strings.NewReader(`
id: 2
name: pit
units: tiles
vertices:
  - {id: 0, x: 1, y: 5}
  - {id: 1, x: 1, y: 1}
edges:
  - {from: 0, to: 1, motion: fall}
  - {from: 1, to: 0, motion: jump}
`))
	require.NoError(t, err)
	assert.Equal(t, 2, d.ID)
	assert.Equal(t, "pit", d.Name)
	assert.Equal(t, UnitsTiles, d.Units)
	assert.Len(t, d.Vertices, 2)
	assert.Equal(t, EdgeSpec{From: 0, To: 1, Motion: "fall"}, d.Edges[0])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantValidator bool
	}{
		{name: "empty", input: ""},
		{name: "malformed", input: "id: [1"},
		{name: "unknown field", input: "id: 1\nspeed: 3\n"},
		{name: "negative id", input: "id: -1\n", wantValidator: true},
		{name: "bad units", input: "id: 1\nunits: miles\n", wantValidator: true},
		{name: "vertex id beyond capacity", input: "id: 1\nvertices:\n  - {id: 50, x: 0, y: 0}\n", wantValidator: true},
		{name: "edge beyond capacity", input: "id: 1\nedges:\n  - {from: 0, to: 50, motion: left}\n", wantValidator: true},
		{name: "unknown motion", input: "id: 1\nedges:\n  - {from: 0, to: 1, motion: teleport}\n", wantValidator: true},
		{name: "missing motion", input: "id: 1\nedges:\n  - {from: 0, to: 1}\n", wantValidator: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantValidator {
				var verrs validator.ValidationErrors
				assert.ErrorAs(t, err, &verrs)
			}
		})
	}
}

func TestParseTooLarge(t *testing.T) {
	big := bytes.Repeat([]byte("#"), MaxFileSize+1)
	_, err := Parse(bytes.NewReader(big))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestParseTooManyVertices(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id: 1\nvertices:\n")
	for i := 0; i <= mesh.MaxVert; i++ {
		sb.WriteString("  - {id: 0, x: 0, y: 0}\n")
	}
	_, err := Parse(strings.NewReader(sb.String()))
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestBuildKeepsDanglingEdges(t *testing.T) {
	d := &Description{
		ID:       9,
		Vertices: []VertexSpec{{ID: 0}, {ID: 1, X: 32}},
		Edges: []EdgeSpec{
			{From: 0, To: 1, Motion: "right"},
			{From: 1, To: 12, Motion: "jump_right"},
		},
	}
	g, err := Build(d)
	require.NoError(t, err)

	m, err := g.Edge(1, 12)
	require.NoError(t, err)
	assert.Equal(t, mesh.JumpRight, m)

	var dangling *mesh.DanglingEdgeError
	assert.ErrorAs(t, g.Validate(), &dangling)
}

func TestBuildUnits(t *testing.T) {
	d := &Description{ID: 1, Vertices: []VertexSpec{{ID: 0, X: 2, Y: -1.5}}}

	g, err := Build(d)
	require.NoError(t, err)
	v, _ := g.VertexAt(0)
	assert.Equal(t, mesh.Vertex{X: 2, Y: -1.5, ID: 0}, v)

	d.Units = UnitsTiles
	g, err = Build(d)
	require.NoError(t, err)
	v, _ = g.VertexAt(0)
	assert.Equal(t, mesh.Vertex{X: 64, Y: -48, ID: 0}, v)
}

func TestDescribeRoundTrip(t *testing.T) {
	original := GetLevelMesh(1)

	d := Describe(1, "arena", original)
	assert.Equal(t, UnitsWorld, d.Units)

	data, err := d.Marshal()
	require.NoError(t, err)

	parsed, err := Parse(bytes.NewReader(data))
	require.NoError(t, err)

	rebuilt, err := Build(parsed)
	require.NoError(t, err)
	assert.True(t, original.Equal(rebuilt))
}
