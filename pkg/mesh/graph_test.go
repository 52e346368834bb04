package mesh

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeVertexGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()
	require.NoError(t, g.AddVertex(NewVertex(-224, 32, 0)))
	require.NoError(t, g.AddVertex(NewVertex(208, 32, 1)))
	require.NoError(t, g.AddVertex(NewVertex(256, 96, 2)))
	require.NoError(t, g.SetEdge(0, 1, Right))
	require.NoError(t, g.SetEdge(1, 0, Left))
	require.NoError(t, g.SetEdge(1, 2, JumpRight))
	require.NoError(t, g.SetEdge(2, 1, Left))
	return g
}

func TestNewGraphIsEmpty(t *testing.T) {
	g := NewGraph()

	assert.Equal(t, 0, g.VertexCount())
	for from := 0; from < MaxVert; from++ {
		for to := 0; to < MaxVert; to++ {
			m, err := g.Edge(from, to)
			require.NoError(t, err)
			if m != Stop {
				t.Fatalf("Edge(%d, %d) = %s, want stop", from, to, m)
			}
		}
	}
	assert.Empty(t, g.Links())
}

func TestVertexConstructors(t *testing.T) {
	v := NewVertex(1.5, -2, 7)
	assert.Equal(t, Vertex{X: 1.5, Y: -2, ID: 7}, v)

	s := NewScaledVertex(4, 10.5, 3)
	assert.Equal(t, Vertex{X: 128, Y: 336, ID: 3}, s)
	assert.Equal(t, orb.Point{128, 336}, s.Point())
}

func TestAddVertexRejectsNonSequentialID(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.AddVertex(NewVertex(0, 0, 0)))

	err := g.AddVertex(NewVertex(1, 1, 2))
	require.ErrorIs(t, err, ErrNonSequentialID)

	err = g.AddVertex(NewVertex(1, 1, 0))
	require.ErrorIs(t, err, ErrNonSequentialID)

	assert.Equal(t, 1, g.VertexCount())
}

func TestAddVertexCapacity(t *testing.T) {
	g := NewGraph()
	for i := 0; i < MaxVert; i++ {
		require.NoError(t, g.AddVertex(NewVertex(float64(i), 0, i)))
	}

	err := g.AddVertex(NewVertex(0, 0, MaxVert))
	require.ErrorIs(t, err, ErrCapacity)
	assert.Equal(t, MaxVert, g.VertexCount())
}

func TestVertexAt(t *testing.T) {
	g := threeVertexGraph(t)

	for _, v := range g.Vertices() {
		got, err := g.VertexAt(v.ID)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	for _, id := range []int{-1, 3, MaxVert} {
		_, err := g.VertexAt(id)
		assert.ErrorIs(t, err, ErrOutOfRange, "id %d", id)
	}
}

func TestEdgeBounds(t *testing.T) {
	g := threeVertexGraph(t)

	tests := []struct {
		name     string
		from, to int
		want     Motion
		wantErr  bool
	}{
		{name: "connected", from: 0, to: 1, want: Right},
		{name: "reverse", from: 1, to: 0, want: Left},
		{name: "unconnected", from: 0, to: 2, want: Stop},
		{name: "beyond vertex count within capacity", from: MaxVert - 1, to: MaxVert - 1, want: Stop},
		{name: "from at capacity", from: MaxVert, to: 0, wantErr: true},
		{name: "to at capacity", from: 0, to: MaxVert, wantErr: true},
		{name: "negative", from: -1, to: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Edge(tt.from, tt.to)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEdgeDirectionIsIndependent(t *testing.T) {
	g := NewGraph()
	require.NoError(t, g.SetEdge(3, 4, Right))

	m, err := g.Edge(4, 3)
	require.NoError(t, err)
	assert.Equal(t, Stop, m)

	require.NoError(t, g.SetEdge(4, 3, JumpLeft))
	m, err = g.Edge(3, 4)
	require.NoError(t, err)
	assert.Equal(t, Right, m)
}

func TestHasEdge(t *testing.T) {
	g := threeVertexGraph(t)

	ok, err := g.HasEdge(1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.HasEdge(2, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = g.HasEdge(0, MaxVert)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSetEdgeAllowsDanglingIDs(t *testing.T) {
	g := threeVertexGraph(t)

	require.NoError(t, g.SetEdge(2, 40, Fall))
	m, err := g.Edge(2, 40)
	require.NoError(t, err)
	assert.Equal(t, Fall, m)

	assert.ErrorIs(t, g.SetEdge(2, MaxVert, Fall), ErrOutOfRange)
	assert.Error(t, g.SetEdge(0, 1, Motion(99)))
}

func TestOutgoingAndLinks(t *testing.T) {
	g := threeVertexGraph(t)

	out, err := g.Outgoing(1)
	require.NoError(t, err)
	assert.Equal(t, []Link{
		{From: 1, To: 0, Motion: Left},
		{From: 1, To: 2, Motion: JumpRight},
	}, out)

	assert.Equal(t, []Link{
		{From: 0, To: 1, Motion: Right},
		{From: 1, To: 0, Motion: Left},
		{From: 1, To: 2, Motion: JumpRight},
		{From: 2, To: 1, Motion: Left},
	}, g.Links())

	_, err = g.Outgoing(MaxVert)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestEqual(t *testing.T) {
	a := threeVertexGraph(t)
	b := threeVertexGraph(t)
	assert.True(t, a.Equal(b))

	require.NoError(t, b.SetEdge(0, 2, Jump))
	assert.False(t, a.Equal(b))

	c := NewGraph()
	assert.False(t, a.Equal(c))
	assert.True(t, c.Equal(NewGraph()))
}

func TestVerticesReturnsCopy(t *testing.T) {
	g := threeVertexGraph(t)
	vs := g.Vertices()
	vs[0].X = 9999

	v, err := g.VertexAt(0)
	require.NoError(t, err)
	assert.Equal(t, -224.0, v.X)
}

func TestBounds(t *testing.T) {
	g := threeVertexGraph(t)
	assert.Equal(t, orb.Bound{Min: orb.Point{-224, 32}, Max: orb.Point{256, 96}}, g.Bounds())
	assert.Equal(t, orb.Bound{}, NewGraph().Bounds())
}
