package mesh

import (
	"errors"
	"fmt"
	"sort"
)

// DanglingEdgeError reports a non-Stop edge touching a vertex that was never added.
type DanglingEdgeError struct {
	Link        Link
	VertexCount int
}

func (e *DanglingEdgeError) Error() string {
	return fmt.Sprintf("edge (%d, %d) %s references a vertex beyond count %d",
		e.Link.From, e.Link.To, e.Link.Motion, e.VertexCount)
}

// SelfLoopError reports a non-Stop edge from a vertex to itself.
type SelfLoopError struct {
	Link Link
}

func (e *SelfLoopError) Error() string {
	return fmt.Sprintf("edge (%d, %d) %s is a self loop", e.Link.From, e.Link.To, e.Link.Motion)
}

// Validate checks the populated table for authoring mistakes. It is never
// run by construction; callers opt in once the graph is built.
func (g *Graph) Validate() error {
	var errs []error
	n := len(g.vertices)
	for _, l := range g.Links() {
		if l.From >= n || l.To >= n {
			errs = append(errs, &DanglingEdgeError{Link: l, VertexCount: n})
			continue
		}
		if l.From == l.To {
			errs = append(errs, &SelfLoopError{Link: l})
		}
	}
	return errors.Join(errs...)
}

// UnionFind implements a disjoint-set data structure with path halving
// and union by rank.
type UnionFind struct {
	parent []int
	rank   []byte
	size   []int
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
		size:   size,
	}
}

// Find returns the representative of the set containing x.
func (uf *UnionFind) Find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y int) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// Size returns the number of elements in the set containing x.
func (uf *UnionFind) Size(x int) int {
	return uf.size[uf.Find(x)]
}

// Components groups the vertices into weakly connected components, treating
// every edge as undirected. Groups are ordered largest first (ties by lowest
// member) and members ascend. Dangling edges are ignored.
func (g *Graph) Components() [][]int {
	n := len(g.vertices)
	if n == 0 {
		return nil
	}

	uf := NewUnionFind(n)
	for from := 0; from < n; from++ {
		for to := 0; to < n; to++ {
			if g.edges[from][to].Motion != Stop {
				uf.Union(from, to)
			}
		}
	}

	byRoot := make(map[int][]int)
	var roots []int
	for i := 0; i < n; i++ {
		root := uf.Find(i)
		if _, ok := byRoot[root]; !ok {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], i)
	}

	groups := make([][]int, 0, len(roots))
	for _, root := range roots {
		groups = append(groups, byRoot[root])
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i]) > len(groups[j])
	})
	return groups
}
