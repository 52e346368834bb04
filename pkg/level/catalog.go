package level

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"

	"movement_mesh/pkg/mesh"
)

//go:embed levels/*.yaml
var builtinFS embed.FS

// Catalog maps level ids to descriptions. Safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	levels map[int]*Description
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{levels: make(map[int]*Description)}
}

// Put validates d, checks that it builds, and stores a copy under d.ID.
func (c *Catalog) Put(d *Description) error {
	if err := check(d); err != nil {
		return err
	}
	c.mu.Lock()
	c.levels[d.ID] = d.Clone()
	c.mu.Unlock()
	return nil
}

// Replace swaps the whole catalog contents. When several descriptions share
// an id the last one wins. Nothing changes if any description is invalid.
func (c *Catalog) Replace(descs []*Description) error {
	levels := make(map[int]*Description, len(descs))
	for _, d := range descs {
		if err := check(d); err != nil {
			return err
		}
		levels[d.ID] = d.Clone()
	}
	c.mu.Lock()
	c.levels = levels
	c.mu.Unlock()
	return nil
}

// Get returns a copy of the description for id.
func (c *Catalog) Get(id int) (*Description, bool) {
	c.mu.RLock()
	d, ok := c.levels[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

// IDs returns the known level ids in ascending order.
func (c *Catalog) IDs() []int {
	c.mu.RLock()
	ids := make([]int, 0, len(c.levels))
	for id := range c.levels {
		ids = append(ids, id)
	}
	c.mu.RUnlock()
	sort.Ints(ids)
	return ids
}

// Len returns the number of levels in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.levels)
}

// Mesh builds a fresh graph for level id. Unknown ids yield an empty graph.
func (c *Catalog) Mesh(id int) *mesh.Graph {
	c.mu.RLock()
	d, ok := c.levels[id]
	c.mu.RUnlock()
	if !ok {
		return mesh.NewGraph()
	}

	g, err := Build(d)
	if err != nil {
		// Put and Replace already built d once.
		slog.Error("build stored level", "level", id, "error", err)
		return mesh.NewGraph()
	}
	return g
}

func check(d *Description) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if _, err := Build(d); err != nil {
		return err
	}
	return nil
}

var builtinDescriptions = sync.OnceValues(func() ([]*Description, error) {
	return loadFS(builtinFS, "levels")
})

// BuiltinDescriptions returns copies of the embedded level descriptions.
func BuiltinDescriptions() []*Description {
	descs, err := builtinDescriptions()
	if err != nil {
		panic(fmt.Sprintf("level: embedded levels: %v", err))
	}
	out := make([]*Description, len(descs))
	for i, d := range descs {
		out[i] = d.Clone()
	}
	return out
}

// Builtin returns a new catalog holding the embedded levels.
func Builtin() *Catalog {
	c := NewCatalog()
	if err := c.Replace(BuiltinDescriptions()); err != nil {
		panic(fmt.Sprintf("level: embedded levels: %v", err))
	}
	return c
}

var builtin = sync.OnceValue(Builtin)

// GetLevelMesh returns the movement graph for a built-in level.
// Unknown ids yield an empty graph.
func GetLevelMesh(id int) *mesh.Graph {
	return builtin().Mesh(id)
}

// LoadDir parses every *.yaml file in dir, in file name order.
func LoadDir(dir string) ([]*Description, error) {
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, dir string) ([]*Description, error) {
	names, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	descs := make([]*Description, 0, len(names))
	for _, name := range names {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		d, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(name), err)
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// LoadCatalog returns a catalog with the built-in levels overlaid by the
// levels in dir. An empty dir yields the built-in levels only.
func LoadCatalog(dir string) (*Catalog, error) {
	c := NewCatalog()
	if err := reload(c, dir); err != nil {
		return nil, err
	}
	return c, nil
}

func reload(c *Catalog, dir string) error {
	descs := BuiltinDescriptions()
	if dir != "" {
		extra, err := LoadDir(dir)
		if err != nil {
			return fmt.Errorf("load levels from %s: %w", dir, err)
		}
		descs = append(descs, extra...)
	}
	return c.Replace(descs)
}
