// Package level loads per-level movement graphs from level descriptions.
//
// A description is a YAML document listing vertices and directed edges.
// Built-in levels are embedded in the binary; additional levels can be
// loaded from a directory and hot-reloaded while a server is running.
package level

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MaxFileSize is the largest level description accepted by Parse (1 MiB).
const MaxFileSize = 1024 * 1024

// Units selects how vertex coordinates in a description are interpreted.
type Units string

const (
	// UnitsWorld coordinates are used as-is.
	UnitsWorld Units = "world"
	// UnitsTiles coordinates are multiplied by mesh.TileSize.
	UnitsTiles Units = "tiles"
)

// Description is the authored form of one level's movement graph.
type Description struct {
	ID       int          `yaml:"id" json:"id" validate:"gte=0"`
	Name     string       `yaml:"name,omitempty" json:"name,omitempty" validate:"max=64"`
	Units    Units        `yaml:"units,omitempty" json:"units,omitempty" validate:"omitempty,oneof=world tiles"`
	Vertices []VertexSpec `yaml:"vertices" json:"vertices" validate:"max=50,dive"`
	Edges    []EdgeSpec   `yaml:"edges" json:"edges" validate:"dive"`
}

// VertexSpec is one authored vertex.
type VertexSpec struct {
	ID int     `yaml:"id" json:"id" validate:"gte=0,lt=50"`
	X  float64 `yaml:"x" json:"x"`
	Y  float64 `yaml:"y" json:"y"`
}

// EdgeSpec is one authored directed edge.
type EdgeSpec struct {
	From   int    `yaml:"from" json:"from" validate:"gte=0,lt=50"`
	To     int    `yaml:"to" json:"to" validate:"gte=0,lt=50"`
	Motion string `yaml:"motion" json:"motion" validate:"required,oneof=left right jump jump_left jump_right fall stop"`
}

// ErrTooLarge is returned when a description exceeds MaxFileSize.
var ErrTooLarge = errors.New("level description too large")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a YAML level description.
func Parse(r io.Reader) (*Description, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read level description: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrTooLarge
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var d Description
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty level description")
		}
		return nil, fmt.Errorf("decode level description: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks field constraints. Vertex ordering is checked by Build.
func (d *Description) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("level %d: %w", d.ID, err)
	}
	return nil
}

// Clone returns a deep copy of d.
func (d *Description) Clone() *Description {
	c := *d
	c.Vertices = append([]VertexSpec(nil), d.Vertices...)
	c.Edges = append([]EdgeSpec(nil), d.Edges...)
	return &c
}

// Marshal encodes d as YAML.
func (d *Description) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode level %d: %w", d.ID, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode level %d: %w", d.ID, err)
	}
	return buf.Bytes(), nil
}
