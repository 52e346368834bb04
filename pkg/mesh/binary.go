package mesh

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"os"
)

const (
	magicBytes = "MOVEMESH"
	version    = uint32(1)
	maxLinks   = MaxVert * MaxVert
)

// fileHeader is the binary header.
type fileHeader struct {
	Magic       [8]byte
	Version     uint32
	NumVertices uint32
	NumLinks    uint32
}

// linkRecord is one non-Stop edge on disk.
type linkRecord struct {
	From   uint32
	To     uint32
	Motion uint32
}

// WriteBinary serializes g to a binary file.
func WriteBinary(path string, g *Graph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	cw := &crc32Writer{w: f, hash: crc32.NewIEEE()}
	if err := encode(cw, g); err != nil {
		return err
	}

	// Write CRC32 trailer.
	if err := binary.Write(f, binary.LittleEndian, cw.hash.Sum32()); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Atomic rename.
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func encode(w io.Writer, g *Graph) error {
	links := g.Links()

	hdr := fileHeader{
		Version:     version,
		NumVertices: uint32(len(g.vertices)),
		NumLinks:    uint32(len(links)),
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Vertex ids are implicit: record i is vertex i.
	coords := make([]float64, 0, 2*len(g.vertices))
	for _, v := range g.vertices {
		coords = append(coords, v.X, v.Y)
	}
	if err := binary.Write(w, binary.LittleEndian, coords); err != nil {
		return fmt.Errorf("write vertices: %w", err)
	}

	records := make([]linkRecord, len(links))
	for i, l := range links {
		records[i] = linkRecord{From: uint32(l.From), To: uint32(l.To), Motion: uint32(l.Motion)}
	}
	if err := binary.Write(w, binary.LittleEndian, records); err != nil {
		return fmt.Errorf("write links: %w", err)
	}
	return nil
}

// ReadBinary deserializes a graph written by WriteBinary.
func ReadBinary(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	cr := &crc32Reader{r: f, hash: crc32.NewIEEE()}

	// Read and validate header.
	var hdr fileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumVertices > MaxVert {
		return nil, fmt.Errorf("NumVertices %d exceeds limit %d", hdr.NumVertices, MaxVert)
	}
	if hdr.NumLinks > maxLinks {
		return nil, fmt.Errorf("NumLinks %d exceeds limit %d", hdr.NumLinks, maxLinks)
	}

	coords := make([]float64, 2*hdr.NumVertices)
	if err := binary.Read(cr, binary.LittleEndian, coords); err != nil {
		return nil, fmt.Errorf("read vertices: %w", err)
	}
	records := make([]linkRecord, hdr.NumLinks)
	if err := binary.Read(cr, binary.LittleEndian, records); err != nil {
		return nil, fmt.Errorf("read links: %w", err)
	}

	// Read and validate CRC32.
	expectedCRC := cr.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	g := NewGraph()
	for i := 0; i < int(hdr.NumVertices); i++ {
		if err := g.AddVertex(NewVertex(coords[2*i], coords[2*i+1], i)); err != nil {
			return nil, err
		}
	}
	for i, rec := range records {
		if rec.Motion > uint32(Stop) {
			return nil, fmt.Errorf("link %d: invalid motion %d", i, rec.Motion)
		}
		if err := g.SetEdge(int(rec.From), int(rec.To), Motion(rec.Motion)); err != nil {
			return nil, fmt.Errorf("link %d: %w", i, err)
		}
	}
	return g, nil
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash hash.Hash32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash hash.Hash32
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
