// N3M (Nucleus model) format parser for chunked mesh and material files.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// N3M format errors.
var (
	ErrInvalidN3MMagic  = errors.New("invalid N3M magic: expected 'N3DM'")
	ErrTruncatedN3MData = errors.New("truncated N3M data")
	ErrN3MIndexRange    = errors.New("N3M index out of range")
)

// N3MMagic is the file tag in file byte order.
const N3MMagic = "N3DM"

// N3M chunk identifiers.
const (
	N3MChunkModelName = 0x3a00

	N3MChunkMaterial  = 0x3b00
	N3MChunkAmbient   = 0x3b01
	N3MChunkDiffuse   = 0x3b02
	N3MChunkSpecular  = 0x3b03
	N3MChunkAlpha     = 0x3b10
	N3MChunkPower     = 0x3b11
	N3MChunkEmissive  = 0x3b12
	N3MChunkMaps      = 0x3ba0
	N3MChunkDiffMap   = 0x3ba1
	N3MChunkReflMap   = 0x3ba2
	N3MChunkBumpMap   = 0x3ba3
	N3MChunkAlphaMap  = 0x3ba4
	N3MChunkLightMap  = 0x3ba5
	N3MChunkGeometry  = 0x3d00
	N3MChunkVertCount = 0x3d01
	N3MChunkTriCount  = 0x3d02
	N3MChunkVertices  = 0x3da0
	N3MChunkVertex    = 0x3da1
	N3MChunkTriangles = 0x3db0
	N3MChunkTriangle  = 0x3db1
)

// n3mChunkHeaderSize is the id (uint16) plus size (uint32).
const n3mChunkHeaderSize = 6

// N3MVertex is a single vertex record.
type N3MVertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// N3MTriangle is a single face record.
type N3MTriangle struct {
	Vertices [3]uint32
	Normal   [3]float32
}

// N3MMaterial holds the material block of a model.
type N3MMaterial struct {
	Ambient  [3]float32
	Diffuse  [3]float32
	Specular [3]float32
	Emissive float32
	Alpha    float32
	Power    float32

	DiffuseMap string
	ReflectMap string
	EnvBlend   float32 // Reflection map blend factor
	BumpMap    string
}

// N3M represents a parsed model file.
type N3M struct {
	Size      uint32 // File size recorded in the header
	Material  N3MMaterial
	Vertices  []N3MVertex
	Triangles []N3MTriangle
}

// ParseN3M parses N3M data from a byte slice.
func ParseN3M(data []byte) (*N3M, error) {
	if len(data) < 8 {
		return nil, ErrTruncatedN3MData
	}
	if string(data[:4]) != N3MMagic {
		return nil, ErrInvalidN3MMagic
	}

	r := bytes.NewReader(data[4:])
	m := &N3M{
		Material: N3MMaterial{Alpha: 1},
	}
	binary.Read(r, binary.LittleEndian, &m.Size)

	for r.Len() > 0 {
		var id uint16
		var size uint32
		if err := binary.Read(r, binary.LittleEndian, &id); err != nil {
			return nil, ErrTruncatedN3MData
		}
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, ErrTruncatedN3MData
		}
		if size < n3mChunkHeaderSize {
			return nil, fmt.Errorf("%w: chunk 0x%04x size %d", ErrTruncatedN3MData, id, size)
		}
		body := int64(size) - n3mChunkHeaderSize

		if isN3MContainer(id) {
			continue
		}
		if body > int64(r.Len()) {
			return nil, fmt.Errorf("%w: chunk 0x%04x", ErrTruncatedN3MData, id)
		}

		payload := make([]byte, body)
		r.Read(payload)
		if err := m.readChunk(id, payload); err != nil {
			return nil, fmt.Errorf("chunk 0x%04x: %w", id, err)
		}
	}

	return m, nil
}

// ParseN3MFile parses an N3M file from disk.
func ParseN3MFile(path string) (*N3M, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading N3M file: %w", err)
	}
	return ParseN3M(data)
}

func isN3MContainer(id uint16) bool {
	switch id {
	case N3MChunkMaterial, N3MChunkMaps, N3MChunkGeometry, N3MChunkVertices, N3MChunkTriangles:
		return true
	}
	return false
}

// readChunk decodes one leaf chunk payload into the model.
func (m *N3M) readChunk(id uint16, payload []byte) error {
	r := bytes.NewReader(payload)
	read := func(v any) error {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return ErrTruncatedN3MData
		}
		return nil
	}

	mat := &m.Material
	switch id {
	case N3MChunkAmbient:
		return read(&mat.Ambient)
	case N3MChunkDiffuse:
		return read(&mat.Diffuse)
	case N3MChunkSpecular:
		return read(&mat.Specular)
	case N3MChunkAlpha:
		return read(&mat.Alpha)
	case N3MChunkPower:
		return read(&mat.Power)
	case N3MChunkEmissive:
		return read(&mat.Emissive)

	case N3MChunkDiffMap:
		r.Seek(4, io.SeekCurrent)
		mat.DiffuseMap = readCString(r)
	case N3MChunkReflMap:
		if err := read(&mat.EnvBlend); err != nil {
			return err
		}
		mat.ReflectMap = readCString(r)
	case N3MChunkBumpMap:
		r.Seek(4, io.SeekCurrent)
		mat.BumpMap = readCString(r)

	case N3MChunkVertCount:
		var n uint32
		if err := read(&n); err != nil {
			return err
		}
		m.Vertices = make([]N3MVertex, n)
	case N3MChunkTriCount:
		var n uint32
		if err := read(&n); err != nil {
			return err
		}
		m.Triangles = make([]N3MTriangle, n)

	case N3MChunkVertex:
		var idx uint32
		if err := read(&idx); err != nil {
			return err
		}
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: vertex %d of %d", ErrN3MIndexRange, idx, len(m.Vertices))
		}
		return read(&m.Vertices[idx])
	case N3MChunkTriangle:
		var idx uint32
		if err := read(&idx); err != nil {
			return err
		}
		if int(idx) >= len(m.Triangles) {
			return fmt.Errorf("%w: triangle %d of %d", ErrN3MIndexRange, idx, len(m.Triangles))
		}
		return read(&m.Triangles[idx])
	}

	// Model name, alpha map, light map and unknown chunks are skipped.
	return nil
}

// Validate checks that all triangle vertex ids reference existing vertices.
func (m *N3M) Validate() error {
	for i, tri := range m.Triangles {
		for _, v := range tri.Vertices {
			if int(v) >= len(m.Vertices) {
				return fmt.Errorf("%w: triangle %d references vertex %d", ErrN3MIndexRange, i, v)
			}
		}
	}
	return nil
}

// readCString reads a NUL-terminated string, or the remainder if unterminated.
func readCString(r *bytes.Reader) string {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil || b == 0 {
			return string(buf)
		}
		buf = append(buf, b)
	}
}
