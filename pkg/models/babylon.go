package models

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/scanline/pkg/math3d"
)

// babylonFile mirrors the subset of the .babylon JSON scene format the
// loader understands.
type babylonFile struct {
	Meshes []babylonMesh `json:"meshes"`
}

// babylonMesh accepts both the legacy interleaved layout ("vertices" with a
// stride chosen by uvCount) and the split layout ("positions", "normals").
type babylonMesh struct {
	Name     string    `json:"name"`
	Position []float64 `json:"position"`
	Rotation []float64 `json:"rotation"`
	Color    []float64 `json:"color"`
	Vertices []float64 `json:"vertices"`
	UVCount  int       `json:"uvCount"`
	Indices  []int     `json:"indices"`

	Positions []float64 `json:"positions"`
	Normals   []float64 `json:"normals"`
}

// LoadBabylon reads a .babylon file from disk.
func LoadBabylon(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open babylon: %w", err)
	}
	defer f.Close()
	return DecodeBabylon(f)
}

// DecodeBabylon decodes every mesh in a .babylon JSON document.
func DecodeBabylon(r io.Reader) ([]*Mesh, error) {
	var file babylonFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode babylon: %w", err)
	}

	meshes := make([]*Mesh, 0, len(file.Meshes))
	for i, bm := range file.Meshes {
		m, err := bm.toMesh()
		if err != nil {
			name := bm.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("babylon mesh %s: %w", name, err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func (bm babylonMesh) toMesh() (*Mesh, error) {
	m := NewMesh(bm.Name)

	var err error
	if len(bm.Positions) > 0 {
		err = bm.readSplit(m)
	} else {
		err = bm.readInterleaved(m)
	}
	if err != nil {
		return nil, err
	}

	if len(bm.Indices)%3 != 0 {
		return nil, fmt.Errorf("%d indices is not a multiple of 3", len(bm.Indices))
	}
	for i := 0; i < len(bm.Indices); i += 3 {
		m.Faces = append(m.Faces, Face{A: bm.Indices[i], B: bm.Indices[i+1], C: bm.Indices[i+2]})
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if p, ok := vec3From(bm.Position); ok {
		m.Position = p
	}
	if r, ok := vec3From(bm.Rotation); ok {
		m.Rotation = r
	}
	if len(bm.Color) >= 3 {
		m.Color.R = unitToByte(bm.Color[0])
		m.Color.G = unitToByte(bm.Color[1])
		m.Color.B = unitToByte(bm.Color[2])
	}

	if !m.HasNormals() {
		m.CalculateSmoothNormals()
	}
	m.CalculateBounds()
	return m, nil
}

// readInterleaved decodes position[3] normal[3] followed by uvCount pairs of
// texture coordinates, which are skipped.
func (bm babylonMesh) readInterleaved(m *Mesh) error {
	if bm.UVCount < 0 || bm.UVCount > 2 {
		return fmt.Errorf("unsupported uvCount %d", bm.UVCount)
	}
	stride := 6 + 2*bm.UVCount
	if len(bm.Vertices)%stride != 0 {
		return fmt.Errorf("%d vertex floats is not a multiple of stride %d", len(bm.Vertices), stride)
	}

	for i := 0; i < len(bm.Vertices); i += stride {
		v := bm.Vertices[i : i+stride]
		m.Vertices = append(m.Vertices, MeshVertex{
			Position: math3d.V3(v[0], v[1], v[2]),
			Normal:   math3d.V3(v[3], v[4], v[5]),
		})
	}
	return nil
}

func (bm babylonMesh) readSplit(m *Mesh) error {
	if len(bm.Positions)%3 != 0 {
		return fmt.Errorf("%d position floats is not a multiple of 3", len(bm.Positions))
	}
	count := len(bm.Positions) / 3
	withNormals := len(bm.Normals) == len(bm.Positions)
	if len(bm.Normals) > 0 && !withNormals {
		return fmt.Errorf("%d normal floats for %d positions", len(bm.Normals), count)
	}

	for i := range count {
		v := MeshVertex{Position: math3d.V3(bm.Positions[i*3], bm.Positions[i*3+1], bm.Positions[i*3+2])}
		if withNormals {
			v.Normal = math3d.V3(bm.Normals[i*3], bm.Normals[i*3+1], bm.Normals[i*3+2])
		}
		m.Vertices = append(m.Vertices, v)
	}
	return nil
}

func vec3From(v []float64) (math3d.Vec3, bool) {
	if len(v) < 3 {
		return math3d.Vec3{}, false
	}
	return math3d.V3(v[0], v[1], v[2]), true
}

func unitToByte(c float64) uint8 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(c*255 + 0.5)
}
