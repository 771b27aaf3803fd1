package mesher

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Mesh is the triangle geometry produced for one chunk. Normals and UVs are
// index-aligned with Positions; Indices reference positions in groups of
// three.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Indices   []uint32
}

func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0 && len(m.Indices) == 0
}

// Validate checks the structural invariants of the mesh. A failure here can
// only come from a meshing bug, never from voxel input.
func (m *Mesh) Validate() error {
	if len(m.Normals) != len(m.Positions) || len(m.UVs) != len(m.Positions) {
		return errors.Errorf("mesh: attribute counts diverge: %d positions, %d normals, %d uvs",
			len(m.Positions), len(m.Normals), len(m.UVs))
	}
	if len(m.Indices)%3 != 0 {
		return errors.Errorf("mesh: index count %d is not a multiple of 3", len(m.Indices))
	}
	vertexCount := uint32(len(m.Positions))
	for _, index := range m.Indices {
		if index >= vertexCount {
			return errors.Errorf("mesh: index %d out of range, have %d vertices", index, vertexCount)
		}
	}
	return nil
}
