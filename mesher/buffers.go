package mesher

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxmesh/voxel"
)

// maskCell is one entry of the per-slice face mask. face is set when the
// cell's voxel has an exposed face in the direction currently swept;
// merging never joins cells with different voxel identities.
type maskCell struct {
	voxel voxel.Voxel
	face  bool
}

// quad is a merged rectangle pending emission: layer along the sweep axis,
// origin and extents in the two in-slice axes.
type quad struct {
	dir    faceDir
	layer  int32
	u0, v0 int32
	w, h   int32
}

// Buffers is the reusable scratch state for one meshing worker. It carries
// no meaning between calls; Greedy clears it (keeping capacity) on entry.
// A Buffers instance must only ever be used by one goroutine at a time.
type Buffers struct {
	mask      []maskCell
	quads     []quad
	positions []mgl32.Vec3
	normals   []mgl32.Vec3
	uvs       []mgl32.Vec2
	indices   []uint32
}

func NewBuffers() *Buffers {
	return &Buffers{
		mask:      make([]maskCell, voxel.CHUNK_SIZE*voxel.CHUNK_SIZE),
		quads:     make([]quad, 0, 512),
		positions: make([]mgl32.Vec3, 0, 2048),
		normals:   make([]mgl32.Vec3, 0, 2048),
		uvs:       make([]mgl32.Vec2, 0, 2048),
		indices:   make([]uint32, 0, 3072),
	}
}

func (b *Buffers) reset() {
	// The mask needs no clearing: every slice pass overwrites all of it.
	b.quads = b.quads[:0]
	b.positions = b.positions[:0]
	b.normals = b.normals[:0]
	b.uvs = b.uvs[:0]
	b.indices = b.indices[:0]
}
