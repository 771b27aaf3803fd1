package mesher

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxmesh/voxel"
)

// faceDir enumerates the six axis-aligned face directions. The order fixes
// the canonical emission order of the mesher.
type faceDir int32

const (
	faceXN faceDir = iota
	faceXP
	faceYN
	faceYP
	faceZN
	faceZP
)

func (d faceDir) axis() int32 {
	return int32(d) / 2
}

func (d faceDir) positive() bool {
	return int32(d)%2 == 1
}

var faceNormals = [6]mgl32.Vec3{
	{-1, 0, 0},
	{1, 0, 0},
	{0, -1, 0},
	{0, 1, 0},
	{0, 0, -1},
	{0, 0, 1},
}

// Greedy turns one chunk's voxel buffer into a triangle mesh. For each of
// the six face directions it sweeps the chunk slice by slice, masks cells
// whose neighbor in the sweep direction is empty (the padding border answers
// that test at the chunk boundary) and merges same-voxel mask runs into
// maximal rectangles, one quad each.
//
// Positions are integer grid corners multiplied by unitScale; UVs span the
// quad's in-slice extents multiplied by texelScale. An all-empty buffer
// yields an empty mesh. The result is independent of scratch, which only
// serves to keep steady-state meshing allocation-free.
func Greedy(buffer *voxel.ChunkBuffer, scratch *Buffers, unitScale, texelScale float32) *Mesh {
	scratch.reset()

	size := voxel.CHUNK_SIZE
	for dir := faceXN; dir <= faceZP; dir++ {
		axis := dir.axis()
		u := (axis + 1) % 3
		v := (axis + 2) % 3

		var step [3]int32
		if dir.positive() {
			step[axis] = 1
		} else {
			step[axis] = -1
		}

		var cell [3]int32
		for layer := int32(0); layer < size; layer++ {
			cell[axis] = layer

			// Build the slice mask: exposed faces and their voxel identity.
			n := int32(0)
			for jv := int32(0); jv < size; jv++ {
				cell[v] = jv
				for iu := int32(0); iu < size; iu++ {
					cell[u] = iu
					entry := maskCell{}
					vox := buffer.AtLocal(cell[0], cell[1], cell[2])
					if !vox.IsEmpty() {
						neighbor := buffer.At(
							cell[0]+step[0]+voxel.CHUNK_PADDING,
							cell[1]+step[1]+voxel.CHUNK_PADDING,
							cell[2]+step[2]+voxel.CHUNK_PADDING,
						)
						if neighbor.IsEmpty() {
							entry = maskCell{voxel: vox, face: true}
						}
					}
					scratch.mask[n] = entry
					n++
				}
			}

			// Scan-line rectangle growth over the mask.
			n = 0
			for jv := int32(0); jv < size; jv++ {
				for iu := int32(0); iu < size; {
					start := scratch.mask[n]
					if !start.face {
						iu++
						n++
						continue
					}

					w := int32(1)
					for iu+w < size {
						next := scratch.mask[n+w]
						if !next.face || next.voxel != start.voxel {
							break
						}
						w++
					}

					h := int32(1)
				growth:
					for jv+h < size {
						for k := int32(0); k < w; k++ {
							candidate := scratch.mask[n+k+h*size]
							if !candidate.face || candidate.voxel != start.voxel {
								break growth
							}
						}
						h++
					}

					scratch.quads = append(scratch.quads, quad{
						dir:   dir,
						layer: layer,
						u0:    iu,
						v0:    jv,
						w:     w,
						h:     h,
					})

					for l := int32(0); l < h; l++ {
						for k := int32(0); k < w; k++ {
							scratch.mask[n+k+l*size].face = false
						}
					}

					iu += w
					n += w
				}
			}
		}
	}

	for _, q := range scratch.quads {
		appendQuad(scratch, q, unitScale, texelScale)
	}

	mesh := &Mesh{
		Positions: append([]mgl32.Vec3(nil), scratch.positions...),
		Normals:   append([]mgl32.Vec3(nil), scratch.normals...),
		UVs:       append([]mgl32.Vec2(nil), scratch.uvs...),
		Indices:   append([]uint32(nil), scratch.indices...),
	}
	return mesh
}

// appendQuad emits 4 vertices and 6 indices for one merged rectangle into
// the scratch accumulators. Winding is counter-clockwise seen from outside
// the surface.
func appendQuad(scratch *Buffers, q quad, unitScale, texelScale float32) {
	axis := q.dir.axis()
	u := (axis + 1) % 3
	v := (axis + 2) % 3

	plane := q.layer
	if q.dir.positive() {
		plane++
	}

	var base, du, dv [3]int32
	base[axis] = plane
	base[u] = q.u0
	base[v] = q.v0
	du[u] = q.w
	dv[v] = q.h

	corners := [4][3]int32{
		base,
		{base[0] + du[0], base[1] + du[1], base[2] + du[2]},
		{base[0] + du[0] + dv[0], base[1] + du[1] + dv[1], base[2] + du[2] + dv[2]},
		{base[0] + dv[0], base[1] + dv[1], base[2] + dv[2]},
	}
	uvs := [4]mgl32.Vec2{
		{0, 0},
		{float32(q.w) * texelScale, 0},
		{float32(q.w) * texelScale, float32(q.h) * texelScale},
		{0, float32(q.h) * texelScale},
	}

	normal := faceNormals[q.dir]
	baseIndex := uint32(len(scratch.positions))
	for i := 0; i < 4; i++ {
		corner := corners[i]
		scratch.positions = append(scratch.positions, mgl32.Vec3{
			float32(corner[0]) * unitScale,
			float32(corner[1]) * unitScale,
			float32(corner[2]) * unitScale,
		})
		scratch.normals = append(scratch.normals, normal)
		scratch.uvs = append(scratch.uvs, uvs[i])
	}

	// (e_u, e_v, e_axis) is right-handed, so the corner loop is CCW seen
	// from the positive side of the axis. Negative faces flip.
	if q.dir.positive() {
		scratch.indices = append(scratch.indices,
			baseIndex, baseIndex+1, baseIndex+2,
			baseIndex, baseIndex+2, baseIndex+3,
		)
	} else {
		scratch.indices = append(scratch.indices,
			baseIndex, baseIndex+2, baseIndex+1,
			baseIndex, baseIndex+3, baseIndex+2,
		)
	}
}
