package voxel

// Voxel identifies the material occupying a single cell. The zero value is
// EMPTY: no geometry, invisible to neighbor visibility checks.
type Voxel uint8

const (
	EMPTY Voxel = 0

	CHUNK_SIZE    int32 = 16
	CHUNK_PADDING int32 = 1

	// Chunk buffers carry a one-cell border on every side so face visibility
	// at the chunk boundary can be answered without cross-chunk lookups.
	PADDED_SIZE         int32 = CHUNK_SIZE + 2*CHUNK_PADDING
	PADDED_SIZE_SQUARED int32 = PADDED_SIZE * PADDED_SIZE
	PADDED_SIZE_CUBED   int32 = PADDED_SIZE_SQUARED * PADDED_SIZE
)

func (v Voxel) IsEmpty() bool {
	return v == EMPTY
}

// BlockIndex maps a padded-volume coordinate to its flat storage index.
// Coordinates must lie in [0, PADDED_SIZE); the mapping is injective over
// that range. Feeding it anything else is a bug in the caller.
func BlockIndex(i, j, k int32) int32 {
	return i + j*PADDED_SIZE + k*PADDED_SIZE_SQUARED
}

// Contains reports whether a padded-volume coordinate is addressable.
func Contains(i, j, k int32) bool {
	return i >= 0 && i < PADDED_SIZE && j >= 0 && j < PADDED_SIZE && k >= 0 && k < PADDED_SIZE
}

// ContainsLocal reports whether a chunk-local coordinate hits a real cell,
// excluding the padding border.
func ContainsLocal(x, y, z int32) bool {
	return x >= 0 && x < CHUNK_SIZE && y >= 0 && y < CHUNK_SIZE && z >= 0 && z < CHUNK_SIZE
}

// WorldToChunk splits a world-space cell position into the grid position of
// the chunk holding it and the cell's chunk-local coordinate.
func WorldToChunk(world Int3) (Int3, Int3) {
	chunk := Int3{
		X: floorDiv(world.X, CHUNK_SIZE),
		Y: floorDiv(world.Y, CHUNK_SIZE),
		Z: floorDiv(world.Z, CHUNK_SIZE),
	}
	local := world.Sub(chunk.Mul(CHUNK_SIZE))
	return chunk, local
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
