package voxel

import "github.com/pkg/errors"

// ChunkBuffer is the dense voxel storage for one chunk, padding border
// included. The zero value is an all-empty chunk.
type ChunkBuffer struct {
	data [PADDED_SIZE_CUBED]Voxel
}

func NewChunkBuffer() *ChunkBuffer {
	return &ChunkBuffer{}
}

// At reads a cell by padded-volume coordinate.
func (b *ChunkBuffer) At(i, j, k int32) Voxel {
	return b.data[BlockIndex(i, j, k)]
}

// Set writes a cell by padded-volume coordinate.
func (b *ChunkBuffer) Set(i, j, k int32, v Voxel) {
	b.data[BlockIndex(i, j, k)] = v
}

// AtLocal reads a real cell by chunk-local coordinate (0..CHUNK_SIZE-1).
func (b *ChunkBuffer) AtLocal(x, y, z int32) Voxel {
	return b.data[BlockIndex(x+CHUNK_PADDING, y+CHUNK_PADDING, z+CHUNK_PADDING)]
}

// SetLocal writes a real cell by chunk-local coordinate.
func (b *ChunkBuffer) SetLocal(x, y, z int32, v Voxel) {
	b.data[BlockIndex(x+CHUNK_PADDING, y+CHUNK_PADDING, z+CHUNK_PADDING)] = v
}

// FillLocal sets every real cell to v, leaving the padding border untouched.
func (b *ChunkBuffer) FillLocal(v Voxel) {
	for z := int32(0); z < CHUNK_SIZE; z++ {
		for y := int32(0); y < CHUNK_SIZE; y++ {
			for x := int32(0); x < CHUNK_SIZE; x++ {
				b.SetLocal(x, y, z, v)
			}
		}
	}
}

// Clone returns an independent copy of the buffer.
func (b *ChunkBuffer) Clone() *ChunkBuffer {
	cp := *b
	return &cp
}

// Bytes copies the padded voxel contents out as raw bytes, in flat index
// order. Used by snapshot encoding.
func (b *ChunkBuffer) Bytes() []byte {
	out := make([]byte, PADDED_SIZE_CUBED)
	for i, v := range b.data {
		out[i] = byte(v)
	}
	return out
}

// LoadBytes restores the padded voxel contents from raw bytes produced by
// Bytes.
func (b *ChunkBuffer) LoadBytes(data []byte) error {
	if int32(len(data)) != PADDED_SIZE_CUBED {
		return errors.Errorf("chunk buffer: want %d bytes, got %d", PADDED_SIZE_CUBED, len(data))
	}
	for i, raw := range data {
		b.data[i] = Voxel(raw)
	}
	return nil
}
