package voxel

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapInsertAndRemove(t *testing.T) {
	world := NewMap()
	pos := Int3{X: 1, Y: 2, Z: 3}

	assert.Nil(t, world.BufferAt(pos))
	assert.False(t, world.Contains(pos))

	buffer := NewChunkBuffer()
	world.Insert(pos, buffer)
	assert.Same(t, buffer, world.BufferAt(pos))
	assert.True(t, world.Contains(pos))
	assert.Equal(t, 1, world.Len())

	removed := world.Remove(pos)
	assert.Same(t, buffer, removed)
	assert.Nil(t, world.BufferAt(pos))
	assert.Equal(t, 0, world.Len())

	assert.Nil(t, world.Remove(pos))
}

func TestMapMutateDoesNotTearReaders(t *testing.T) {
	world := NewMap()
	pos := Int3{}
	world.Insert(pos, NewChunkBuffer())

	snapshot := world.BufferAt(pos)
	require.NotNil(t, snapshot)

	ok := world.Mutate(pos, func(buffer *ChunkBuffer) {
		buffer.SetLocal(0, 0, 0, Voxel(5))
	})
	require.True(t, ok)

	// The reader's snapshot is untouched; the map serves the edited copy.
	assert.Equal(t, EMPTY, snapshot.AtLocal(0, 0, 0))
	assert.Equal(t, Voxel(5), world.BufferAt(pos).AtLocal(0, 0, 0))
}

func TestMapMutateMissingChunk(t *testing.T) {
	world := NewMap()
	called := false
	ok := world.Mutate(Int3{X: 9}, func(*ChunkBuffer) { called = true })
	assert.False(t, ok)
	assert.False(t, called)
}

func TestMapPositions(t *testing.T) {
	world := NewMap()
	want := []Int3{{X: 0}, {X: 1}, {X: 2, Z: -1}}
	for _, pos := range want {
		world.Insert(pos, NewChunkBuffer())
	}
	assert.ElementsMatch(t, want, world.Positions())
}

func TestMapConcurrentReaders(t *testing.T) {
	world := NewMap()
	for x := int32(0); x < 8; x++ {
		world.Insert(Int3{X: x}, NewChunkBuffer())
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				for x := int32(0); x < 8; x++ {
					if buffer := world.BufferAt(Int3{X: x}); buffer != nil {
						_ = buffer.AtLocal(0, 0, 0)
					}
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for n := 0; n < 100; n++ {
			world.Mutate(Int3{X: int32(n % 8)}, func(buffer *ChunkBuffer) {
				buffer.SetLocal(0, 0, 0, Voxel(byte(n)))
			})
		}
	}()
	wg.Wait()
}
