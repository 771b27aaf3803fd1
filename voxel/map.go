package voxel

import "sync"

// Map is the sparse chunk store: chunk grid position -> voxel buffer. It
// exclusively owns every buffer it holds. Reads are safe from any number of
// goroutines; Mutate swaps in an edited copy instead of writing in place, so
// a buffer handed out by BufferAt stays stable for as long as the reader
// holds it.
type Map struct {
	mu     sync.RWMutex
	chunks map[Int3]*ChunkBuffer
}

func NewMap() *Map {
	return &Map{
		chunks: make(map[Int3]*ChunkBuffer),
	}
}

// BufferAt returns the buffer for a chunk position, or nil if that chunk is
// not loaded. The returned buffer must be treated as read-only.
func (m *Map) BufferAt(pos Int3) *ChunkBuffer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chunks[pos]
}

// Contains reports whether a chunk is currently loaded.
func (m *Map) Contains(pos Int3) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.chunks[pos]
	return ok
}

// Insert stores a fully populated buffer for a chunk position, replacing any
// previous one. The map takes ownership of the buffer.
func (m *Map) Insert(pos Int3, buffer *ChunkBuffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[pos] = buffer
}

// Remove unloads a chunk and returns its buffer, or nil if it was not
// loaded. Readers that already hold the buffer keep a valid snapshot.
func (m *Map) Remove(pos Int3) *ChunkBuffer {
	m.mu.Lock()
	defer m.mu.Unlock()
	buffer := m.chunks[pos]
	delete(m.chunks, pos)
	return buffer
}

// Mutate applies an edit to a chunk's contents. The edit runs on a copy
// which is swapped in afterwards, so concurrent meshing of the previous
// contents is never torn mid-pass. Returns false if the chunk is not loaded.
func (m *Map) Mutate(pos Int3, edit func(*ChunkBuffer)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	buffer, ok := m.chunks[pos]
	if !ok {
		return false
	}
	next := buffer.Clone()
	edit(next)
	m.chunks[pos] = next
	return true
}

// Len returns the number of loaded chunks.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks)
}

// ForEach calls visit for every loaded chunk. The iteration order is not
// defined. The map lock is held for the duration, so visit must not call
// back into the map.
func (m *Map) ForEach(visit func(Int3, *ChunkBuffer)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for pos, buffer := range m.chunks {
		visit(pos, buffer)
	}
}

// Positions returns the grid positions of all loaded chunks.
func (m *Map) Positions() []Int3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Int3, 0, len(m.chunks))
	for pos := range m.chunks {
		out = append(out, pos)
	}
	return out
}
