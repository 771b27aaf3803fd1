package sched

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxmesh/mesher"
	"voxmesh/voxel"
)

type meshCollector struct {
	mu     sync.Mutex
	meshes map[voxel.Int3]*mesher.Mesh
}

func newCollector() *meshCollector {
	return &meshCollector{meshes: make(map[voxel.Int3]*mesher.Mesh)}
}

func (c *meshCollector) apply(pos voxel.Int3, mesh *mesher.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meshes[pos] = mesh
}

func (c *meshCollector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.meshes)
}

func solidChunk() *voxel.ChunkBuffer {
	buffer := voxel.NewChunkBuffer()
	buffer.SetLocal(3, 3, 3, voxel.Voxel(1))
	return buffer
}

func newTestScheduler(t *testing.T, world *voxel.Map, collector *meshCollector, opts Options) *Scheduler {
	t.Helper()
	scheduler, err := New(world, collector.apply, opts)
	require.NoError(t, err)
	t.Cleanup(scheduler.Close)
	return scheduler
}

func TestConstructionValidation(t *testing.T) {
	world := voxel.NewMap()
	apply := func(voxel.Int3, *mesher.Mesh) {}

	_, err := New(nil, apply, Options{})
	assert.Error(t, err)
	_, err = New(world, nil, Options{})
	assert.Error(t, err)
	_, err = New(world, apply, Options{Budget: -1})
	assert.Error(t, err)
	_, err = New(world, apply, Options{Workers: -2})
	assert.Error(t, err)
	_, err = New(world, apply, Options{UnitScale: -0.5})
	assert.Error(t, err)

	scheduler, err := New(world, apply, Options{})
	require.NoError(t, err)
	defer scheduler.Close()
	assert.Equal(t, DefaultBudget, scheduler.Budget())
}

func TestMarkDirtyIsIdempotent(t *testing.T) {
	collector := newCollector()
	scheduler := newTestScheduler(t, voxel.NewMap(), collector, Options{Workers: 2})

	pos := voxel.Int3{X: 1}
	scheduler.MarkDirty(pos)
	scheduler.MarkDirty(pos)
	scheduler.MarkDirty(pos)
	assert.Equal(t, 1, scheduler.DirtyCount())
}

func TestBudgetConservation(t *testing.T) {
	world := voxel.NewMap()
	collector := newCollector()
	scheduler := newTestScheduler(t, world, collector, Options{Budget: 16, Workers: 4})

	const total = 40
	for x := int32(0); x < total; x++ {
		pos := voxel.Int3{X: x}
		world.Insert(pos, solidChunk())
		scheduler.MarkDirty(pos)
	}

	applied := scheduler.Tick()
	assert.Equal(t, 16, applied)
	assert.Equal(t, total-16, scheduler.DirtyCount())
	assert.Equal(t, 16, collector.len())

	// Selection is FIFO by mark order.
	for x := int32(0); x < 16; x++ {
		collector.mu.Lock()
		_, ok := collector.meshes[voxel.Int3{X: x}]
		collector.mu.Unlock()
		assert.True(t, ok, "chunk %d should have been in the first batch", x)
	}

	applied = scheduler.Tick()
	assert.Equal(t, 16, applied)
	applied = scheduler.Tick()
	assert.Equal(t, 8, applied)
	assert.Equal(t, 0, scheduler.DirtyCount())
	assert.Equal(t, total, collector.len())

	assert.Equal(t, 0, scheduler.Tick())
}

func TestRedirtyDuringFlightIsNotLost(t *testing.T) {
	world := voxel.NewMap()
	pos := voxel.Int3{X: 5}
	world.Insert(pos, solidChunk())

	var scheduler *Scheduler
	applied := 0
	apply := func(p voxel.Int3, mesh *mesher.Mesh) {
		applied++
		// The update races the in-flight result: it must survive the apply.
		scheduler.MarkDirty(p)
	}

	scheduler, err := New(world, apply, Options{Workers: 2})
	require.NoError(t, err)
	defer scheduler.Close()

	scheduler.MarkDirty(pos)
	assert.Equal(t, 1, scheduler.Tick())
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, scheduler.DirtyCount(), "re-dirtied chunk must stay queued")
}

func TestUnloadedChunkIsSkippedSilently(t *testing.T) {
	world := voxel.NewMap()
	collector := newCollector()
	scheduler := newTestScheduler(t, world, collector, Options{Workers: 2})

	pos := voxel.Int3{X: 2}
	world.Insert(pos, solidChunk())
	scheduler.MarkDirty(pos)
	world.Remove(pos)

	assert.Equal(t, 0, scheduler.Tick())
	assert.Equal(t, 0, collector.len())
	assert.Equal(t, 0, scheduler.DirtyCount())

	// A reload can re-trigger meshing.
	world.Insert(pos, solidChunk())
	scheduler.MarkDirty(pos)
	assert.Equal(t, 1, scheduler.Tick())
	assert.Equal(t, 1, collector.len())
}

func TestSetBudget(t *testing.T) {
	world := voxel.NewMap()
	collector := newCollector()
	scheduler := newTestScheduler(t, world, collector, Options{Workers: 2})

	assert.Error(t, scheduler.SetBudget(0))
	assert.Error(t, scheduler.SetBudget(-3))
	assert.Equal(t, DefaultBudget, scheduler.Budget())

	require.NoError(t, scheduler.SetBudget(2))
	for x := int32(0); x < 5; x++ {
		pos := voxel.Int3{X: x}
		world.Insert(pos, solidChunk())
		scheduler.MarkDirty(pos)
	}
	assert.Equal(t, 2, scheduler.Tick())
	assert.Equal(t, 3, scheduler.DirtyCount())
}

func TestSchedulerMatchesDirectMeshing(t *testing.T) {
	world := voxel.NewMap()
	collector := newCollector()
	scheduler := newTestScheduler(t, world, collector, Options{Workers: 4})

	buffer := voxel.NewChunkBuffer()
	buffer.SetLocal(0, 0, 0, voxel.Voxel(1))
	buffer.SetLocal(1, 0, 0, voxel.Voxel(1))
	pos := voxel.Int3{X: 1, Y: 2, Z: 3}
	world.Insert(pos, buffer)

	scheduler.MarkDirty(pos)
	require.Equal(t, 1, scheduler.Tick())

	want := mesher.Greedy(buffer, mesher.NewBuffers(), 1, 1)
	got := collector.meshes[pos]
	require.NotNil(t, got)
	assert.Equal(t, want.Positions, got.Positions)
	assert.Equal(t, want.Indices, got.Indices)
}

func TestParallelTickMeshesEverything(t *testing.T) {
	world := voxel.NewMap()
	collector := newCollector()
	scheduler := newTestScheduler(t, world, collector, Options{Budget: 128, Workers: 4})

	const total = 100
	for x := int32(0); x < total; x++ {
		pos := voxel.Int3{X: x}
		world.Insert(pos, solidChunk())
		scheduler.MarkDirty(pos)
	}

	assert.Equal(t, total, scheduler.Tick())
	assert.Equal(t, total, collector.len())
	for _, mesh := range collector.meshes {
		require.NoError(t, mesh.Validate())
		assert.Equal(t, 12, mesh.TriangleCount())
	}
}

func TestMetricsRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	world := voxel.NewMap()
	collector := newCollector()
	scheduler := newTestScheduler(t, world, collector, Options{Workers: 2, Registerer: reg})

	pos := voxel.Int3{}
	world.Insert(pos, solidChunk())
	scheduler.MarkDirty(pos)
	scheduler.Tick()

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "voxmesh_chunks_meshed_total")
	assert.Contains(t, names, "voxmesh_dirty_chunks")
	assert.Contains(t, names, "voxmesh_mesh_duration_seconds")
}
