package sched

import (
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"voxmesh/mesher"
	"voxmesh/util"
	"voxmesh/voxel"
)

// DefaultBudget is the number of chunks remeshed per tick when the host
// does not configure one.
const DefaultBudget = 16

// ApplyFunc receives one finished mesh per meshed chunk. The host uploads
// it into its renderable store. Called from Tick's goroutine only.
type ApplyFunc func(pos voxel.Int3, mesh *mesher.Mesh)

// Options tunes a Scheduler. Zero fields fall back to defaults; explicitly
// negative or out-of-range values are rejected at construction.
type Options struct {
	// Budget caps how many dirty chunks one Tick will remesh.
	Budget int
	// Workers is the size of the meshing worker pool.
	Workers int
	// UnitScale multiplies every emitted vertex position.
	UnitScale float32
	// TexelScale multiplies every emitted UV extent.
	TexelScale float32
	// Registerer, when set, receives the scheduler's metric collectors.
	Registerer prometheus.Registerer
}

// Scheduler tracks which chunks need remeshing and converts a bounded batch
// of them into meshes per tick. Selection and result application run on the
// caller's goroutine; only the meshing itself is parallel. Tick must not be
// called concurrently with itself, while MarkDirty is safe from anywhere.
type Scheduler struct {
	world *voxel.Map
	apply ApplyFunc

	pool    pond.Pool
	scratch chan *mesher.Buffers

	unitScale  float32
	texelScale float32

	mu       sync.Mutex
	budget   int
	dirty    map[voxel.Int3]struct{}
	queue    []voxel.Int3
	inFlight map[voxel.Int3]struct{}

	metrics *metrics
}

func New(world *voxel.Map, apply ApplyFunc, opts Options) (*Scheduler, error) {
	if world == nil {
		return nil, errors.New("sched: nil voxel map")
	}
	if apply == nil {
		return nil, errors.New("sched: nil apply func")
	}
	if opts.Budget == 0 {
		opts.Budget = DefaultBudget
	}
	if opts.Budget < 0 {
		return nil, errors.Errorf("sched: budget must be positive, got %d", opts.Budget)
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Workers < 0 {
		return nil, errors.Errorf("sched: workers must be positive, got %d", opts.Workers)
	}
	if opts.UnitScale == 0 {
		opts.UnitScale = 1
	}
	if opts.TexelScale == 0 {
		opts.TexelScale = 1
	}
	if opts.UnitScale < 0 || opts.TexelScale < 0 {
		return nil, errors.Errorf("sched: scales must be positive, got unit %g texel %g",
			opts.UnitScale, opts.TexelScale)
	}

	scratch := make(chan *mesher.Buffers, opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		scratch <- mesher.NewBuffers()
	}

	return &Scheduler{
		world:      world,
		apply:      apply,
		pool:       pond.NewPool(opts.Workers),
		scratch:    scratch,
		unitScale:  opts.UnitScale,
		texelScale: opts.TexelScale,
		budget:     opts.Budget,
		dirty:      make(map[voxel.Int3]struct{}),
		inFlight:   make(map[voxel.Int3]struct{}),
		metrics:    newMetrics(opts.Registerer),
	}, nil
}

// MarkDirty queues a chunk for remeshing. Idempotent: a chunk already
// waiting is not queued twice. Marking a chunk whose mesh is currently in
// flight queues it again for the next tick.
func (s *Scheduler) MarkDirty(pos voxel.Int3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, waiting := s.dirty[pos]; waiting {
		return
	}
	s.dirty[pos] = struct{}{}
	s.queue = append(s.queue, pos)
	s.metrics.dirtyDepth.Set(float64(len(s.dirty)))
}

// SetBudget changes the per-tick chunk budget. Non-positive values are a
// configuration error and leave the budget untouched.
func (s *Scheduler) SetBudget(budget int) error {
	if budget <= 0 {
		return errors.Errorf("sched: budget must be positive, got %d", budget)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = budget
	return nil
}

func (s *Scheduler) Budget() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget
}

// DirtyCount returns how many chunks are waiting for a remesh.
func (s *Scheduler) DirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty)
}

type meshingUnit struct {
	pos    voxel.Int3
	buffer *voxel.ChunkBuffer
}

// Tick remeshes up to the configured budget of dirty chunks and returns how
// many meshes were applied. Chunks above the budget stay dirty and carry
// over; chunks unloaded between selection and execution are skipped
// silently. Tick blocks until every unit dispatched this tick has finished.
func (s *Scheduler) Tick() int {
	selected := s.selectDirty()
	if len(selected) == 0 {
		return 0
	}

	units := make([]meshingUnit, 0, len(selected))
	for _, pos := range selected {
		buffer := s.world.BufferAt(pos)
		if buffer == nil {
			// Unloaded after it was marked. A reload will mark it again.
			s.clearInFlight(pos)
			s.metrics.skipped.Inc()
			util.LogSchedulerDebug("[sched] chunk %v gone before dispatch", pos)
			continue
		}
		units = append(units, meshingUnit{pos: pos, buffer: buffer})
	}

	results := make([]*mesher.Mesh, len(units))
	var wg sync.WaitGroup
	for i := range units {
		i := i
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			if s.world.BufferAt(units[i].pos) == nil {
				return
			}
			scratch := <-s.scratch
			started := time.Now()
			results[i] = mesher.Greedy(units[i].buffer, scratch, s.unitScale, s.texelScale)
			s.metrics.meshDuration.Observe(time.Since(started).Seconds())
			s.scratch <- scratch
		})
	}
	wg.Wait()

	applied := 0
	for i := range units {
		pos := units[i].pos
		if mesh := results[i]; mesh != nil {
			s.apply(pos, mesh)
			s.metrics.meshed.Inc()
			applied++
		} else {
			s.metrics.skipped.Inc()
		}
		s.clearInFlight(pos)
	}
	return applied
}

// Close shuts the worker pool down, waiting for running units.
func (s *Scheduler) Close() {
	s.pool.StopAndWait()
}

// selectDirty moves up to budget chunks from the dirty queue into the
// in-flight set, FIFO by mark order.
func (s *Scheduler) selectDirty() []voxel.Int3 {
	s.mu.Lock()
	defer s.mu.Unlock()

	limit := s.budget
	if limit > len(s.queue) {
		limit = len(s.queue)
	}
	if limit == 0 {
		return nil
	}

	selected := make([]voxel.Int3, limit)
	copy(selected, s.queue[:limit])
	s.queue = append(s.queue[:0], s.queue[limit:]...)
	for _, pos := range selected {
		delete(s.dirty, pos)
		s.inFlight[pos] = struct{}{}
	}
	s.metrics.dirtyDepth.Set(float64(len(s.dirty)))
	return selected
}

func (s *Scheduler) clearInFlight(pos voxel.Int3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, pos)
}
