// Package voxmesh converts a sparse voxel world into renderable triangle
// geometry, incrementally and under a per-tick chunk budget. The Engine type
// wires the voxel store, the greedy mesher's scheduler and the terrain
// generator together; hosts that need finer control can assemble the
// subpackages themselves.
package voxmesh

import (
	"github.com/prometheus/client_golang/prometheus"

	"voxmesh/config"
	"voxmesh/sched"
	"voxmesh/voxel"
	"voxmesh/worldgen"
)

type Engine struct {
	World     *voxel.Map
	Scheduler *sched.Scheduler
	Generator *worldgen.Generator
}

// NewEngine builds a ready-to-tick engine from a validated configuration.
// apply receives every finished (chunk, mesh) pair; reg may be nil.
func NewEngine(cfg config.Config, apply sched.ApplyFunc, reg prometheus.Registerer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	world := voxel.NewMap()
	scheduler, err := sched.New(world, apply, sched.Options{
		Budget:     cfg.Meshing.BudgetPerTick,
		Workers:    cfg.Meshing.Workers,
		UnitScale:  cfg.Meshing.UnitScale,
		TexelScale: cfg.Meshing.TexelScale,
		Registerer: reg,
	})
	if err != nil {
		return nil, err
	}
	return &Engine{
		World:     world,
		Scheduler: scheduler,
		Generator: worldgen.New(cfg.World.Seed, cfg.World.NoiseScale, cfg.World.HeightScale),
	}, nil
}

// GenerateRegion fills the inclusive chunk grid region [min, max] with
// generated terrain and queues every chunk for meshing.
func (e *Engine) GenerateRegion(min, max voxel.Int3) error {
	return e.Generator.Fill(e.World, min, max, e.Scheduler.MarkDirty)
}

// SetVoxel edits one cell addressed in world space and queues the affected
// chunks for remeshing. Since chunk buffers duplicate their neighbors'
// boundary cells in the padding border, an edit on a chunk face is written
// through to every loaded neighbor that mirrors the cell. Returns false if
// the owning chunk is not loaded.
func (e *Engine) SetVoxel(world voxel.Int3, v voxel.Voxel) bool {
	chunkPos, local := voxel.WorldToChunk(world)
	if !e.World.Mutate(chunkPos, func(buffer *voxel.ChunkBuffer) {
		buffer.SetLocal(local.X, local.Y, local.Z, v)
	}) {
		return false
	}
	e.Scheduler.MarkDirty(chunkPos)

	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				// The cell's coordinate inside the neighbor's padded volume.
				pi := local.X + voxel.CHUNK_PADDING - dx*voxel.CHUNK_SIZE
				pj := local.Y + voxel.CHUNK_PADDING - dy*voxel.CHUNK_SIZE
				pk := local.Z + voxel.CHUNK_PADDING - dz*voxel.CHUNK_SIZE
				if !voxel.Contains(pi, pj, pk) {
					continue
				}
				neighbor := chunkPos.Add(voxel.Int3{X: dx, Y: dy, Z: dz})
				if e.World.Mutate(neighbor, func(buffer *voxel.ChunkBuffer) {
					buffer.Set(pi, pj, pk, v)
				}) {
					e.Scheduler.MarkDirty(neighbor)
				}
			}
		}
	}
	return true
}

// Tick runs one budgeted meshing pass. See sched.Scheduler.Tick.
func (e *Engine) Tick() int {
	return e.Scheduler.Tick()
}

func (e *Engine) Close() {
	e.Scheduler.Close()
}
