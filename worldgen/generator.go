package worldgen

import (
	"runtime"

	"github.com/aquilax/go-perlin"
	"golang.org/x/sync/errgroup"

	"voxmesh/voxel"
)

// Terrain materials.
const (
	Stone voxel.Voxel = 1
	Dirt  voxel.Voxel = 2
	Grass voxel.Voxel = 3
)

const (
	noiseAlpha   = 2.0
	noiseBeta    = 2.0
	noiseOctaves = 3
)

// Generator produces deterministic heightmap terrain from perlin noise.
// Because cells are sampled in world space, the padding border of every
// generated buffer matches the real content of the neighboring chunks.
type Generator struct {
	seed        int64
	noise       *perlin.Perlin
	noiseScale  float64
	heightScale float64
}

func New(seed int64, noiseScale, heightScale float64) *Generator {
	return &Generator{
		seed:        seed,
		noise:       perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		noiseScale:  noiseScale,
		heightScale: heightScale,
	}
}

// HeightAt returns the terrain surface height for a world column. Always at
// least 1, so every column has a floor.
func (g *Generator) HeightAt(wx, wz int32) int32 {
	n := g.noise.Noise2D(float64(wx)*g.noiseScale, float64(wz)*g.noiseScale)
	return int32((n+1.0)/2.0*g.heightScale) + 1
}

// ChunkAt generates the full padded buffer for one chunk grid position.
func (g *Generator) ChunkAt(pos voxel.Int3) *voxel.ChunkBuffer {
	buffer := voxel.NewChunkBuffer()
	origin := pos.Mul(voxel.CHUNK_SIZE)
	for k := int32(0); k < voxel.PADDED_SIZE; k++ {
		wz := origin.Z + k - voxel.CHUNK_PADDING
		for i := int32(0); i < voxel.PADDED_SIZE; i++ {
			wx := origin.X + i - voxel.CHUNK_PADDING
			height := g.HeightAt(wx, wz)
			for j := int32(0); j < voxel.PADDED_SIZE; j++ {
				wy := origin.Y + j - voxel.CHUNK_PADDING
				if wy >= height {
					break
				}
				buffer.Set(i, j, k, g.material(wy, height))
			}
		}
	}
	return buffer
}

func (g *Generator) material(wy, height int32) voxel.Voxel {
	switch {
	case wy == height-1:
		return Grass
	case wy >= height-4:
		return Dirt
	default:
		return Stone
	}
}

// Fill generates every chunk in the inclusive grid region [min, max] in
// parallel, inserts the buffers into the map and reports each finished
// chunk through onChunk (typically the scheduler's MarkDirty).
func (g *Generator) Fill(world *voxel.Map, min, max voxel.Int3, onChunk func(voxel.Int3)) error {
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for z := min.Z; z <= max.Z; z++ {
		for y := min.Y; y <= max.Y; y++ {
			for x := min.X; x <= max.X; x++ {
				pos := voxel.Int3{X: x, Y: y, Z: z}
				eg.Go(func() error {
					world.Insert(pos, g.ChunkAt(pos))
					if onChunk != nil {
						onChunk(pos)
					}
					return nil
				})
			}
		}
	}
	return eg.Wait()
}
