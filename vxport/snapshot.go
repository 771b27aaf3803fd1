package vxport

import (
	"os"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"voxmesh/util"
	"voxmesh/voxel"
)

// Snapshot file layout: a zstd stream wrapping one NBT compound.
//
//	TAG_Compound({
//	    "version":    TAG_Byte(),
//	    "chunk_size": TAG_Int(),
//	    "chunks": TAG_List([
//	        TAG_Compound({
//	            "x": TAG_Int(), "y": TAG_Int(), "z": TAG_Int(),
//	            "voxels": TAG_Byte_Array()   // padded buffer, flat index order
//	        })
//	        ...
//	    ])
//	})
const snapshotVersion byte = 1

type snapshotChunk struct {
	X      int32  `nbt:"x"`
	Y      int32  `nbt:"y"`
	Z      int32  `nbt:"z"`
	Voxels []byte `nbt:"voxels"`
}

type snapshot struct {
	Version   byte            `nbt:"version"`
	ChunkSize int32           `nbt:"chunk_size"`
	Chunks    []snapshotChunk `nbt:"chunks"`
}

// SaveSnapshot persists the voxel contents of every loaded chunk. Mesh data
// is never persisted; a load remeshes from voxels.
func SaveSnapshot(path string, world *voxel.Map) error {
	snap := snapshot{
		Version:   snapshotVersion,
		ChunkSize: voxel.CHUNK_SIZE,
		Chunks:    make([]snapshotChunk, 0, world.Len()),
	}
	world.ForEach(func(pos voxel.Int3, buffer *voxel.ChunkBuffer) {
		snap.Chunks = append(snap.Chunks, snapshotChunk{
			X:      pos.X,
			Y:      pos.Y,
			Z:      pos.Z,
			Voxels: buffer.Bytes(),
		})
	})

	outfile, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "snapshot")
	}
	defer outfile.Close()

	zw, err := zstd.NewWriter(outfile)
	if err != nil {
		return errors.Wrap(err, "snapshot")
	}
	if err := nbt.NewEncoder(zw).Encode(snap, ""); err != nil {
		zw.Close()
		return errors.Wrapf(err, "snapshot %s", path)
	}
	if err := zw.Close(); err != nil {
		return errors.Wrapf(err, "snapshot %s", path)
	}
	util.LogIOInfo("[snapshot] saved %d chunks to %s", len(snap.Chunks), path)
	return nil
}

// LoadSnapshot restores chunk buffers from a snapshot file into the map and
// returns the loaded chunk positions, so the caller can mark them dirty.
func LoadSnapshot(path string, world *voxel.Map) ([]voxel.Int3, error) {
	infile, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}
	defer infile.Close()

	zr, err := zstd.NewReader(infile)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}
	defer zr.Close()

	var snap snapshot
	if _, err := nbt.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, errors.Wrapf(err, "snapshot %s", path)
	}
	if snap.Version != snapshotVersion {
		return nil, errors.Errorf("snapshot %s: unsupported version %d", path, snap.Version)
	}
	if snap.ChunkSize != voxel.CHUNK_SIZE {
		return nil, errors.Errorf("snapshot %s: chunk size %d, built for %d",
			path, snap.ChunkSize, voxel.CHUNK_SIZE)
	}

	loaded := make([]voxel.Int3, 0, len(snap.Chunks))
	for _, chunk := range snap.Chunks {
		buffer := voxel.NewChunkBuffer()
		if err := buffer.LoadBytes(chunk.Voxels); err != nil {
			return loaded, errors.Wrapf(err, "snapshot %s: chunk %d,%d,%d", path, chunk.X, chunk.Y, chunk.Z)
		}
		pos := voxel.Int3{X: chunk.X, Y: chunk.Y, Z: chunk.Z}
		world.Insert(pos, buffer)
		loaded = append(loaded, pos)
	}
	util.LogIOInfo("[snapshot] loaded %d chunks from %s", len(loaded), path)
	return loaded, nil
}
