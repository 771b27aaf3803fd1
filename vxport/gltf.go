package vxport

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"voxmesh/mesher"
	"voxmesh/voxel"
)

// ChunkMesh pairs a mesh with the chunk grid position it was produced for.
type ChunkMesh struct {
	Pos  voxel.Int3
	Mesh *mesher.Mesh
}

// ExportGLTF writes the given chunk meshes into a glTF 2.0 file, one node
// per chunk, translated to the chunk's world position. Empty meshes are
// skipped. unitScale must match the scale the meshes were produced with so
// chunk nodes line up.
func ExportGLTF(path string, meshes []ChunkMesh, unitScale float32) error {
	doc := gltf.NewDocument()

	for _, cm := range meshes {
		if cm.Mesh == nil || cm.Mesh.IsEmpty() {
			continue
		}
		if err := cm.Mesh.Validate(); err != nil {
			return errors.Wrapf(err, "gltf export: chunk %v", cm.Pos)
		}

		positions := make([][3]float32, len(cm.Mesh.Positions))
		normals := make([][3]float32, len(cm.Mesh.Normals))
		uvs := make([][2]float32, len(cm.Mesh.UVs))
		for i := range cm.Mesh.Positions {
			positions[i] = cm.Mesh.Positions[i]
			normals[i] = cm.Mesh.Normals[i]
			uvs[i] = cm.Mesh.UVs[i]
		}

		primitive := &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, cm.Mesh.Indices)),
			Attributes: gltf.Attribute{
				gltf.POSITION:   modeler.WritePosition(doc, positions),
				gltf.NORMAL:     modeler.WriteNormal(doc, normals),
				gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
			},
		}

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       chunkName(cm.Pos),
			Primitives: []*gltf.Primitive{primitive},
		})

		origin := cm.Pos.Mul(voxel.CHUNK_SIZE).ToVec3().Mul(unitScale)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: chunkName(cm.Pos),
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
			Translation: [3]float32{origin.X(), origin.Y(), origin.Z()},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}

	if err := gltf.Save(doc, path); err != nil {
		return errors.Wrapf(err, "gltf export %s", path)
	}
	return nil
}

func chunkName(pos voxel.Int3) string {
	return fmt.Sprintf("chunk_%d_%d_%d", pos.X, pos.Y, pos.Z)
}
