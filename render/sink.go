package render

import "github.com/go-gl/mathgl/mgl32"

import "github.com/tinne26/txtmesh/font"
import "github.com/tinne26/txtmesh/mesh"

// The renderer side of text drawing. Submit is called once per draw
// request, with the transform already corrected and aligned.
//
// The color state is shared between submissions, so sinks that defer
// the actual drawing must copy [ColorState.Color]() at submission time.
type Sink interface {
	Submit(m *mesh.Mesh, transform mgl32.Mat4, material font.Material, state *ColorState)
}

// Optional interface for sinks that derive resources from meshes
// (textures, buffers). ReleaseMesh is called when the last cache entry
// referencing a mesh is dropped. The mesh may still be queued for the
// current frame, so sinks must keep whatever they need to draw it until
// the frame ends.
type MeshReleaser interface {
	ReleaseMesh(m *mesh.Mesh)
}

// Adapter to use ordinary functions as a [Sink].
type SinkFunc func(m *mesh.Mesh, transform mgl32.Mat4, material font.Material, state *ColorState)

// Implements [Sink].
func (self SinkFunc) Submit(m *mesh.Mesh, transform mgl32.Mat4, material font.Material, state *ColorState) {
	self(m, transform, material, state)
}
