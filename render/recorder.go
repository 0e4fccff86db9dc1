package render

import "image/color"

import "github.com/go-gl/mathgl/mgl32"

import "github.com/tinne26/txtmesh/font"
import "github.com/tinne26/txtmesh/mesh"

var _ Sink = (*Recorder)(nil)
var _ MeshReleaser = (*Recorder)(nil)

// A single recorded [Sink.Submit]() call.
type Submission struct {
	Mesh      *mesh.Mesh
	Transform mgl32.Mat4
	Material  font.Material
	Color     color.NRGBA64 // color state at submission time
}

// A [Sink] that keeps every submission in memory until [Recorder.Reset]().
// It doesn't draw anything.
type Recorder struct {
	submissions []Submission
	released []*mesh.Mesh
}

// Implements [Sink].
func (self *Recorder) Submit(m *mesh.Mesh, transform mgl32.Mat4, material font.Material, state *ColorState) {
	var clr color.NRGBA64
	if state != nil { clr = state.Color() }
	self.submissions = append(self.submissions, Submission{
		Mesh: m, Transform: transform, Material: material, Color: clr,
	})
}

// Implements [MeshReleaser].
func (self *Recorder) ReleaseMesh(m *mesh.Mesh) {
	self.released = append(self.released, m)
}

// Returns the submissions recorded since the last reset. The slice
// is only valid until the next Submit or Reset.
func (self *Recorder) Submissions() []Submission { return self.submissions }

// Returns the meshes reported through [Recorder.ReleaseMesh](), in order.
// Releases are not affected by [Recorder.Reset]().
func (self *Recorder) Released() []*mesh.Mesh { return self.released }

// Returns the number of submissions since the last reset.
func (self *Recorder) Len() int { return len(self.submissions) }

// Drops all the recorded submissions, typically at the end of a frame.
func (self *Recorder) Reset() {
	clear(self.submissions)
	self.submissions = self.submissions[:0]
}
