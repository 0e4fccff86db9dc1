package mesh

import "image"

import "github.com/tinne26/txtmesh/font"

// A mesh vertex: local-space position and mask texture coordinates.
type Vertex struct {
	X, Y, Z float32
	U, V    float32
}

// Geometry generated for a specific (text, size, font) combination.
//
// Meshes are owned by the generator that created them and treated as
// read-only by everyone else. Caches only keep them alive, and may hold
// the same mesh under more than one key.
type Mesh struct {
	Text string
	Size float64
	Font font.ID

	Vertices []Vertex
	Indices  []uint16

	// Alpha mask sampled by the vertex UVs. Nil when the text has no
	// visible glyphs (e.g. empty or whitespace only).
	Mask *image.Alpha

	// Half extents of the layout box in local units. The box is
	// centered on the local origin.
	HalfWidth  float32
	HalfHeight float32

	released bool
}

// Returns the half width and half height of the mesh layout box.
func (self *Mesh) Extents() (halfWidth, halfHeight float32) {
	return self.HalfWidth, self.HalfHeight
}

// Returns the number of triangles in the mesh.
func (self *Mesh) Triangles() int { return len(self.Indices)/3 }

// Returns whether the mesh has nothing to draw.
func (self *Mesh) Empty() bool {
	return len(self.Indices) == 0 || self.Mask == nil
}

// Drops the mesh geometry and mask. Only the mesh owner should call
// this, once nothing can draw the mesh anymore. Releasing a mesh more
// than once is allowed. Extents remain available after release.
func (self *Mesh) Release() {
	self.Vertices = nil
	self.Indices  = nil
	self.Mask     = nil
	self.released = true
}

// Returns whether [Mesh.Release]() has been called.
func (self *Mesh) Released() bool { return self.released }
