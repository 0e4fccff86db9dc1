// Package ebitensink implements a [render.Sink] that draws text meshes
// with Ebitengine.
//
// Submissions are queued and drawn on [Sink.Flush](), sorted back to
// front, projecting each vertex on the CPU through a [render.Camera]
// and drawing the result with [ebiten.Image.DrawTriangles]().
package ebitensink

import "slices"
import "image"
import "image/color"

import "github.com/go-gl/mathgl/mgl32"
import "github.com/hajimehoshi/ebiten/v2"

import "github.com/tinne26/txtmesh/font"
import "github.com/tinne26/txtmesh/mesh"
import "github.com/tinne26/txtmesh/render"

var _ render.Sink = (*Sink)(nil)
var _ render.MeshReleaser = (*Sink)(nil)

type submission struct {
	mesh *mesh.Mesh
	transform mgl32.Mat4
	color color.NRGBA64
	depth float32
}

// An Ebitengine [render.Sink]. Mask textures are created lazily the
// first time a mesh is flushed and kept until the end of the first
// flush after the mesh is released.
type Sink struct {
	camera render.Camera
	queue []submission
	released []*mesh.Mesh // pending texture deallocation
	textures map[*mesh.Mesh]*ebiten.Image
	vertices []ebiten.Vertex
	options ebiten.DrawTrianglesOptions
}

// Creates a new sink that will project meshes with the given camera.
func New(camera render.Camera) *Sink {
	sink := &Sink{
		camera: camera,
		textures: make(map[*mesh.Mesh]*ebiten.Image),
	}
	sink.options.Filter = ebiten.FilterLinear
	return sink
}

// Returns the camera used on [Sink.Flush]().
func (self *Sink) Camera() render.Camera { return self.camera }

// Sets the camera to be used on the next [Sink.Flush]().
func (self *Sink) SetCamera(camera render.Camera) { self.camera = camera }

// Returns the number of mask textures currently alive.
func (self *Sink) Textures() int { return len(self.textures) }

// Implements [render.Sink]. Empty meshes are ignored.
func (self *Sink) Submit(m *mesh.Mesh, transform mgl32.Mat4, _ font.Material, state *render.ColorState) {
	if m == nil || m.Empty() { return }
	var clr color.NRGBA64
	if state != nil { clr = state.Color() }
	self.queue = append(self.queue, submission{ mesh: m, transform: transform, color: clr })
}

// Implements [render.MeshReleaser]. Meshes already queued are still
// drawn, and their textures are deallocated at the end of the next
// [Sink.Flush]().
func (self *Sink) ReleaseMesh(m *mesh.Mesh) {
	self.released = append(self.released, m)
}

// Returns the number of released meshes waiting for the next flush.
func (self *Sink) PendingReleases() int { return len(self.released) }

// Returns the number of submissions waiting for the next flush.
func (self *Sink) Queued() int { return len(self.queue) }

// Draws all the queued submissions onto the given screen, empties
// the queue and deallocates the textures of released meshes.
func (self *Sink) Flush(screen *ebiten.Image) {
	bounds := screen.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	viewProj := self.camera.ViewProjection(width, height)

	// back to front, by clip w of each mesh origin
	for i := range self.queue {
		origin := self.queue[i].transform.Col(3)
		self.queue[i].depth = viewProj.Mul4x1(origin)[3]
	}
	slices.SortStableFunc(self.queue, func(a, b submission) int {
		if a.depth > b.depth { return -1 }
		if a.depth < b.depth { return  1 }
		return 0
	})

	for _, sub := range self.queue {
		self.draw(screen, viewProj.Mul4(sub.transform), sub, width, height)
	}
	clear(self.queue)
	self.queue = self.queue[:0]
	self.dropReleased()
}

func (self *Sink) dropReleased() {
	for _, m := range self.released {
		texture, found := self.textures[m]
		if !found { continue }
		texture.Deallocate()
		delete(self.textures, m)
	}
	clear(self.released)
	self.released = self.released[:0]
}

func (self *Sink) draw(screen *ebiten.Image, mvp mgl32.Mat4, sub submission, width, height int) {
	texture := self.texture(sub.mesh)
	maskBounds := sub.mesh.Mask.Bounds()
	maskW, maskH := float32(maskBounds.Dx()), float32(maskBounds.Dy())
	r, g, b, a := colorToFloat32(sub.color)

	self.vertices = self.vertices[:0]
	for _, vertex := range sub.mesh.Vertices {
		x, y, _, visible := render.Project(mvp, mgl32.Vec3{vertex.X, vertex.Y, vertex.Z}, width, height)
		if !visible { return } // no clipping, skip meshes crossing the camera plane
		self.vertices = append(self.vertices, ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: vertex.U*maskW, SrcY: vertex.V*maskH,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	screen.DrawTriangles(self.vertices, sub.mesh.Indices, texture, &self.options)
}

func (self *Sink) texture(m *mesh.Mesh) *ebiten.Image {
	texture, found := self.textures[m]
	if found { return texture }
	texture = convertAlphaToTexture(m.Mask)
	self.textures[m] = texture
	return texture
}

// Converts a color to its straight alpha float32 [0, 1] components.
func colorToFloat32(clr color.NRGBA64) (float32, float32, float32, float32) {
	return float32(clr.R)/65535, float32(clr.G)/65535, float32(clr.B)/65535, float32(clr.A)/65535
}

// Ebitengine doesn't have alpha-only images, so masks are expanded to
// premultiplied white RGBA.
func convertAlphaToTexture(alpha *image.Alpha) *ebiten.Image {
	bounds := alpha.Bounds()
	rgba   := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	pixels := rgba.Pix
	index  := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := alpha.Pix[alpha.PixOffset(bounds.Min.X, y):]
		for _, value := range row[:bounds.Dx()] {
			pixels[index + 0] = value
			pixels[index + 1] = value
			pixels[index + 2] = value
			pixels[index + 3] = value
			index += 4
		}
	}
	return ebiten.NewImageFromImage(rgba)
}
