package render

import "github.com/go-gl/mathgl/mgl32"

// A perspective camera. The zero value is not usable; use [NewCamera]()
// or fill all the fields.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
	FovY   float32 // vertical field of view, in radians
	Near   float32
	Far    float32
}

// Creates a camera at eye looking at target, with +Y up, a 60 degree
// vertical field of view and a [0.1, 1000] depth range.
func NewCamera(eye, target mgl32.Vec3) Camera {
	return Camera{
		Eye: eye, Target: target, Up: mgl32.Vec3{0, 1, 0},
		FovY: mgl32.DegToRad(60), Near: 0.1, Far: 1000,
	}
}

// Returns the view matrix.
func (self *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(self.Eye, self.Target, self.Up)
}

// Returns projection * view for a viewport of the given size in pixels.
func (self *Camera) ViewProjection(width, height int) mgl32.Mat4 {
	aspect := float32(1)
	if height > 0 { aspect = float32(width)/float32(height) }
	projection := mgl32.Perspective(self.FovY, aspect, self.Near, self.Far)
	return projection.Mul4(self.View())
}

// Projects a world space point with the given view-projection matrix
// onto a viewport of the given size. Returns x, y in pixels (y down),
// the NDC depth and whether the point is in front of the camera.
func Project(viewProj mgl32.Mat4, point mgl32.Vec3, width, height int) (x, y, depth float32, visible bool) {
	clip := viewProj.Mul4x1(point.Vec4(1))
	if clip[3] <= 0 { return 0, 0, 0, false }
	ndcX, ndcY, ndcZ := clip[0]/clip[3], clip[1]/clip[3], clip[2]/clip[3]
	x = (ndcX + 1)*0.5*float32(width)
	y = (1 - ndcY)*0.5*float32(height)
	return x, y, ndcZ, true
}
