package main

import "math"
import "image/color"

import "github.com/go-gl/mathgl/mgl32"

import "github.com/tinne26/txtmesh"
import "github.com/tinne26/txtmesh/font"
import "github.com/tinne26/txtmesh/config"

var labels = []string{
	"1", "2", "3", "4", "5", "6", "7", "8", "9",
	"A", "B", "C", "D", "E", "F", "G", "H",
}

var (
	red   = color.NRGBA{255, 0, 0, 255}
	green = color.NRGBA{0, 255, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
)

// Grid bounds on the XZ plane. Labels fill rows along +X and move
// to the next row along -Z, away from the camera.
const (
	gridMinX = -5.0
	gridMaxX =  5.0
	gridMinZ =  2.0
)

// Labels laid flat on a grid, bobbing up and down and fading between
// colors. Each frame the whole scene is drawn again.
type scene struct {
	drawer *txtmesh.Drawer
	fonts  []*font.Handle // nil to always use the default font
	cfg    config.Scene
	pivot  txtmesh.Pivot
	amount int
}

func newScene(drawer *txtmesh.Drawer, registry *font.Registry, cfg config.Scene) *scene {
	self := &scene{
		drawer: drawer,
		cfg: cfg,
		amount: cfg.Amount,
	}
	self.pivot, _ = txtmesh.ParsePivot(cfg.Pivot)
	if cfg.CycleFonts {
		_ = registry.Each(func(handle *font.Handle) error {
			self.fonts = append(self.fonts, handle)
			return nil
		})
	}
	return self
}

// Changes the number of labels, never going below zero.
func (self *scene) AddAmount(delta int) {
	self.amount = max(self.amount + delta, 0)
}

func (self *scene) Amount() int { return self.amount }

// Draws all the labels for the given time, in seconds.
func (self *scene) Draw(seconds float64) error {
	spacing := float32(self.cfg.Spacing)
	x, z := float32(gridMinX), float32(gridMinZ)
	for i := 0; i < self.amount; i++ {
		phase := seconds + float64(i)
		y := float32(math.Sin(phase*self.cfg.BobSpeed)*self.cfg.BobHeight)
		placement := mgl32.Translate3D(x, y, z).Mul4(faceUp)

		req := txtmesh.Request{
			Text: labels[i % len(labels)],
			Size: self.cfg.TextSize,
			Color: labelColor(math.Sin(phase)),
			Placement: placement,
			Pivot: self.pivot,
		}
		if len(self.fonts) > 0 { req.Font = self.fonts[i % len(self.fonts)] }
		if err := self.drawer.DrawRequest(req); err != nil { return err }

		x += spacing
		if x > gridMaxX {
			x = gridMinX
			z -= spacing
		}
	}
	return nil
}

// Rotation whose forward axis points down and whose up axis points
// away from the camera, so labels lie flat and read from above.
var faceUp = lookRotation(mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1})

// Builds a rotation matrix with the local +Z axis along forward and
// the local +Y axis as close as possible to up.
func lookRotation(forward, up mgl32.Vec3) mgl32.Mat4 {
	zAxis := forward.Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis)
	return mgl32.Mat4{
		xAxis[0], xAxis[1], xAxis[2], 0,
		yAxis[0], yAxis[1], yAxis[2], 0,
		zAxis[0], zAxis[1], zAxis[2], 0,
		0, 0, 0, 1,
	}
}

// Green to blue for positive factors, green to red for negative ones.
func labelColor(factor float64) color.NRGBA {
	if factor < 0 { return lerpColor(green, red, -factor) }
	return lerpColor(green, blue, factor)
}

func lerpColor(from, to color.NRGBA, t float64) color.NRGBA {
	t = min(max(t, 0), 1)
	var lerp = func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b) - float64(a))*t))
	}
	return color.NRGBA{
		lerp(from.R, to.R), lerp(from.G, to.G), lerp(from.B, to.B), lerp(from.A, to.A),
	}
}
