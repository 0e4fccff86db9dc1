package render

import "image/color"

// A renderer-side color override block. Draws only push a new color
// when it differs from the last one, so the push count can be used to
// check how much state churn a frame generates.
type ColorState struct {
	color  color.NRGBA64
	pushes uint64
}

// Normalizes any [color.Color] to the representation stored in a
// [ColorState]. Colors that normalize to the same value are considered
// the same color.
func Normalize(clr color.Color) color.NRGBA64 {
	return color.NRGBA64Model.Convert(clr).(color.NRGBA64)
}

// Sets the current color and counts the push.
func (self *ColorState) Set(clr color.NRGBA64) {
	self.color = clr
	self.pushes += 1
}

// Returns the last color set. Before any push, this is transparent black.
func (self *ColorState) Color() color.NRGBA64 { return self.color }

// Returns how many times [ColorState.Set]() has been called.
func (self *ColorState) Pushes() uint64 { return self.pushes }
