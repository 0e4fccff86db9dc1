package txtmesh

import "github.com/go-gl/mathgl/mgl32"

// Applies the half turn around the local +Y axis that makes generated
// meshes read correctly when looking along the placement's forward
// (+Z) axis, instead of against it. This is
// placement * diag(-1, 1, -1, 1), computed by negating the X and Z
// basis columns so the result is exact.
func correctOrientation(placement mgl32.Mat4) mgl32.Mat4 {
	for row := 0; row < 4; row++ {
		placement[row] = -placement[row] // mgl32 is column major
		placement[8 + row] = -placement[8 + row]
	}
	return placement
}

// Moves the transform origin along its own X and Y axes so that the
// given pivot of a layout box with the given half extents lands where
// the origin was. Center leaves the transform untouched.
func alignToPivot(transform mgl32.Mat4, halfWidth, halfHeight float32, pivot Pivot) mgl32.Mat4 {
	sx, sy := pivot.factors()
	if sx == 0 && sy == 0 { return transform }

	// translate by -anchor, with anchor = (sx*halfWidth, sy*halfHeight)
	dx, dy := -sx*halfWidth, -sy*halfHeight
	for row := 0; row < 3; row++ {
		transform[12 + row] += transform[row]*dx + transform[4 + row]*dy
	}
	return transform
}
