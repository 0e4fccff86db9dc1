package mesh

import "golang.org/x/image/math/fixed"
import "golang.org/x/image/font/sfnt"
import "golang.org/x/image/vector"

// Feeds the given glyph outline into the rasterizer, translated by the
// given offset (in pixels). The x/image/vector rasterizer expects
// coordinates in the positive quadrant, so the offset must map the
// outline inside the rasterizer bounds.
func traceOutline(rasterizer *vector.Rasterizer, outline sfnt.Segments, offsetX, offsetY float32) {
	var toXY = func(point fixed.Point26_6) (float32, float32) {
		return float32(point.X)/64 + offsetX, float32(point.Y)/64 + offsetY
	}

	for _, segment := range outline {
		switch segment.Op {
		case sfnt.SegmentOpMoveTo:
			x, y := toXY(segment.Args[0])
			rasterizer.MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := toXY(segment.Args[0])
			rasterizer.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := toXY(segment.Args[0])
			x , y  := toXY(segment.Args[1])
			rasterizer.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			cax, cay := toXY(segment.Args[0])
			cbx, cby := toXY(segment.Args[1])
			x  , y   := toXY(segment.Args[2])
			rasterizer.CubeTo(cax, cay, cbx, cby, x, y)
		default:
			panic("unexpected segment.Op case")
		}
	}
}

// Whether the outline includes any lines or curves at all
// (space glyphs only have move operations, if anything).
func hasContours(outline sfnt.Segments) bool {
	for _, segment := range outline {
		if segment.Op != sfnt.SegmentOpMoveTo { return true }
	}
	return false
}
