package mesh

import "fmt"
import "math"
import "image"
import "image/draw"
import "errors"
import "strings"

import "golang.org/x/image/math/fixed"
import "golang.org/x/image/font/sfnt"
import "golang.org/x/image/vector"
import imgfont "golang.org/x/image/font"

import "github.com/tinne26/txtmesh/font"

// Produces meshes for (text, size, font) combinations. Generators must
// be deterministic, but they are not expected to be concurrent-safe.
type Generator interface {
	Generate(text string, size float64, handle *font.Handle) (*Mesh, error)
}

// Adapter to use ordinary functions as a [Generator].
type GeneratorFunc func(text string, size float64, handle *font.Handle) (*Mesh, error)

// Implements [Generator].
func (self GeneratorFunc) Generate(text string, size float64, handle *font.Handle) (*Mesh, error) {
	return self(text, size, handle)
}

// Returned when generating with a nil handle or a handle without font.
var ErrNilFont = errors.New("mesh: nil font")

// Used by callers to report generators returning neither mesh nor error.
var ErrNilMesh = errors.New("mesh: generator returned a nil mesh")

// Returned for sizes that are not finite, would round to zero pixels
// or are above [MaxSize].
var ErrInvalidSize = errors.New("mesh: invalid text size")

// The largest size accepted by [QuadGenerator.Generate](), in pixels.
// sfnt scales int16 font units by the 26.6 ppem in int32 arithmetic,
// which can overflow above this.
const MaxSize = 1024

// Returned when the text has more visible glyphs than uint16
// indices can address.
var ErrTooManyGlyphs = errors.New("mesh: too many glyphs for a single mesh")

// Quads are addressed with uint16 indices, four vertices each.
const maxQuads = (math.MaxUint16 + 1)/4

var _ Generator = (*QuadGenerator)(nil)

// The default [Generator]. It maps runes with sfnt, lays out each
// line with glyph advances and kerning, rasterizes the whole text into
// a single alpha mask and emits one quad per visible glyph.
//
// Lines are separated by '\n', centered horizontally, and the whole
// block is centered vertically. No shaping, bidi or hinting is done.
type QuadGenerator struct {
	buffer sfnt.Buffer
	rasterizer vector.Rasterizer
	unitsPerPixel float32
	padding int
	glyphs []placedGlyph
	lineWidths []fixed.Int26_6
}

type placedGlyph struct {
	outline sfnt.Segments
	dot fixed.Point26_6 // pen position within the layout box
	bounds fixed.Rectangle26_6 // outline bounds, already offset by dot
}

// Creates a new [QuadGenerator] with 0.1 local units per pixel and
// a 1 pixel padding around each glyph.
func NewQuadGenerator() *QuadGenerator {
	return &QuadGenerator{ unitsPerPixel: 0.1, padding: 1 }
}

// Sets how many local mesh units a pixel of text at the requested size
// takes. Non-positive values will panic.
func (self *QuadGenerator) SetUnitsPerPixel(units float32) {
	if !(units > 0) { panic("units per pixel must be positive") }
	self.unitsPerPixel = units
}

// Returns the current units per pixel. The default value is 0.1.
func (self *QuadGenerator) UnitsPerPixel() float32 { return self.unitsPerPixel }

// Sets the padding, in pixels, added around each glyph quad and the
// mask, which keeps texture filtering from bleeding between glyphs.
// Negative values will panic.
func (self *QuadGenerator) SetPadding(pixels int) {
	if pixels < 0 { panic("padding < 0") }
	self.padding = pixels
}

// Implements [Generator].
func (self *QuadGenerator) Generate(text string, size float64, handle *font.Handle) (*Mesh, error) {
	if handle == nil || handle.Font == nil { return nil, ErrNilFont }
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 || size > MaxSize {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	ppem := fixed.Int26_6(math.Round(size*64))
	if ppem <= 0 { return nil, fmt.Errorf("%w: %v", ErrInvalidSize, size) }

	metrics, err := handle.Font.Metrics(&self.buffer, ppem, imgfont.HintingNone)
	if err != nil { return nil, err }

	// lay out glyphs line by line
	maxWidth, err := self.layout(text, handle.Font, ppem, metrics)
	if err != nil { return nil, err }
	if len(self.glyphs) > maxQuads { return nil, ErrTooManyGlyphs }

	numLines := len(self.lineWidths)
	blockHeight := metrics.Ascent + metrics.Descent + fixed.Int26_6(numLines - 1)*metrics.Height
	centerX := float32(maxWidth)/128
	centerY := float32(blockHeight)/128

	mesh := &Mesh{
		Text: text,
		Size: size,
		Font: handle.ID,
		HalfWidth : centerX*self.unitsPerPixel,
		HalfHeight: centerY*self.unitsPerPixel,
	}
	if len(self.glyphs) == 0 { return mesh, nil }

	// rasterize all the outlines into a single mask
	maskRect := self.maskRect()
	width, height := maskRect.Dx(), maskRect.Dy()
	self.rasterizer.Reset(width, height)
	self.rasterizer.DrawOp = draw.Src
	for _, glyph := range self.glyphs {
		offsetX := float32(glyph.dot.X)/64 - float32(maskRect.Min.X)
		offsetY := float32(glyph.dot.Y)/64 - float32(maskRect.Min.Y)
		traceOutline(&self.rasterizer, glyph.outline, offsetX, offsetY)
	}
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	self.rasterizer.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	mesh.Mask = mask

	// emit one quad per glyph
	mesh.Vertices = make([]Vertex, 0, len(self.glyphs)*4)
	mesh.Indices  = make([]uint16, 0, len(self.glyphs)*6)
	fw, fh := float32(width), float32(height)
	for _, glyph := range self.glyphs {
		rect := self.glyphRect(glyph.bounds).Intersect(maskRect)
		if rect.Empty() { continue }
		base := uint16(len(mesh.Vertices))
		for _, corner := range [4]image.Point{
			rect.Min, { X: rect.Max.X, Y: rect.Min.Y }, rect.Max, { X: rect.Min.X, Y: rect.Max.Y },
		} {
			px, py := float32(corner.X), float32(corner.Y)
			mesh.Vertices = append(mesh.Vertices, Vertex{
				X: (px - centerX)*self.unitsPerPixel,
				Y: (centerY - py)*self.unitsPerPixel,
				U: (px - float32(maskRect.Min.X))/fw,
				V: (py - float32(maskRect.Min.Y))/fh,
			})
		}
		mesh.Indices = append(mesh.Indices, base, base + 1, base + 2, base, base + 2, base + 3)
	}

	// don't keep references to the outlines around
	clear(self.glyphs)
	self.glyphs = self.glyphs[:0]
	return mesh, nil
}

// Fills self.glyphs with the visible glyphs and self.lineWidths with
// the width of each line, and returns the widest line width.
func (self *QuadGenerator) layout(text string, sfntFont *sfnt.Font, ppem fixed.Int26_6, metrics imgfont.Metrics) (fixed.Int26_6, error) {
	self.glyphs = self.glyphs[:0]
	self.lineWidths = self.lineWidths[:0]

	lines := strings.Split(text, "\n")
	lineStart := make([]int, 0, len(lines))
	for lineIndex, line := range lines {
		lineStart = append(lineStart, len(self.glyphs))
		var dotX fixed.Int26_6
		dotY := metrics.Ascent + fixed.Int26_6(lineIndex)*metrics.Height
		var prevIndex sfnt.GlyphIndex
		for i, codePoint := range line {
			index, err := sfntFont.GlyphIndex(&self.buffer, codePoint)
			if err != nil { return 0, err }
			if i > 0 {
				kern, err := sfntFont.Kern(&self.buffer, prevIndex, index, ppem, imgfont.HintingNone)
				if err == nil { dotX += kern }
			}
			prevIndex = index

			outline, err := sfntFont.LoadGlyph(&self.buffer, index, ppem, nil)
			if err != nil { return 0, err }
			if hasContours(outline) {
				dot := fixed.Point26_6{ X: dotX, Y: dotY }
				bounds := outline.Bounds()
				self.glyphs = append(self.glyphs, placedGlyph{
					outline: append(sfnt.Segments(nil), outline...), // buffer gets reused
					dot: dot,
					bounds: fixed.Rectangle26_6{ Min: bounds.Min.Add(dot), Max: bounds.Max.Add(dot) },
				})
			}

			advance, err := sfntFont.GlyphAdvance(&self.buffer, index, ppem, imgfont.HintingNone)
			if err != nil { return 0, err }
			dotX += advance
		}
		self.lineWidths = append(self.lineWidths, dotX)
	}

	// center lines horizontally within the widest one
	var maxWidth fixed.Int26_6
	for _, width := range self.lineWidths {
		if width > maxWidth { maxWidth = width }
	}
	for lineIndex, start := range lineStart {
		end := len(self.glyphs)
		if lineIndex + 1 < len(lineStart) { end = lineStart[lineIndex + 1] }
		shift := (maxWidth - self.lineWidths[lineIndex])/2
		if shift == 0 { continue }
		for i := start; i < end; i++ {
			self.glyphs[i].dot.X += shift
			self.glyphs[i].bounds.Min.X += shift
			self.glyphs[i].bounds.Max.X += shift
		}
	}
	return maxWidth, nil
}

// Pixel rect covering the given glyph bounds plus padding.
func (self *QuadGenerator) glyphRect(bounds fixed.Rectangle26_6) image.Rectangle {
	return image.Rect(
		bounds.Min.X.Floor() - self.padding, bounds.Min.Y.Floor() - self.padding,
		bounds.Max.X.Ceil()  + self.padding, bounds.Max.Y.Ceil()  + self.padding,
	)
}

// Pixel rect covering all the visible glyphs plus padding.
// Precondition: len(self.glyphs) > 0.
func (self *QuadGenerator) maskRect() image.Rectangle {
	union := self.glyphs[0].bounds
	for _, glyph := range self.glyphs[1:] {
		union = union.Union(glyph.bounds)
	}
	return self.glyphRect(union)
}
