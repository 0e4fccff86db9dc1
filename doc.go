// txtmesh is a package for immediate-mode 3D text drawing.
//
// Each frame, a program asks a [Drawer] to draw some text at a given
// placement, size, color and font. The drawer turns every distinct
// (text, size, font) combination into a mesh only once, keeps the
// meshes in a bounded LRU cache, and hands them to a [render.Sink]
// together with the final transform and color.
//
// First, you create a font registry and load some fonts:
//   fonts := font.NewRegistry()
//   _, err := fonts.RegisterGoFonts()
//   if err != nil { ... }
//
// Then, you create a [Drawer] with a sink:
//   sink := ebitensink.New(render.NewCamera(eye, target))
//   drawer, err := txtmesh.NewDrawer(fonts, sink, txtmesh.DefaultCacheCapacity)
//   if err != nil { ... }
//
// Finally, you draw every frame:
//   placement := mgl32.Translate3D(x, y, z)
//   err = drawer.Draw("Hello world!", 24, color.White, placement)
//
// Use [Drawer.DrawRequest]() for pivots and explicit fonts. Drawers are
// not safe for concurrent use.
package txtmesh
