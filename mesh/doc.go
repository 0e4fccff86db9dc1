// The mesh subpackage defines the [Mesh] type produced for each
// (text, size, font) combination and the [Generator] interface used
// to create them, alongside a default sfnt-based implementation.
//
// Mesh generation is the expensive part of drawing text: glyphs have
// to be mapped, laid out and rasterized into a mask texture. That's
// the whole reason for txtmesh to cache meshes between frames, so
// generators should be deterministic: the same inputs must always
// produce equivalent meshes.
//
// Generated geometry follows a few conventions:
//  - Local space has X to the right and Y up, all vertices have z = 0,
//    and the text reads correctly when seen from +Z.
//  - The layout box (line widths, ascent to last descent) is centered
//    on the local origin. Its half extents are stored in the mesh.
//  - Each visible glyph is a quad (two triangles) sampling a region of
//    the mesh mask. UVs go from (0, 0) at the top-left of the mask to
//    (1, 1) at the bottom-right.
package mesh
