// Package render defines where drawn text meshes end up.
//
// A [Sink] receives one submission per draw call: the mesh, its final
// world transform, the font material and the shared [ColorState]. Sinks
// don't own meshes; they may keep GPU resources derived from them until
// [MeshReleaser.ReleaseMesh]() is called and the current frame is done.
//
// The package also provides a [Recorder] sink, useful for tests and
// headless programs, and a minimal perspective [Camera].
package render
