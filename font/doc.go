// The font subpackage parses fonts and keeps them in a [Registry] that
// gives each font a stable identity, a rendering [Material] and a
// default font fallback.
//
// Font identities are small integers assigned on registration and never
// reused, so they can be safely used as part of cache keys even after
// a font has been removed from the registry.
//
// Most programs only need a couple lines:
//   fonts := font.NewRegistry()
//   _, err := fonts.RegisterGoFonts()
//   if err != nil { ... }
//   regular, err := fonts.Default()
package font
