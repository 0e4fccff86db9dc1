package txtmesh

import "github.com/tinne26/txtmesh/font"

// Identifies a cached mesh. Sizes are compared exactly, so 12 and
// 12.000001 are different keys and get different meshes.
//
// Fonts are identified by their registry ID, which is only unique
// within a single [font.Registry].
type CacheKey struct {
	Text string
	Size float64
	Font font.ID
}
