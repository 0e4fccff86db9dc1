package txtmesh

import "math"
import "errors"
import "testing"
import "image/color"

import "github.com/go-gl/mathgl/mgl32"
import "github.com/prometheus/client_golang/prometheus"
import "github.com/prometheus/client_golang/prometheus/testutil"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

import "github.com/tinne26/txtmesh/lru"
import "github.com/tinne26/txtmesh/font"
import "github.com/tinne26/txtmesh/mesh"
import "github.com/tinne26/txtmesh/render"

// Generator that counts calls and builds tiny meshes without fonts.
type countingGenerator struct {
	calls int
	fail error
}

func (self *countingGenerator) Generate(text string, size float64, handle *font.Handle) (*mesh.Mesh, error) {
	self.calls += 1
	if self.fail != nil { return nil, self.fail }
	return &mesh.Mesh{
		Text: text, Size: size, Font: handle.ID,
		HalfWidth: float32(len(text))*0.5, HalfHeight: 1,
	}, nil
}

func newTestDrawer(t *testing.T, capacity int) (*Drawer, *render.Recorder, *countingGenerator, *font.Registry) {
	t.Helper()
	fonts := font.NewRegistry()
	_, err := fonts.RegisterGoFonts()
	require.NoError(t, err)
	recorder := &render.Recorder{}
	drawer, err := NewDrawer(fonts, recorder, capacity)
	require.NoError(t, err)
	gen := &countingGenerator{}
	drawer.SetGenerator(gen)
	return drawer, recorder, gen, fonts
}

func TestNewDrawerInvalidConfiguration(t *testing.T) {
	fonts := font.NewRegistry()
	recorder := &render.Recorder{}
	for _, capacity := range []int{0, -1} {
		drawer, err := NewDrawer(fonts, recorder, capacity)
		assert.Nil(t, drawer)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
		assert.ErrorIs(t, err, lru.ErrInvalidCapacity)
	}
	_, err := NewDrawer(nil, recorder, 10)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = NewDrawer(fonts, nil, 10)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	drawer, err := NewDrawer(fonts, recorder, DefaultCacheCapacity)
	require.NoError(t, err)
	assert.Equal(t, 400, drawer.CacheCapacity())
	assert.Equal(t, 0, drawer.CacheLen())
}

func TestDrawGeneratesOncePerKey(t *testing.T) {
	drawer, recorder, gen, fonts := newTestDrawer(t, 10)
	for i := 0; i < 5; i++ {
		require.NoError(t, drawer.Draw("Hello", 12, color.White, mgl32.Ident4()))
	}
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1, drawer.CacheLen())
	require.Equal(t, 5, recorder.Len())
	first := recorder.Submissions()[0].Mesh
	for _, sub := range recorder.Submissions() {
		assert.Same(t, first, sub.Mesh)
	}

	// size and font are part of the identity
	require.NoError(t, drawer.Draw("Hello", 12.5, color.White, mgl32.Ident4()))
	bold := fonts.Get("Go Bold")
	require.NotNil(t, bold)
	require.NoError(t, drawer.DrawRequest(Request{ Text: "Hello", Size: 12, Font: bold }))
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, 3, drawer.CacheLen())

	last := recorder.Submissions()[recorder.Len() - 1]
	assert.Equal(t, bold.Material, last.Material)
	assert.Equal(t, bold.ID, last.Mesh.Font)

	stats := drawer.CacheStats()
	assert.Equal(t, uint64(4), stats.Hits)
	assert.Equal(t, uint64(3), stats.Misses)
}

func TestDrawDefaultFont(t *testing.T) {
	drawer, recorder, _, fonts := newTestDrawer(t, 10)
	regular, err := fonts.Default()
	require.NoError(t, err)

	require.NoError(t, drawer.Draw("x", 10, nil, mgl32.Ident4()))
	assert.Equal(t, regular.Material, recorder.Submissions()[0].Material)

	// the resolved default is kept even if the registry changes
	require.NoError(t, fonts.SetDefault("Go Mono"))
	current, err := drawer.DefaultFont()
	require.NoError(t, err)
	assert.Same(t, regular, current)

	drawer.SetDefaultFont(nil)
	current, err = drawer.DefaultFont()
	require.NoError(t, err)
	assert.Equal(t, "Go Mono", current.Name)

	empty, err := NewDrawer(font.NewRegistry(), recorder, 4)
	require.NoError(t, err)
	err = empty.Draw("x", 10, nil, mgl32.Ident4())
	assert.ErrorIs(t, err, font.ErrNoDefault)
}

func TestDrawInvalidInput(t *testing.T) {
	drawer, recorder, gen, _ := newTestDrawer(t, 10)
	for _, size := range []float64{0, -1, nan(), inf()} {
		err := drawer.Draw("x", size, color.White, mgl32.Ident4())
		assert.ErrorIs(t, err, ErrInvalidSize, "size %v", size)
	}
	err := drawer.DrawRequest(Request{ Text: "x", Size: 10, Pivot: Pivot(200) })
	assert.ErrorIs(t, err, ErrInvalidPivot)

	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 0, drawer.CacheLen())
	assert.Equal(t, 0, recorder.Len())
	assert.Zero(t, drawer.ColorPushes())
}

func TestDrawEmptyText(t *testing.T) {
	drawer, recorder, gen, _ := newTestDrawer(t, 10)
	require.NoError(t, drawer.Draw("", 10, color.White, mgl32.Ident4()))
	require.NoError(t, drawer.Draw("", 10, color.White, mgl32.Ident4()))
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 2, recorder.Len())
}

func TestGenerationFailureInsertsNothing(t *testing.T) {
	drawer, recorder, gen, _ := newTestDrawer(t, 10)
	cause := errors.New("broken outline")
	gen.fail = cause

	err := drawer.Draw("bad", 10, color.White, mgl32.Ident4())
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 0, drawer.CacheLen())
	assert.Equal(t, 0, recorder.Len())

	// nil meshes without errors are failures too
	drawer.SetGenerator(mesh.GeneratorFunc(func(string, float64, *font.Handle) (*mesh.Mesh, error) {
		return nil, nil
	}))
	err = drawer.Draw("bad", 10, color.White, mgl32.Ident4())
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, mesh.ErrNilMesh)
	assert.Equal(t, 0, drawer.CacheLen())

	// the failure is not cached, so a working generator recovers
	gen.fail = nil
	drawer.SetGenerator(gen)
	require.NoError(t, drawer.Draw("bad", 10, color.White, mgl32.Ident4()))
	assert.Equal(t, 1, drawer.CacheLen())
	assert.Panics(t, func() { drawer.SetGenerator(nil) })
}

func TestColorDedup(t *testing.T) {
	drawer, recorder, _, _ := newTestDrawer(t, 10)
	red := color.RGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}

	draws := []color.Color{red, red, color.NRGBA{255, 0, 0, 255}, blue, blue, red}
	for _, clr := range draws {
		require.NoError(t, drawer.Draw("c", 10, clr, mgl32.Ident4()))
	}
	// red, blue, red
	assert.Equal(t, uint64(3), drawer.ColorPushes())
	subs := recorder.Submissions()
	assert.Equal(t, render.Normalize(red), subs[0].Color)
	assert.Equal(t, render.Normalize(blue), subs[3].Color)
	assert.Equal(t, render.Normalize(red), subs[5].Color)
}

func TestFirstDrawAlwaysPushesColor(t *testing.T) {
	drawer, recorder, _, _ := newTestDrawer(t, 10)
	require.NoError(t, drawer.Draw("c", 10, color.Transparent, mgl32.Ident4()))
	assert.Equal(t, uint64(1), drawer.ColorPushes())
	require.NoError(t, drawer.Draw("c", 10, nil, mgl32.Ident4()))
	require.NoError(t, drawer.Draw("c", 10, color.White, mgl32.Ident4()))
	assert.Equal(t, uint64(2), drawer.ColorPushes())
	assert.Equal(t, render.Normalize(color.White), recorder.Submissions()[2].Color)
}

func TestDrawTransform(t *testing.T) {
	drawer, recorder, _, _ := newTestDrawer(t, 10)
	placement := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DX(0.5))

	require.NoError(t, drawer.Draw("abcd", 10, color.White, placement))
	centered := recorder.Submissions()[0].Transform
	assert.Equal(t, placement.Mul4(mgl32.Scale3D(-1, 1, -1)).Col(0), centered.Col(0))
	assert.Equal(t, placement.Col(3), centered.Col(3)) // center pivot, no displacement

	require.NoError(t, drawer.DrawRequest(Request{ Text: "abcd", Size: 10, Placement: placement, Pivot: BottomLeft }))
	aligned := recorder.Submissions()[1].Transform
	// the bottom left corner of the layout box lands on the placement origin
	halfW, halfH := float32(2), float32(1)
	corner := aligned.Mul4x1(mgl32.Vec4{-halfW, -halfH, 0, 1})
	origin := placement.Col(3)
	assert.InDeltaSlice(t, origin[:], corner[:], 1e-5)
}

func TestEvictionReleasesMeshes(t *testing.T) {
	drawer, recorder, gen, _ := newTestDrawer(t, 2)
	for _, text := range []string{"A", "B", "C"} {
		require.NoError(t, drawer.Draw(text, 10, color.White, mgl32.Ident4()))
	}
	assert.Equal(t, 2, drawer.CacheLen())
	require.Len(t, recorder.Released(), 1)
	evicted := recorder.Released()[0]
	assert.Equal(t, "A", evicted.Text)
	assert.False(t, evicted.Released()) // generator owned

	// "A" is generated again after being evicted
	require.NoError(t, drawer.Draw("A", 10, color.White, mgl32.Ident4()))
	assert.Equal(t, 4, gen.calls)

	keys := make([]string, 0, 2)
	for key, cached := range drawer.Entries() {
		assert.Equal(t, key.Text, cached.Text)
		keys = append(keys, key.Text)
	}
	assert.ElementsMatch(t, []string{"A", "C"}, keys)

	// shrinking evicts right away
	require.NoError(t, drawer.SetCacheCapacity(1))
	assert.Equal(t, 1, drawer.CacheLen())
	assert.Len(t, recorder.Released(), 3)
	err := drawer.SetCacheCapacity(0)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, 1, drawer.CacheCapacity())
}

func TestClose(t *testing.T) {
	drawer, recorder, _, _ := newTestDrawer(t, 10)
	require.NoError(t, drawer.Draw("one", 10, color.White, mgl32.Ident4()))
	require.NoError(t, drawer.Draw("two", 10, color.White, mgl32.Ident4()))

	require.NoError(t, drawer.Close())
	require.NoError(t, drawer.Close())
	assert.Equal(t, 0, drawer.CacheLen())
	assert.Len(t, recorder.Released(), 2)
	for _, released := range recorder.Released() {
		assert.False(t, released.Released())
	}
	assert.ErrorIs(t, drawer.Draw("one", 10, color.White, mgl32.Ident4()), ErrClosed)
}

func TestEvictionKeepsFrameSubmissions(t *testing.T) {
	drawer, recorder, _, _ := newTestDrawer(t, 2)
	drawer.SetGenerator(mesh.NewQuadGenerator())

	// a single frame drawing more distinct keys than the cache holds
	texts := []string{"one", "two", "three", "four"}
	for _, text := range texts {
		require.NoError(t, drawer.Draw(text, 16, color.White, mgl32.Ident4()))
	}
	assert.Len(t, recorder.Released(), 2)
	require.Equal(t, len(texts), recorder.Len())
	for i, sub := range recorder.Submissions() {
		assert.Equal(t, texts[i], sub.Mesh.Text)
		assert.False(t, sub.Mesh.Empty(), "%q lost its geometry", texts[i])
		assert.False(t, sub.Mesh.Released(), texts[i])
	}
}

func TestSharedMeshReleasedOnce(t *testing.T) {
	drawer, recorder, _, _ := newTestDrawer(t, 1)
	shared := &mesh.Mesh{
		Vertices: make([]mesh.Vertex, 4), Indices: []uint16{0, 1, 2, 0, 2, 3},
		HalfWidth: 1, HalfHeight: 1,
	}
	drawer.SetGenerator(mesh.GeneratorFunc(func(text string, size float64, handle *font.Handle) (*mesh.Mesh, error) {
		if text == "own" { return &mesh.Mesh{ Text: text }, nil }
		return shared, nil
	}))

	// "b" evicts "a", but both keys resolve to the same mesh
	require.NoError(t, drawer.Draw("a", 10, color.White, mgl32.Ident4()))
	require.NoError(t, drawer.Draw("b", 10, color.White, mgl32.Ident4()))
	assert.Empty(t, recorder.Released())
	assert.Len(t, shared.Indices, 6)
	assert.Same(t, shared, recorder.Submissions()[1].Mesh)

	// the last key referencing it goes away
	require.NoError(t, drawer.Draw("own", 10, color.White, mgl32.Ident4()))
	assert.Equal(t, []*mesh.Mesh{shared}, recorder.Released())
	assert.Len(t, shared.Indices, 6)
	assert.False(t, shared.Released())
	assert.Len(t, drawer.refs, 1)
}

func TestDrawWithQuadGenerator(t *testing.T) {
	drawer, recorder, _, _ := newTestDrawer(t, 10)
	drawer.SetGenerator(mesh.NewQuadGenerator())
	require.NoError(t, drawer.Draw("Quad", 16, color.White, mgl32.Ident4()))
	textMesh := recorder.Submissions()[0].Mesh
	assert.False(t, textMesh.Empty())
	assert.Equal(t, 8, textMesh.Triangles())
}

func TestMetrics(t *testing.T) {
	drawer, _, gen, _ := newTestDrawer(t, 2)
	registry := prometheus.NewRegistry()
	require.NoError(t, drawer.EnableMetrics(registry))

	for _, text := range []string{"A", "A", "B", "C"} {
		require.NoError(t, drawer.Draw(text, 10, color.White, mgl32.Ident4()))
	}
	gen.fail = errors.New("nope")
	assert.Error(t, drawer.Draw("D", 10, color.Black, mgl32.Ident4()))

	assert.Equal(t, 1.0, testutil.ToFloat64(drawer.metrics.hits))
	assert.Equal(t, 4.0, testutil.ToFloat64(drawer.metrics.misses))
	assert.Equal(t, 1.0, testutil.ToFloat64(drawer.metrics.evictions))
	assert.Equal(t, 2.0, testutil.ToFloat64(drawer.metrics.entries))
	assert.Equal(t, 1.0, testutil.ToFloat64(drawer.metrics.failures))
	assert.Equal(t, 1.0, testutil.ToFloat64(drawer.metrics.colorPushes))
	assert.Equal(t, 1, testutil.CollectAndCount(drawer.metrics.generation))

	count, err := testutil.GatherAndCount(registry, "txtmesh_cache_hits_total", "txtmesh_generation_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// registering twice on the same registry fails and keeps the metrics
	other, _, _, _ := newTestDrawer(t, 2)
	assert.Error(t, other.EnableMetrics(registry))
	assert.Nil(t, other.metrics)

	require.NoError(t, drawer.EnableMetrics(nil))
	assert.Nil(t, drawer.metrics)
	require.NoError(t, other.EnableMetrics(registry))
}

func nan() float64 { return math.NaN() }
func inf() float64 { return math.Inf(1) }
