package txtmesh

import "fmt"
import "iter"
import "math"
import "time"
import "log/slog"
import "image/color"

import "github.com/go-gl/mathgl/mgl32"
import "github.com/prometheus/client_golang/prometheus"

import "github.com/tinne26/txtmesh/lru"
import "github.com/tinne26/txtmesh/font"
import "github.com/tinne26/txtmesh/mesh"
import "github.com/tinne26/txtmesh/render"

// The default number of meshes kept by a [Drawer].
const DefaultCacheCapacity = 400

// A single draw call. The zero value pivot is [Center], and a nil
// font means the drawer's default font. A nil color draws in white.
type Request struct {
	Text      string
	Size      float64
	Color     color.Color
	Placement mgl32.Mat4
	Font      *font.Handle
	Pivot     Pivot
}

// The text render cache manager. Drawers resolve each request to a
// cached mesh (generating it if needed), keep the renderer color state
// up to date and submit the mesh to the sink with its final transform.
//
// Drawers are meant to be created once and reused for the lifetime of
// the program. They are not safe for concurrent use.
type Drawer struct {
	fonts *font.Registry
	sink render.Sink
	generator mesh.Generator
	cache *lru.Cache[CacheKey, *mesh.Mesh]
	refs map[*mesh.Mesh]int // cache entries per mesh

	colorState render.ColorState
	lastColor color.NRGBA64
	colorPushed bool

	defaultFont *font.Handle
	logger *slog.Logger
	metrics *drawerMetrics
	metricsRegisterer prometheus.Registerer
	closed bool
}

// Creates a new [Drawer] that will draw fonts from the given registry
// into the given sink, caching up to cacheCapacity meshes. The default
// generator is a [mesh.QuadGenerator].
//
// Nil arguments and non-positive capacities return an error wrapping
// [ErrInvalidConfiguration].
func NewDrawer(fonts *font.Registry, sink render.Sink, cacheCapacity int) (*Drawer, error) {
	if fonts == nil { return nil, fmt.Errorf("%w: nil font registry", ErrInvalidConfiguration) }
	if sink  == nil { return nil, fmt.Errorf("%w: nil sink", ErrInvalidConfiguration) }
	cache, err := lru.New[CacheKey, *mesh.Mesh](cacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("%w: cache capacity %d: %w", ErrInvalidConfiguration, cacheCapacity, err)
	}

	drawer := &Drawer{
		fonts: fonts,
		sink: sink,
		generator: mesh.NewQuadGenerator(),
		cache: cache,
		refs: make(map[*mesh.Mesh]int),
		logger: slog.Default(),
	}
	cache.SetOnEvict(drawer.release)
	return drawer, nil
}

// Draws the text centered on the placement, with the default font.
// See [Drawer.DrawRequest]() for the details.
func (self *Drawer) Draw(text string, size float64, clr color.Color, placement mgl32.Mat4) error {
	return self.DrawRequest(Request{
		Text: text, Size: size, Color: clr, Placement: placement,
	})
}

// Resolves the request to a mesh, generating it if it's not cached,
// and submits it to the sink. The mesh is oriented along the
// placement's forward axis and aligned so the request pivot ends up
// at the placement origin.
//
// The color is only pushed to the renderer color state when it differs
// from the previous one. Empty text is still submitted.
func (self *Drawer) DrawRequest(req Request) error {
	if self.closed { return ErrClosed }
	if math.IsNaN(req.Size) || math.IsInf(req.Size, 0) || req.Size <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSize, req.Size)
	}
	if !req.Pivot.Valid() { return fmt.Errorf("%w: %d", ErrInvalidPivot, req.Pivot) }

	handle := req.Font
	if handle == nil {
		var err error
		handle, err = self.DefaultFont()
		if err != nil { return err }
	}

	textMesh, err := self.meshFor(CacheKey{ Text: req.Text, Size: req.Size, Font: handle.ID }, handle)
	if err != nil { return err }

	self.pushColor(req.Color)
	transform := correctOrientation(req.Placement)
	transform  = alignToPivot(transform, textMesh.HalfWidth, textMesh.HalfHeight, req.Pivot)
	self.sink.Submit(textMesh, transform, handle.Material, &self.colorState)
	return nil
}

// Returns the font used when requests don't specify one. If none was
// set with [Drawer.SetDefaultFont](), the registry default is resolved
// and kept on first use.
func (self *Drawer) DefaultFont() (*font.Handle, error) {
	if self.defaultFont != nil { return self.defaultFont, nil }
	handle, err := self.fonts.Default()
	if err != nil { return nil, fmt.Errorf("txtmesh: resolving default font: %w", err) }
	self.defaultFont = handle
	return handle, nil
}

// Sets the font used when requests don't specify one. Passing nil
// makes the drawer resolve the registry default again on next use.
func (self *Drawer) SetDefaultFont(handle *font.Handle) {
	self.defaultFont = handle
}

// Sets the mesh generator. Meshes already cached are kept, so this is
// typically only done right after creating the drawer. Nil generators
// will panic.
func (self *Drawer) SetGenerator(generator mesh.Generator) {
	if generator == nil { panic("nil generator") }
	self.generator = generator
}

// Sets the logger used for debug records on mesh generation and
// release. Passing nil restores [slog.Default]().
func (self *Drawer) SetLogger(logger *slog.Logger) {
	if logger == nil { logger = slog.Default() }
	self.logger = logger
}

// Registers the drawer metrics on the given registerer. Calling it
// again moves the metrics to the new registerer, and passing nil
// disables them. Registration errors leave the previous state intact.
func (self *Drawer) EnableMetrics(registerer prometheus.Registerer) error {
	var metrics *drawerMetrics
	if registerer != nil {
		var err error
		metrics, err = newDrawerMetrics(registerer)
		if err != nil { return err }
		metrics.entries.Set(float64(self.cache.Len()))
	}
	if self.metrics != nil {
		self.metrics.unregister(self.metricsRegisterer)
	}
	self.metrics, self.metricsRegisterer = metrics, registerer
	return nil
}

// Returns the maximum number of cached meshes.
func (self *Drawer) CacheCapacity() int { return self.cache.Capacity() }

// Changes the maximum number of cached meshes. Shrinking the capacity
// evicts the least recently used meshes right away.
func (self *Drawer) SetCacheCapacity(capacity int) error {
	err := self.cache.SetCapacity(capacity)
	if err != nil {
		return fmt.Errorf("%w: cache capacity %d: %w", ErrInvalidConfiguration, capacity, err)
	}
	self.updateEntries()
	return nil
}

// Returns the number of meshes currently cached.
func (self *Drawer) CacheLen() int { return self.cache.Len() }

// Returns the cache counters.
func (self *Drawer) CacheStats() lru.Stats { return self.cache.Stats() }

// Returns an iterator over the cached meshes. Drawing during the iteration
// may panic.
func (self *Drawer) Entries() iter.Seq2[CacheKey, *mesh.Mesh] { return self.cache.All() }

// Returns how many times the color state has been pushed.
func (self *Drawer) ColorPushes() uint64 { return self.colorState.Pushes() }

// Drops all the cached meshes. Further draws will return
// [ErrClosed]. Closing more than once is allowed.
func (self *Drawer) Close() error {
	if self.closed { return nil }
	self.closed = true
	self.cache.Clear()
	self.updateEntries()
	return nil
}

// ---- internal helpers ----

func (self *Drawer) meshFor(key CacheKey, handle *font.Handle) (*mesh.Mesh, error) {
	textMesh, found := self.cache.Get(key)
	if found {
		if self.metrics != nil { self.metrics.hits.Inc() }
		return textMesh, nil
	}
	if self.metrics != nil { self.metrics.misses.Inc() }

	start := time.Now()
	textMesh, err := self.generator.Generate(key.Text, key.Size, handle)
	elapsed := time.Since(start)
	if err == nil && textMesh == nil { err = mesh.ErrNilMesh }
	if err != nil {
		if self.metrics != nil { self.metrics.failures.Inc() }
		self.logger.Warn("mesh generation failed",
			slog.String("text", key.Text), slog.Float64("size", key.Size),
			slog.String("font", handle.Name), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %q at size %v: %w", ErrGenerationFailed, key.Text, key.Size, err)
	}
	if self.metrics != nil { self.metrics.generation.Observe(elapsed.Seconds()) }
	self.logger.Debug("mesh generated",
		slog.String("text", key.Text), slog.Float64("size", key.Size),
		slog.String("font", handle.Name), slog.Int("triangles", textMesh.Triangles()),
		slog.Duration("elapsed", elapsed))

	self.refs[textMesh] += 1 // before Put, which may evict the same mesh
	self.cache.Put(key, textMesh)
	self.updateEntries()
	return textMesh, nil
}

func (self *Drawer) pushColor(clr color.Color) {
	if clr == nil { clr = color.White }
	normalized := render.Normalize(clr)
	if self.colorPushed && normalized == self.lastColor { return }
	self.colorState.Set(normalized)
	self.lastColor, self.colorPushed = normalized, true
	if self.metrics != nil { self.metrics.colorPushes.Inc() }
}

// Called by the cache whenever a mesh leaves it. Meshes belong to the
// generator, so they are never modified here. The sink is only told
// once no cache entry references the mesh anymore, and it may still
// have the mesh queued for the current frame.
func (self *Drawer) release(key CacheKey, textMesh *mesh.Mesh, reason lru.Reason) {
	if reason == lru.ReasonCapacity && self.metrics != nil {
		self.metrics.evictions.Inc()
	}
	self.logger.Debug("mesh evicted",
		slog.String("text", key.Text), slog.Float64("size", key.Size),
		slog.Uint64("font", uint64(key.Font)), slog.String("reason", reason.String()))

	refs := self.refs[textMesh] - 1
	if refs > 0 {
		self.refs[textMesh] = refs
		return
	}
	delete(self.refs, textMesh)
	if releaser, ok := self.sink.(render.MeshReleaser); ok {
		releaser.ReleaseMesh(textMesh)
	}
}

func (self *Drawer) updateEntries() {
	if self.metrics != nil { self.metrics.entries.Set(float64(self.cache.Len())) }
}
