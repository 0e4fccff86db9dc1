// txtmesh-demo draws a grid of bobbing, color changing labels with
// a txtmesh drawer. Use the up and down arrow keys to change the
// number of labels.
//
// Usage:
//   txtmesh-demo [-config txtmesh.toml] [-headless 600]
//
// In headless mode no window is opened: the scene is drawn the given
// number of frames into an in-memory recorder and the cache stats are
// logged at the end.
package main

import "os"
import "fmt"
import "flag"
import "time"
import "errors"
import "context"
import "strings"
import "net/http"
import "log/slog"
import "image/color"

import "github.com/go-gl/mathgl/mgl32"
import "github.com/hajimehoshi/ebiten/v2"
import "github.com/hajimehoshi/ebiten/v2/ebitenutil"
import "github.com/hajimehoshi/ebiten/v2/inpututil"
import "github.com/prometheus/client_golang/prometheus"
import "github.com/prometheus/client_golang/prometheus/collectors"
import "github.com/prometheus/client_golang/prometheus/promhttp"

import "github.com/tinne26/txtmesh"
import "github.com/tinne26/txtmesh/font"
import "github.com/tinne26/txtmesh/mesh"
import "github.com/tinne26/txtmesh/config"
import "github.com/tinne26/txtmesh/render"
import "github.com/tinne26/txtmesh/render/ebitensink"

const headlessTPS = 60

var backgroundColor = color.RGBA{24, 24, 32, 255}

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("txtmesh-demo failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := flag.NewFlagSet("txtmesh-demo", flag.ContinueOnError)
	configPath := flags.String("config", "", "path to a TOML configuration file")
	headless := flags.Int("headless", 0, "draw this many frames without opening a window")
	if err := flags.Parse(args); err != nil { return err }

	cfg, err := loadConfig(*configPath)
	if err != nil { return err }
	level, _ := cfg.LogLevel() // already validated
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{ Level: level }))
	slog.SetDefault(logger)

	fonts, err := loadFonts(cfg.Fonts, logger)
	if err != nil { return err }

	var sink render.Sink
	var ebitenSink *ebitensink.Sink
	var recorder *render.Recorder
	if *headless > 0 {
		recorder = &render.Recorder{}
		sink = recorder
	} else {
		ebitenSink = ebitensink.New(render.NewCamera(mgl32.Vec3{0, 12, 8}, mgl32.Vec3{0, 0, -2}))
		sink = ebitenSink
	}

	drawer, err := txtmesh.NewDrawer(fonts, sink, cfg.Cache.Capacity)
	if err != nil { return err }
	defer drawer.Close()
	drawer.SetLogger(logger)
	generator := mesh.NewQuadGenerator()
	generator.SetUnitsPerPixel(float32(cfg.Mesh.UnitsPerPixel))
	drawer.SetGenerator(generator)

	if cfg.Metrics.Addr != "" {
		stop, err := serveMetrics(cfg.Metrics.Addr, drawer, logger)
		if err != nil { return err }
		defer stop()
	}

	scene := newScene(drawer, fonts, cfg.Scene)
	if *headless > 0 {
		return runHeadless(scene, drawer, recorder, *headless, logger)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	return ebiten.RunGame(&Game{
		scene: scene,
		drawer: drawer,
		sink: ebitenSink,
		width: cfg.Window.Width,
		height: cfg.Window.Height,
	})
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(path)
}

// Registers the configured fonts and warns about fonts that can't
// represent all the labels.
func loadFonts(cfg config.Fonts, logger *slog.Logger) (*font.Registry, error) {
	fonts := font.NewRegistry()
	if cfg.GoFonts {
		if _, err := fonts.RegisterGoFonts(); err != nil { return nil, err }
	}
	if cfg.Dir != "" {
		added, skipped, err := fonts.ParseAllFromPath(cfg.Dir)
		if err != nil { return nil, fmt.Errorf("loading fonts from %s: %w", cfg.Dir, err) }
		logger.Info("fonts loaded", slog.String("dir", cfg.Dir), slog.Int("added", added), slog.Int("skipped", skipped))
	}
	if cfg.Default != "" {
		if err := fonts.SetDefault(cfg.Default); err != nil {
			return nil, fmt.Errorf("default font %q: %w", cfg.Default, err)
		}
	}

	allLabels := strings.Join(labels, "")
	err := fonts.Each(func(handle *font.Handle) error {
		missing, err := font.GetMissingRunes(handle.Font, allLabels)
		if err != nil { return err }
		if len(missing) > 0 {
			logger.Warn("font missing runes", slog.String("font", handle.Name), slog.String("runes", string(missing)))
		}
		return nil
	})
	return fonts, err
}

// Starts an HTTP server exposing the drawer metrics. The returned
// function shuts the server down.
func serveMetrics(addr string, drawer *txtmesh.Drawer, logger *slog.Logger) (func(), error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	if err := drawer.EnableMetrics(registry); err != nil { return nil, err }

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{ Registry: registry }))
	server := &http.Server{ Addr: addr, Handler: mux, ReadHeaderTimeout: 5*time.Second }
	go func() {
		logger.Info("serving metrics", slog.String("addr", addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}

func runHeadless(scene *scene, drawer *txtmesh.Drawer, recorder *render.Recorder, frames int, logger *slog.Logger) error {
	start := time.Now()
	submissions := 0
	for frame := 0; frame < frames; frame++ {
		if err := scene.Draw(float64(frame)/headlessTPS); err != nil { return err }
		submissions += recorder.Len()
		recorder.Reset()
	}
	logStats(logger, drawer, slog.Int("frames", frames), slog.Int("submissions", submissions),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func logStats(logger *slog.Logger, drawer *txtmesh.Drawer, extra ...any) {
	stats := drawer.CacheStats()
	args := append([]any{
		slog.Int("entries", drawer.CacheLen()),
		slog.Uint64("hits", stats.Hits),
		slog.Uint64("misses", stats.Misses),
		slog.Uint64("evictions", stats.Evictions),
		slog.Uint64("color_pushes", drawer.ColorPushes()),
	}, extra...)
	logger.Info("cache stats", args...)
}

// ---- Ebitengine game ----

type Game struct {
	scene  *scene
	drawer *txtmesh.Drawer
	sink   *ebitensink.Sink
	width  int
	height int
	frames int
	err    error
}

func (self *Game) Layout(int, int) (int, int) { return self.width, self.height }

func (self *Game) Update() error {
	if self.err != nil { return self.err }
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp  ) { self.scene.AddAmount( 1) }
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) { self.scene.AddAmount(-1) }
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) { return ebiten.Termination }
	self.frames += 1
	return nil
}

func (self *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	seconds := float64(self.frames)/float64(ebiten.TPS())
	if err := self.scene.Draw(seconds); err != nil {
		self.err = err
		return
	}
	self.sink.Flush(screen)

	stats := self.drawer.CacheStats()
	info := fmt.Sprintf(
		"labels: %d (up/down arrows)\ncached meshes: %d/%d\nhits: %d misses: %d evictions: %d\ntextures: %d",
		self.scene.Amount(), self.drawer.CacheLen(), self.drawer.CacheCapacity(),
		stats.Hits, stats.Misses, stats.Evictions, self.sink.Textures(),
	)
	ebitenutil.DebugPrint(screen, info)
}
