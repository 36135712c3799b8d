// Package game runs the growth simulation either headless or inside a raylib
// window, and wires it to telemetry output.
package game

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hyphae/camera"
	"github.com/pthm-cable/hyphae/config"
	"github.com/pthm-cable/hyphae/geom"
	"github.com/pthm-cable/hyphae/sim"
	"github.com/pthm-cable/hyphae/telemetry"
	"github.com/pthm-cable/hyphae/ui"
)

// Options configures a Game.
type Options struct {
	Seed      uint64 // base RNG seed; restart n uses Seed+n
	Points    int    // initial seed count; 0 = config
	LogStats  bool
	OutputDir string
	Headless  bool
}

// Game holds the simulation together with its presentation state.
type Game struct {
	cfg *config.Config
	sim *sim.Simulation

	rngSeed  uint64
	restarts uint64
	headless bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	finished      bool // final outputs written for the current run

	// Graphics mode only
	camera       *camera.Camera
	canvas       rl.RenderTexture2D
	canvasW      int32
	canvasH      int32
	redraw       bool
	paintedTick  int // tick whose added nodes are already on the canvas
	hud          *ui.HUD
	perfPanel    *ui.PerfPanel
	inspector    *ui.Inspector
	showHUD      bool
	showPerf     bool
	screenWidth  float32
	screenHeight float32
}

// NewGameWithOptions creates a game and seeds the first run. In graphics
// mode the raylib window must already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	g := &Game{
		cfg:           cfg,
		rngSeed:       opts.Seed,
		headless:      opts.Headless,
		logStats:      opts.LogStats,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		showHUD:       true,
	}

	s, err := sim.New(cfg.Growth, sim.WithPerf(g.perfCollector), sim.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}
	if opts.Points > 0 {
		s.SetInitialPointCount(opts.Points)
	}
	g.sim = s

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if opts.Headless {
		g.screenWidth = cfg.Derived.ScreenW32
		g.screenHeight = cfg.Derived.ScreenH32
	} else {
		g.screenWidth = float32(rl.GetScreenWidth())
		g.screenHeight = float32(rl.GetScreenHeight())
		g.camera = camera.New(g.screenWidth, g.screenHeight, g.screenWidth, g.screenHeight)
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-230, 5)
		g.inspector = ui.NewInspector(200)
		g.resizeCanvas()
	}

	if err := g.sim.Reset(g.sim.InitialPointCount(), g.area(), g.rngSeed); err != nil {
		om.Close()
		return nil, fmt.Errorf("seeding simulation: %w", err)
	}
	return g, nil
}

// area returns the current play area, which is the window size.
func (g *Game) area() geom.Vec2 {
	return geom.V(float64(g.screenWidth), float64(g.screenHeight))
}

// restart reseeds the simulation with the next seed in sequence.
func (g *Game) restart() {
	seed := g.rngSeed + g.restarts + 1
	if err := g.sim.Reset(g.sim.InitialPointCount(), g.area(), seed); err != nil {
		slog.Warn("restart rejected", "error", err)
		return
	}
	g.restarts++
	g.collector.Restart(0)
	g.finished = false
	g.redraw = true
}

// Update runs one frame in graphics mode: input, then one growth step.
func (g *Game) Update() {
	g.handleInput()
	g.step()
}

// UpdateHeadless runs one growth step without touching raylib.
func (g *Game) UpdateHeadless() {
	g.step()
}

func (g *Game) step() {
	if g.sim.Done() {
		g.finish()
		// Idle steps leave the store alone but still switch intermediate
		// rendering back on, so the finished network is shown.
		g.sim.Step(g.area())
		return
	}
	g.sim.Step(g.area())
	g.collector.Record(g.sim.Counts())
	g.flushTelemetry(false)
	if g.sim.Done() {
		g.finish()
	}
}

// Tick returns the number of steps in the current run.
func (g *Game) Tick() int { return g.sim.Tick() }

// Done reports whether the current run has stopped growing.
func (g *Game) Done() bool { return g.sim.Done() }

// Simulation exposes the underlying simulation.
func (g *Game) Simulation() *sim.Simulation { return g.sim }

// Unload releases GPU resources and closes output files. A run that has not
// finished still gets its node dump.
func (g *Game) Unload() {
	if !g.finished {
		g.writeFinalOutputs()
	}
	if !g.headless && g.canvasW > 0 {
		rl.UnloadRenderTexture(g.canvas)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output files", "error", err)
	}
}
