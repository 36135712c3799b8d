package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hyphae/components"
	"github.com/pthm-cable/hyphae/ui"
)

var background = rl.Black

// resizeCanvas reallocates the canvas at the window size and schedules a
// full repaint.
func (g *Game) resizeCanvas() {
	w, h := int32(g.screenWidth), int32(g.screenHeight)
	if g.canvasW > 0 {
		rl.UnloadRenderTexture(g.canvas)
	}
	g.canvas = rl.LoadRenderTexture(w, h)
	g.canvasW, g.canvasH = w, h
	g.redraw = true
}

// paintCanvas brings the canvas up to date. Nodes are append-only, so after a
// step only the trailing AddedThisTick nodes need drawing.
func (g *Game) paintCanvas() {
	rl.BeginTextureMode(g.canvas)
	if g.redraw {
		rl.ClearBackground(background)
		drawNodes(g.sim.Nodes())
		g.redraw = false
	} else {
		drawNodes(g.sim.Added())
	}
	rl.EndTextureMode()
	g.paintedTick = g.sim.Tick()
}

func drawNodes(nodes []components.Node) {
	for i := range nodes {
		n := &nodes[i]
		c := n.Center()
		rl.DrawCircleV(
			rl.Vector2{X: float32(c.X), Y: float32(c.Y)},
			float32(n.Radius()),
			toRaylib(n.Color),
		)
	}
}

func toRaylib(c components.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Draw renders the game state.
func (g *Game) Draw() {
	// Idle frames add nothing, so skip the texture pass unless a repaint is due
	if g.redraw || (g.sim.Tick() != g.paintedTick && g.sim.AddedThisTick() > 0) {
		g.paintCanvas()
	}

	rl.BeginDrawing()
	rl.ClearBackground(background)

	if g.sim.RevealIntermediate() {
		g.blitCanvas()
		g.drawSelection()
	}

	if g.showHUD {
		g.drawHUD()
	}
	if g.showPerf {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	rl.EndDrawing()
}

// blitCanvas draws the visible part of the canvas through the camera. Render
// textures are stored upside down, hence the negative source height.
func (g *Game) blitCanvas() {
	minX, minY, maxX, maxY := g.camera.VisibleWorldBounds()
	src := rl.Rectangle{
		X:      minX,
		Y:      float32(g.canvasH) - maxY,
		Width:  maxX - minX,
		Height: -(maxY - minY),
	}
	dst := rl.Rectangle{X: 0, Y: 0, Width: g.screenWidth, Height: g.screenHeight}
	rl.DrawTexturePro(g.canvas.Texture, src, dst, rl.Vector2{}, 0, rl.White)
}

func (g *Game) drawHUD() {
	s := g.sim
	actions := g.hud.Draw(ui.HUDData{
		Title:        "Hyphae",
		Tick:         s.Tick(),
		Nodes:        s.Len(),
		MaxNodes:     s.MaxNodes(),
		Active:       s.ActiveCount(),
		Branches:     s.Branches(),
		Frontier:     s.Frontier(),
		Seeds:        s.InitialPointCount(),
		RNGSeed:      s.Seed(),
		FPS:          rl.GetFPS(),
		Intermediate: s.RevealIntermediate(),
		Done:         s.Done(),
		Zoom:         g.camera.Zoom,
	})

	if actions.Seeds != s.InitialPointCount() {
		s.SetInitialPointCount(actions.Seeds)
	}
	if actions.Restart {
		g.restart()
	}
}
