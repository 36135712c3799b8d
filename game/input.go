package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.restart()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.showHUD = !g.showHUD
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.sim.SetRevealIntermediate(!g.sim.RevealIntermediate())
	}

	// Seed count applies on the next restart
	if rl.IsKeyPressed(rl.KeyUp) {
		g.sim.SetInitialPointCount(g.sim.InitialPointCount() + 1)
	}
	if rl.IsKeyPressed(rl.KeyDown) {
		g.sim.SetInitialPointCount(g.sim.InitialPointCount() - 1)
	}

	g.handleCameraInput()
}

// handleResize follows the window size. The play area is the window, so a
// resize reallocates and repaints the canvas.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h, w, h)
	g.perfPanel.SetPosition(int32(w)-230, 5)
	g.resizeCanvas()
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Zoom toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		g.camera.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	// Right-drag pans; the world follows the cursor
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		g.camera.Pan(-delta.X, -delta.Y)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
