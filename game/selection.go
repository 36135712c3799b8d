package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hyphae/components"
	"github.com/pthm-cable/hyphae/geom"
)

// nodeAtMouse returns the node under the cursor, if any.
func (g *Game) nodeAtMouse() (components.Node, bool) {
	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	return g.sim.NodeAt(geom.V(float64(wx), float64(wy)))
}

// drawSelection outlines the hovered node and shows its inspector.
func (g *Game) drawSelection() {
	n, ok := g.nodeAtMouse()
	if !ok {
		return
	}

	c := n.Center()
	sx, sy := g.camera.WorldToScreen(float32(c.X), float32(c.Y))
	radius := float32(n.Radius())*g.camera.Zoom + 2
	rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, radius, rl.White)

	mouse := rl.GetMousePosition()
	g.inspector.Draw(n, int32(mouse.X), int32(mouse.Y), int32(g.screenWidth), int32(g.screenHeight))
}
