package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hyphae/components"
)

// Inspector renders a small panel describing one node.
type Inspector struct {
	renderer *Renderer
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		width:    width,
	}
}

// Draw renders the panel for n next to the screen point (x, y), flipping to
// the other side when it would leave the screen.
func (ins *Inspector) Draw(n components.Node, x, y, screenW, screenH int32) {
	r := ins.renderer
	pad := r.Theme.Padding
	height := 9*r.Theme.LineHeight + 2*pad + 2

	px, py := x+16, y+16
	if px+ins.width > screenW {
		px = x - 16 - ins.width
	}
	if py+height > screenH {
		py = y - 16 - height
	}
	r.DrawPanel(px, py, ins.width, height)

	cx := px + pad
	cy := r.DrawSectionHeader(cx, py+pad, fmt.Sprintf("Node %d", n.ID))
	cy = r.DrawLabelValue(cx, cy, "Branch", fmt.Sprintf("%d", n.Branch))
	cy = r.DrawLabelValue(cx, cy, "Position", fmt.Sprintf("%.1f, %.1f", n.Circle.Center.X, n.Circle.Center.Y))
	cy = r.DrawLabelValue(cx, cy, "Radius", fmt.Sprintf("%.2f", n.Circle.Radius))
	cy = r.DrawLabelValue(cx, cy, "Heading", fmt.Sprintf("%.1f deg", n.Direction))
	cy = r.DrawLabelValue(cx, cy, "Jitter", fmt.Sprintf("%.2f deg", n.Jitter))
	cy = r.DrawLabelValue(cx, cy, "Spacing", fmt.Sprintf("%.2f", n.Spacing))
	cy = r.DrawLabelValue(cx, cy, "Spawned", fmt.Sprintf("%v", n.Spawned))
	r.DrawColorSwatch(cx, cy, "Color", rl.Color{R: n.Color.R, G: n.Color.G, B: n.Color.B, A: 255})
}
