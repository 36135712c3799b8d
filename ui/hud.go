package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/hyphae/telemetry"
)

// MaxSeedSlider is the upper end of the seed-count slider.
const MaxSeedSlider = 40

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int
	Nodes        int
	MaxNodes     int
	Active       int
	Branches     int
	Frontier     int
	Seeds        int
	RNGSeed      uint64
	FPS          int32
	Intermediate bool
	Done         bool
	Zoom         float32
}

// HUDActions reports what the user did with the HUD widgets this frame.
type HUDActions struct {
	Restart bool
	Seeds   int // requested seed count; equal to HUDData.Seeds when unchanged
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		x:        5,
		y:        5,
		width:    300,
	}
}

// Draw renders the HUD panel and its controls.
func (h *HUD) Draw(data HUDData) HUDActions {
	r := h.renderer
	pad := r.Theme.Padding
	height := 13*r.Theme.LineHeight + 3*pad + 24
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + pad
	y := h.y + pad
	inner := h.width - 2*pad

	y = r.DrawSectionHeader(x, y, data.Title)
	y = r.DrawLabelValue(x, y, "Points", fmt.Sprintf("%d/%d (%d active)", data.Nodes, data.MaxNodes, data.Active))
	y = r.DrawBar(x, y, "Capacity", float32(data.Nodes)/float32(max(data.MaxNodes, 1)), inner)
	y = r.DrawLabelValue(x, y, "Branches", fmt.Sprintf("%d", data.Branches))
	y = r.DrawLabelValue(x, y, "Frontier", fmt.Sprintf("%d", data.Frontier))
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
	y = r.DrawLabelValue(x, y, "RNG seed", fmt.Sprintf("%d", data.RNGSeed))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))

	status := "growing"
	if data.Done {
		status = "stable"
	}
	y = r.DrawLabelValue(x, y, "Status", status)

	onOff := "off"
	if data.Intermediate {
		onOff = "on"
	}
	y = r.DrawHint(x, y, fmt.Sprintf("intermediate rendering %s (f to toggle)", onOff))
	y = r.DrawHint(x, y, fmt.Sprintf("%d initial points (up/down to change)", data.Seeds))
	y += pad / 2

	actions := HUDActions{Seeds: data.Seeds}
	bounds := rl.Rectangle{X: float32(x + 40), Y: float32(y), Width: float32(inner - 80), Height: 16}
	value := gui.SliderBar(bounds, "seeds", fmt.Sprintf("%d", data.Seeds),
		float32(min(data.Seeds, MaxSeedSlider)), 0, MaxSeedSlider)
	dragging := rl.IsMouseButtonDown(rl.MouseButtonLeft) &&
		rl.CheckCollisionPointRec(rl.GetMousePosition(), bounds)
	actions.Seeds = sliderSeeds(data.Seeds, value, dragging)
	y += 22

	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: 120, Height: 22}, "Restart") {
		actions.Restart = true
	}
	y += 26

	r.DrawHint(x, y, fmt.Sprintf("zoom %.1fx (tab to show/hide)", data.Zoom))
	return actions
}

// sliderSeeds returns the seed count after a slider frame. The slider clamps
// to [0, MaxSeedSlider] even when untouched, so its value only counts while
// the user drags it; larger counts set from the keyboard survive otherwise.
func sliderSeeds(current int, value float32, dragging bool) int {
	if !dragging {
		return current
	}
	return int(value + 0.5)
}

// PerfPanel renders the step phase breakdown.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := telemetry.PhaseOrder()
	height := int32(len(phases)+3)*r.Theme.LineHeight + 2*r.Theme.Padding
	r.DrawPanel(p.x, p.y, 220, height)

	x := p.x + r.Theme.Padding
	y := r.DrawSectionHeader(x, p.y+r.Theme.Padding, "Step Performance")
	y = r.DrawLabelValue(x, y, "Avg step", stats.AvgTickDuration.Round(time.Microsecond).String())

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := r.Theme.LabelColor
		if pct > 50 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, r.Theme.FontSize, color,
		)
		y += r.Theme.LineHeight
	}
}
