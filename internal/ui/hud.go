//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"rps-swarm/internal/core"
	"rps-swarm/internal/sims/swarm"
)

// Stats is the per-frame run state shown above the controls.
type Stats struct {
	Ticks  uint64
	Counts swarm.Counts
	TPS    int
	Paused bool
	Seed   int64
}

// HUD renders the parameter panel to the right of the arena.
type HUD struct {
	sim   core.Sim
	width int
	panel *ebiten.Image
	title string

	stats    Stats
	snapshot core.ParameterSnapshot
	controls []hudControl

	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
	offsetX     int
}

type hudControl struct {
	core.ParameterControl
	value    float64
	text     string
	hasValue bool

	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// NewHUD constructs a panel of the given pixel width. A width of zero hides it.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: "Controls"}
	if sim != nil && sim.Name() != "" {
		name := sim.Name()
		h.title = strings.ToUpper(name[:1]) + name[1:]
	}
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		for _, c := range p.ParameterControls() {
			h.controls = append(h.controls, hudControl{ParameterControl: c, text: "--"})
		}
	}
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	h.layout()
	return h
}

// Update refreshes parameter values and handles clicks on the +/- buttons.
// It reports whether the click landed on the panel.
func (h *HUD) Update(offsetX int, stats Stats) bool {
	if h == nil || h.width <= 0 {
		return false
	}
	h.offsetX = offsetX
	h.stats = stats
	if p, ok := h.sim.(core.ParameterProvider); ok {
		h.snapshot = p.Parameters()
	}
	h.refresh()

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	if mx < offsetX {
		return false
	}
	px := mx - offsetX
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case pointInRect(px, my, c.minus):
			h.adjust(c, -1)
		case pointInRect(px, my, c.plus):
			h.adjust(c, 1)
		}
	}
	return true
}

func (h *HUD) refresh() {
	for i := range h.controls {
		c := &h.controls[i]
		c.hasValue = false
		c.text = "--"
		p, ok := h.snapshot.Lookup(c.Key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(p.Value, 64)
		if err != nil {
			continue
		}
		c.value = v
		c.hasValue = true
		if c.Type == core.ParamTypeInt {
			c.text = strconv.Itoa(int(v))
		} else {
			c.text = formatStep(c.Step, v)
		}
	}
}

// target is the value one click in direction would set, or false when the
// click would do nothing.
func (h *HUD) target(c *hudControl, direction int) (float64, bool) {
	if !c.hasValue {
		return 0, false
	}
	step := c.Step
	switch c.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return 0, false
		}
		step = math.Max(1, math.Round(step))
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return 0, false
		}
		if step <= 0 {
			step = 0.05
		}
	default:
		return 0, false
	}
	t := c.value + float64(direction)*step
	if c.HasMin {
		t = math.Max(t, c.Min)
	}
	if c.HasMax {
		t = math.Min(t, c.Max)
	}
	return t, math.Abs(t-c.value) > 1e-9
}

func (h *HUD) adjust(c *hudControl, direction int) {
	t, ok := h.target(c, direction)
	if !ok {
		return
	}
	if c.Type == core.ParamTypeInt {
		h.intSetter.SetIntParameter(c.Key, int(math.Round(t)))
		return
	}
	h.floatSetter.SetFloatParameter(c.Key, t)
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelColor)

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, headerColor)

	y += statLine
	state := "running"
	if h.stats.Paused {
		state = "paused"
	}
	text.Draw(h.panel, fmt.Sprintf("tick %d  %s", h.stats.Ticks, state), face, panelPadding, y, dimColor)
	y += statLine
	text.Draw(h.panel, fmt.Sprintf("%d tps  seed %d", h.stats.TPS, h.stats.Seed), face, panelPadding, y, dimColor)
	for _, k := range swarm.Kinds {
		y += statLine
		vector.DrawFilledRect(h.panel, panelPadding, float32(y-10), 10, 10, k.Color(), false)
		text.Draw(h.panel, fmt.Sprintf("%-9s %d", k.Label(), h.stats.Counts.Of(k)), face, panelPadding+16, y, labelColor)
	}

	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, controlsTop+labelBaseline, dimColor)
	}
	for i := range h.controls {
		c := &h.controls[i]
		baseline := c.top + labelBaseline
		text.Draw(h.panel, c.Label, face, panelPadding, baseline, labelColor)
		col := labelColor
		if !c.hasValue {
			col = dimColor
		}
		w := text.BoundString(face, c.text).Dx()
		text.Draw(h.panel, c.text, face, c.minus.Min.X-buttonGap-w, baseline, col)
		_, canDown := h.target(c, -1)
		_, canUp := h.target(c, 1)
		h.drawButton(c.minus, "-", canDown)
		h.drawButton(c.plus, "+", canUp)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(r image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, labelColor
	if !enabled {
		bg, fg = buttonDisabled, dimColor
	}
	vector.DrawFilledRect(h.panel, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), bg, false)
	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := r.Min.X + (r.Dx()-b.Dx())/2
	y := r.Min.Y + (r.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layout() {
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		by := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, by, h.width-panelPadding, by+buttonSize)
		h.controls[i].top = top
		h.controls[i].plus = plus
		h.controls[i].minus = plus.Sub(image.Pt(buttonSize+buttonGap, 0))
	}
}

func formatStep(step, v float64) string {
	precision := 1
	switch {
	case step <= 0:
		precision = 2
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func pointInRect(x, y int, r image.Rectangle) bool {
	return image.Pt(x, y).In(r)
}

var (
	panelColor     = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	headerColor    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor     = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor       = color.RGBA{R: 150, G: 150, B: 160, A: 255}
	buttonColor    = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonDisabled = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 32
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 21
	statLine       = 16
	controlsTop    = panelPadding + headerBaseline + 6*statLine + 12
)
