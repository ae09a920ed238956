//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"rps-swarm/internal/sims/swarm"
)

const (
	velocityScale = 12.0
	headAngle     = math.Pi / 6
	headLength    = 5.0
	hint          = "Click: add entity  A: add 10  C: clear  Space: pause  N: step  R/S: reset  +/-: speed  1/2: overlays  H: hint"
)

var (
	counterColor  = color.RGBA{A: 180}
	hintColor     = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	velocityColor = color.RGBA{R: 30, G: 110, B: 220, A: 255}
	radiusColor   = color.RGBA{R: 40, G: 170, B: 80, A: 200}
)

// Overlay draws the population counter and optional debugging visuals on top
// of the arena.
type Overlay struct {
	scale        float64
	showVelocity bool
	showRadius   bool
	showHint     bool
}

// NewOverlay constructs an overlay for an arena drawn at scale pixels per unit.
func NewOverlay(scale float64) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	return &Overlay{scale: scale, showHint: true}
}

// Update toggles layers: 1 velocity vectors, 2 collision radii, H the key hint.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showVelocity = !o.showVelocity
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showRadius = !o.showRadius
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showHint = !o.showHint
	}
}

// Draw renders the enabled layers for snap onto an arena of the given height.
func (o *Overlay) Draw(screen *ebiten.Image, snap []swarm.EntityState, height int) {
	s := o.scale
	for i := range snap {
		e := &snap[i]
		cx, cy := e.X*s, e.Y*s
		if o.showRadius {
			vector.StrokeCircle(screen, float32(cx), float32(cy), float32(e.Radius*s), 1, radiusColor, true)
		}
		if o.showVelocity {
			o.drawArrow(screen, cx, cy, cx+e.VX*velocityScale*s, cy+e.VY*velocityScale*s)
		}
	}

	face := basicfont.Face7x13
	counts := swarm.CountKinds(snap)
	text.Draw(screen, counts.String(), face, 8, 20, counterColor)
	if k, ok := counts.Dominant(); ok {
		text.Draw(screen, k.Label()+" wins", face, 8, 36, counterColor)
	}
	if o.showHint {
		text.Draw(screen, hint, face, 8, height-8, hintColor)
	}
}

func (o *Overlay) drawArrow(screen *ebiten.Image, x1, y1, x2, y2 float64) {
	dx, dy := x2-x1, y2-y1
	if math.Hypot(dx, dy) < 1e-4 {
		return
	}
	vector.StrokeLine(screen, float32(x1), float32(y1), float32(x2), float32(y2), 1.2, velocityColor, true)
	angle := math.Atan2(dy, dx)
	for _, side := range [2]float64{-1, 1} {
		a := angle + math.Pi + side*headAngle
		hx := x2 + math.Cos(a)*headLength
		hy := y2 + math.Sin(a)*headLength
		vector.StrokeLine(screen, float32(x2), float32(y2), float32(hx), float32(hy), 1.2, velocityColor, true)
	}
}
