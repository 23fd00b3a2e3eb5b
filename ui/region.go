package ui

import (
	"math"

	"github.com/charmbracelet/bubbles/viewport"
)

// viewportRegion exposes a bubbles viewport to the scroll synchronizer
type viewportRegion struct {
	vp *viewport.Model
}

func (r viewportRegion) Offset() float64 {
	return float64(r.vp.YOffset)
}

func (r viewportRegion) SetOffset(offset float64) {
	r.vp.SetYOffset(int(math.Round(offset)))
}

func (r viewportRegion) ScrollRange() float64 {
	rng := r.vp.TotalLineCount() - r.vp.Height
	if rng < 0 {
		return 0
	}
	return float64(rng)
}
