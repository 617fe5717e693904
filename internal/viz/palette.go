package viz

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/holesim/internal/config"
	"github.com/san-kum/holesim/internal/physics"
)

type Palette struct {
	Cue        colorful.Color
	Red        colorful.Color
	Blue       colorful.Color
	Reach      colorful.Color
	Horizon    colorful.Color
	Background colorful.Color
}

func DefaultPalette() Palette {
	p, err := NewPalette(config.DefaultColors())
	if err != nil {
		panic(err)
	}
	return p
}

// NewPalette parses the configured hex colours. Blue is composited over
// the background at BlueAlpha since terminal and SVG output here are opaque.
func NewPalette(cc config.ColorConfig) (Palette, error) {
	var p Palette
	fields := []struct {
		dst  *colorful.Color
		name string
		hex  string
	}{
		{&p.Cue, "cue", cc.Cue},
		{&p.Red, "red", cc.Red},
		{&p.Blue, "blue", cc.Blue},
		{&p.Reach, "reach", cc.Reach},
		{&p.Horizon, "horizon", cc.Horizon},
		{&p.Background, "background", cc.Background},
	}
	for _, f := range fields {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("colour %s: %w", f.name, err)
		}
		*f.dst = c
	}

	p.Blue = p.Background.BlendRgb(p.Blue, cc.BlueAlpha).Clamped()
	return p, nil
}

func (p Palette) ForKind(k physics.Kind) colorful.Color {
	switch k {
	case physics.Red:
		return p.Red
	case physics.Blue:
		return p.Blue
	default:
		return p.Cue
	}
}

func (p Palette) Hex(k physics.Kind) string {
	return p.ForKind(k).Hex()
}
