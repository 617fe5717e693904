package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/physics"
)

var Presets = map[string]*Config{
	"break": {
		Name:        "break",
		Description: "cue breaks a rack that sits in front of a blackhole",
		Integrator:  "semi_implicit", Dt: 0.001, Duration: 8.0, Gravity: 0.01, BreakJitter: 0.05,
		Body:   BodyConfig{Mass: physics.DefaultMass, Radius: physics.DefaultRadius},
		Colors: DefaultColors(),
		Bodies: append(
			[]BodySpec{{Kind: "cue", Pos: []float64{0.15, 0.5}, Vel: []float64{0.5, 0}}},
			rack(0.55, 0.5, 4, 0.021)...,
		),
		Attractors: []AttractorSpec{
			{Pos: []float64{0.85, 0.5}, Mass: 1.0, Radius: 0.04, Reach: 0.3},
		},
	},
	"binary": {
		Name:        "binary",
		Description: "a cue shot between two blackholes",
		Integrator:  "semi_implicit", Dt: 0.001, Duration: 10.0, Gravity: 0.01, BreakJitter: 0.02,
		Body:   BodyConfig{Mass: physics.DefaultMass, Radius: physics.DefaultRadius},
		Colors: DefaultColors(),
		Bodies: append(
			[]BodySpec{{Kind: "cue", Pos: []float64{0.5, 0.05}, Vel: []float64{0, 0.25}}},
			grid(0.2, 0.8, 0.2, 0.8, 4, "blue")...,
		),
		Attractors: []AttractorSpec{
			{Pos: []float64{0.35, 0.5}, Mass: 1.0, Radius: 0.03, Reach: 0.2},
			{Pos: []float64{0.65, 0.5}, Mass: 1.0, Radius: 0.03, Reach: 0.2},
		},
	},
	"orbit": {
		Name:        "orbit",
		Description: "balls on circular orbits around a single blackhole",
		Integrator:  "semi_implicit", Dt: 0.0005, Duration: 20.0, Gravity: 0.01, AutoOrbit: true,
		Body:       BodyConfig{Mass: physics.DefaultMass, Radius: physics.DefaultRadius},
		Colors:     DefaultColors(),
		Bodies:     ring(0.5, 0.5, []float64{0.12, 0.2, 0.28, 0.36}, 6),
		Attractors: []AttractorSpec{{Pos: []float64{0.5, 0.5}, Mass: 1.0, Radius: 0.03, Reach: 0.45}},
	},
	"spaghetti": {
		Name:        "spaghetti",
		Description: "a grid of resting balls falls into one blackhole",
		Integrator:  "semi_implicit", Dt: 0.001, Duration: 10.0, Gravity: 0.02,
		Body:       BodyConfig{Mass: physics.DefaultMass, Radius: physics.DefaultRadius},
		Colors:     DefaultColors(),
		Bodies:     grid(0.25, 0.75, 0.25, 0.75, 6, "red"),
		Attractors: []AttractorSpec{{Pos: []float64{0.5, 0.5}, Mass: 1.0, Radius: 0.05, Reach: 0.4}},
	},
}

// rack lays out a triangle of alternating red and blue balls with its apex
// at (x, y) pointing towards negative x.
func rack(x, y float64, rows int, spacing float64) []BodySpec {
	kinds := []string{"red", "blue"}
	var out []BodySpec
	n := 0
	for row := 0; row < rows; row++ {
		cx := x + float64(row)*spacing*math.Sqrt(3)/2
		for j := 0; j <= row; j++ {
			cy := y + (float64(j)-float64(row)/2)*spacing
			out = append(out, BodySpec{Kind: kinds[n%2], Pos: []float64{cx, cy}})
			n++
		}
	}
	return out
}

func grid(x0, x1, y0, y1 float64, n int, kind string) []BodySpec {
	var out []BodySpec
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			x := x0 + (x1-x0)*float64(i)/float64(n-1)
			y := y0 + (y1-y0)*float64(j)/float64(n-1)
			out = append(out, BodySpec{Kind: kind, Pos: []float64{x, y}})
		}
	}
	return out
}

func ring(cx, cy float64, radii []float64, perRing int) []BodySpec {
	kinds := []string{"red", "blue"}
	var out []BodySpec
	for r, radius := range radii {
		for i := 0; i < perRing; i++ {
			angle := 2*math.Pi*float64(i)/float64(perRing) + float64(r)*0.4
			p := dynamo.Vec2{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)}
			out = append(out, BodySpec{Kind: kinds[r%2], Pos: []float64{p.X, p.Y}})
		}
	}
	return out
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve loads path when set, otherwise the named preset, otherwise the
// default scenario.
func Resolve(path, preset string) (*Config, error) {
	switch {
	case path != "":
		return Load(path)
	case preset != "":
		cfg := GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownPreset, preset)
		}
		return cfg, nil
	default:
		return DefaultConfig(), nil
	}
}
