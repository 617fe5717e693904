package config

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/integrators"
	"github.com/san-kum/holesim/internal/physics"
	"github.com/san-kum/holesim/internal/sim"
)

const (
	DefaultDt        = 0.001
	DefaultDuration  = 5.0
	DefaultGravity   = 0.01
	DefaultBlueAlpha = 0.4
)

type Config struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Integrator  string          `yaml:"integrator"`
	Dt          float64         `yaml:"dt"`
	Duration    float64         `yaml:"duration"`
	Gravity     float64         `yaml:"gravity"`
	Softening   float64         `yaml:"softening"`
	Parallel    bool            `yaml:"parallel"`
	Seed        int64           `yaml:"seed"`
	BreakJitter float64         `yaml:"break_jitter"`
	AutoOrbit   bool            `yaml:"auto_orbit"`
	Body        BodyConfig      `yaml:"body"`
	Colors      ColorConfig     `yaml:"colors"`
	Bodies      []BodySpec      `yaml:"bodies"`
	Attractors  []AttractorSpec `yaml:"attractors"`
}

type BodyConfig struct {
	Mass   float64 `yaml:"mass"`
	Radius float64 `yaml:"radius"`
}

type ColorConfig struct {
	Cue        string  `yaml:"cue"`
	Red        string  `yaml:"red"`
	Blue       string  `yaml:"blue"`
	BlueAlpha  float64 `yaml:"blue_alpha"`
	Reach      string  `yaml:"reach"`
	Horizon    string  `yaml:"horizon"`
	Background string  `yaml:"background"`
}

type BodySpec struct {
	Kind string    `yaml:"kind"`
	Pos  []float64 `yaml:"pos,flow"`
	Vel  []float64 `yaml:"vel,flow,omitempty"`
}

type AttractorSpec struct {
	Pos    []float64 `yaml:"pos,flow"`
	Mass   float64   `yaml:"mass"`
	Radius float64   `yaml:"radius"`
	Reach  float64   `yaml:"reach"`
}

func DefaultColors() ColorConfig {
	return ColorConfig{
		Cue:        "#ffffff",
		Red:        "#ff0000",
		Blue:       "#0000ff",
		BlueAlpha:  DefaultBlueAlpha,
		Reach:      "#ffff00",
		Horizon:    "#444444",
		Background: "#000000",
	}
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "default",
		Integrator: integrators.Default,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Gravity:    DefaultGravity,
		Body: BodyConfig{
			Mass:   physics.DefaultMass,
			Radius: physics.DefaultRadius,
		},
		Colors: DefaultColors(),
		Bodies: []BodySpec{
			{Kind: "cue", Pos: []float64{0.2, 0.5}, Vel: []float64{0.3, 0.02}},
		},
		Attractors: []AttractorSpec{
			{Pos: []float64{0.7, 0.5}, Mass: 1.0, Radius: 0.04, Reach: 0.3},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig. Lists in the document replace the
// default bodies and attractors rather than merging with them.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Bodies = nil
	cfg.Attractors = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Marshal(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

func Save(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrParameterBounds, c.Duration)
	}
	if c.Gravity < 0 || c.Softening < 0 || c.BreakJitter < 0 {
		return fmt.Errorf("%w: gravity, softening and break_jitter must not be negative", dynamo.ErrParameterBounds)
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return err
	}
	if err := c.bodyParams().Validate(); err != nil {
		return err
	}
	if err := c.Colors.Validate(); err != nil {
		return err
	}

	for i, b := range c.Bodies {
		if _, err := physics.ParseKind(b.Kind); err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
		if len(b.Pos) != 2 {
			return fmt.Errorf("body %d: %w: pos needs 2 coordinates, got %d", i, dynamo.ErrParameterBounds, len(b.Pos))
		}
		if len(b.Vel) != 0 && len(b.Vel) != 2 {
			return fmt.Errorf("body %d: %w: vel needs 2 components, got %d", i, dynamo.ErrParameterBounds, len(b.Vel))
		}
	}

	for i, a := range c.Attractors {
		if len(a.Pos) != 2 {
			return fmt.Errorf("attractor %d: %w: pos needs 2 coordinates, got %d", i, dynamo.ErrParameterBounds, len(a.Pos))
		}
		if err := a.attractor().Validate(); err != nil {
			return fmt.Errorf("attractor %d: %w", i, err)
		}
	}

	return nil
}

func (cc ColorConfig) Validate() error {
	named := []struct{ name, hex string }{
		{"cue", cc.Cue}, {"red", cc.Red}, {"blue", cc.Blue},
		{"reach", cc.Reach}, {"horizon", cc.Horizon}, {"background", cc.Background},
	}
	for _, n := range named {
		if _, err := colorful.Hex(n.hex); err != nil {
			return fmt.Errorf("%w: colour %s %q: %v", dynamo.ErrParameterBounds, n.name, n.hex, err)
		}
	}
	if cc.BlueAlpha < 0 || cc.BlueAlpha > 1 {
		return fmt.Errorf("%w: blue_alpha must be within [0,1], got %g", dynamo.ErrParameterBounds, cc.BlueAlpha)
	}
	return nil
}

func (c *Config) bodyParams() physics.BodyParams {
	return physics.BodyParams{Mass: c.Body.Mass, Radius: c.Body.Radius}
}

func (a AttractorSpec) attractor() physics.Attractor {
	return physics.NewAttractor(vec(a.Pos), a.Mass, a.Radius, a.Reach)
}

func vec(v []float64) dynamo.Vec2 {
	if len(v) < 2 {
		return dynamo.Vec2{}
	}
	return dynamo.Vec2{X: v[0], Y: v[1]}
}

func (c *Config) Physics() sim.Physics {
	return sim.Physics{G: c.Gravity, Softening: c.Softening, Parallel: c.Parallel}
}

func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = c.Dt
	cfg.Duration = c.Duration
	cfg.Seed = c.Seed
	return cfg
}

func (c *Config) AttractorList() []physics.Attractor {
	out := make([]physics.Attractor, len(c.Attractors))
	for i, a := range c.Attractors {
		out[i] = a.attractor()
	}
	return out
}

// BuildWorld validates the config and constructs a world. Moving bodies
// have their heading rotated by up to ±BreakJitter radians drawn from
// seed; with AutoOrbit, bodies at rest are put on a circular orbit around
// the nearest attractor that reaches them.
func (c *Config) BuildWorld(seed int64) (*sim.World, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	integ, err := integrators.ByName(c.Integrator)
	if err != nil {
		return nil, err
	}

	attractors := c.AttractorList()
	w := sim.NewWorld(attractors, integ, c.Physics())
	rng := rand.New(rand.NewSource(seed))
	params := c.bodyParams()

	for _, spec := range c.Bodies {
		kind, _ := physics.ParseKind(spec.Kind)
		b := physics.NewBodyWithParams(vec(spec.Pos), kind, params)
		b.SetVelocity(vec(spec.Vel))

		if !b.IsStationary() && c.BreakJitter > 0 {
			angle := (rng.Float64()*2 - 1) * c.BreakJitter
			b.SetVelocity(rotate(b.Velocity, angle))
		}
		if b.IsStationary() && c.AutoOrbit {
			b.SetVelocity(orbitVelocity(b.Position, attractors, c.Gravity))
		}

		w.AddBody(b)
	}

	return w, nil
}

func rotate(v dynamo.Vec2, angle float64) dynamo.Vec2 {
	sin, cos := math.Sincos(angle)
	return dynamo.Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

func orbitVelocity(p dynamo.Vec2, attractors []physics.Attractor, g float64) dynamo.Vec2 {
	best := -1
	bestDist := math.MaxFloat64
	for i, a := range attractors {
		if d := a.Position.Dist(p); d < bestDist && a.InReach(p) {
			best, bestDist = i, d
		}
	}
	if best < 0 || bestDist == 0 {
		return dynamo.Vec2{}
	}

	a := attractors[best]
	radial := p.Sub(a.Position).Normalize()
	return radial.Perp().Scale(a.OrbitalSpeed(bestDist, g))
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies = make([]BodySpec, len(c.Bodies))
	for i, b := range c.Bodies {
		out.Bodies[i] = BodySpec{
			Kind: b.Kind,
			Pos:  append([]float64(nil), b.Pos...),
			Vel:  append([]float64(nil), b.Vel...),
		}
	}
	out.Attractors = make([]AttractorSpec, len(c.Attractors))
	for i, a := range c.Attractors {
		out.Attractors[i] = a
		out.Attractors[i].Pos = append([]float64(nil), a.Pos...)
	}
	return &out
}

// Tunable lists the scalar fields SetParam accepts, by yaml name.
func Tunable() []string {
	return []string{"break_jitter", "dt", "duration", "gravity", "softening"}
}

// SetParam sets a scalar field by its yaml name.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "gravity":
		c.Gravity = v
	case "softening":
		c.Softening = v
	case "break_jitter":
		c.BreakJitter = v
	case "dt":
		c.Dt = v
	case "duration":
		c.Duration = v
	default:
		return fmt.Errorf("%w: unknown parameter %q", dynamo.ErrParameterBounds, name)
	}
	return nil
}
