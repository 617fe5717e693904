package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/holesim/internal/dynamo"
	"github.com/san-kum/holesim/internal/sim"
)

const Default = "semi_implicit"

var registry = map[string]func() sim.Integrator{
	"semi_implicit": func() sim.Integrator { return NewSemiImplicit() },
	"symplectic":    func() sim.Integrator { return NewSemiImplicit() },
	"explicit":      func() sim.Integrator { return NewExplicit() },
	"euler":         func() sim.Integrator { return NewExplicit() },
}

// ByName returns a fresh integrator. An empty name selects the default.
func ByName(name string) (sim.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
