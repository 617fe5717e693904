package optim

import (
	"context"
	"fmt"
	"math"
)

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Score  float64
}

// GridSearch evaluates every combination of parameter values and keeps the
// lowest score.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("grid search: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("grid search: no values for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of trials Search will run.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search calls eval for each grid point in order and returns the best trial
// along with all of them. It stops at the first error.
func (g *GridSearch) Search(
	ctx context.Context,
	eval func(ctx context.Context, params map[string]float64) (float64, error),
) (Trial, []Trial, error) {
	best := Trial{Score: math.Inf(1)}
	trials := make([]Trial, 0, g.Size())

	err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, &best, &trials)
	return best, trials, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval func(context.Context, map[string]float64) (float64, error),
	best *Trial,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		score, err := eval(ctx, current)
		if err != nil {
			return fmt.Errorf("grid search at %v: %w", current, err)
		}

		trial := Trial{Params: current, Score: score}
		*trials = append(*trials, trial)
		if score < best.Score {
			*best = trial
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, eval, best, trials); err != nil {
			return err
		}
	}
	return nil
}
