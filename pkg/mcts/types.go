package mcts

import (
	"errors"
	"fmt"
	"math"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
)

// Other types, which didn't fit to the tree or node files

// Number of entries in the policy vector, one per (sub-board, cell) pair
const PolicySize = 81

var (
	ErrBadPrediction   = errors.New("mcts: evaluator returned a non-finite prediction")
	ErrAlreadyExpanded = errors.New("mcts: node is already expanded")
	ErrGameOver        = errors.New("mcts: game is over")
)

// Output of the neural evaluator: value estimate for the side to move and raw
// logits indexed by sub_board*9 + cell
type Prediction struct {
	Value  float32
	Logits [PolicySize]float32
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// Check the prediction contains only finite numbers
func (p *Prediction) Validate() error {
	if !finite(p.Value) {
		return fmt.Errorf("%w: value=%v", ErrBadPrediction, p.Value)
	}
	for i, l := range p.Logits {
		if !finite(l) {
			return fmt.Errorf("%w: logit[%d]=%v", ErrBadPrediction, i, l)
		}
	}
	return nil
}

// Policy/value network contract. Implementations must not keep references to
// the features after returning.
type Evaluator interface {
	Evaluate(f *uttt.Features) (Prediction, error)
}

// Adapter to use ordinary functions as evaluators
type EvaluatorFunc func(f *uttt.Features) (Prediction, error)

func (fn EvaluatorFunc) Evaluate(f *uttt.Features) (Prediction, error) {
	return fn(f)
}

// Evaluator without any knowledge, value 0 and flat priors. Turns the search
// into plain visit-count driven exploration.
type UniformEvaluator struct{}

func (UniformEvaluator) Evaluate(*uttt.Features) (Prediction, error) {
	return Prediction{}, nil
}

type SeedGeneratorFnType func() int64
