package mcts

import (
	"fmt"
	"math"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
)

// Query the evaluator for the node's position, create one child per legal move
// with the softmax of its logit (over legal moves only) as the prior, then
// count the network value as the node's first visit. Returns that value.
// A node is expanded only once, a second call fails with ErrAlreadyExpanded.
func Expand(node *Node, eval Evaluator) (float64, error) {
	if node.Expanded() {
		return 0, ErrAlreadyExpanded
	}

	moves := node.Board.Moves()
	if len(moves) == 0 {
		return 0, ErrGameOver
	}

	pred, err := eval.Evaluate(node.Board.Features())
	if err != nil {
		return 0, fmt.Errorf("mcts: evaluate %s: %w", node.Board.Notation(), err)
	}
	if err := pred.Validate(); err != nil {
		return 0, err
	}

	priors := maskedSoftmax(&pred.Logits, moves)
	node.Children = make([]Node, len(moves))
	for i, move := range moves {
		board := node.Board.Clone()
		board.Play(move)
		node.Children[i] = Node{
			Board:  board,
			Parent: node,
			Move:   move,
			Prior:  priors[i],
		}
	}

	value := float64(pred.Value)
	node.Update(value)
	return value, nil
}

// Softmax of the logits of given moves, shifted by the max logit so exp
// cannot overflow
func maskedSoftmax(logits *[PolicySize]float32, moves []uttt.Move) []float32 {
	maxLogit := math.Inf(-1)
	for _, m := range moves {
		maxLogit = max(maxLogit, float64(logits[m.Index()]))
	}

	exps := make([]float64, len(moves))
	sum := 0.0
	for i, m := range moves {
		exps[i] = math.Exp(float64(logits[m.Index()]) - maxLogit)
		sum += exps[i]
	}

	priors := make([]float32, len(moves))
	for i := range exps {
		priors[i] = float32(exps[i] / sum)
	}
	return priors
}
