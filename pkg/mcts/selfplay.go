package mcts

import (
	"math/rand"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog/log"
)

// Training data of one self-play game, one entry per recorded ply. The final
// (terminal) position is not recorded.
type Examples struct {
	States   []uttt.Features
	Policies [][PolicySize]float32
	// +1 if the side to move at that ply won the game, -1 if it lost, 0 for draws
	Values []float32
	// Moves actually played, in order
	Moves  []uttt.Move
	Result uttt.Result
}

func (e *Examples) Len() int {
	return len(e.States)
}

// Play a full game from the starting position against itself, see SelfPlayFrom
func SelfPlay(eval Evaluator, simulations int, rng *rand.Rand) (*Examples, error) {
	return SelfPlayFrom(uttt.NewBoard(), eval, simulations, rng)
}

// Play the game from given position to the end. Before every move the root is
// searched with given number of simulations, the visit distribution is
// recorded as the target policy, and the next root is sampled from the
// children proportionally to their visits.
func SelfPlayFrom(board *uttt.Board, eval Evaluator, simulations int, rng *rand.Rand) (*Examples, error) {
	root := newRootNode(board.Clone())
	if root.Terminal() {
		return nil, ErrGameOver
	}
	if _, err := Expand(root, eval); err != nil {
		return nil, err
	}

	examples := &Examples{}
	var movers []uttt.Player

	for !root.Terminal() {
		if err := Search(root, max(1, simulations), eval); err != nil {
			return nil, err
		}

		examples.States = append(examples.States, *root.Board.Features())
		examples.Policies = append(examples.Policies, VisitPolicy(root))
		movers = append(movers, root.Board.Turn())

		next := sampleChild(root, rng)
		examples.Moves = append(examples.Moves, next.Move)

		// Re-root, the old root and its other children can be collected
		next.Parent = nil
		root.Children = nil
		root = next
	}

	examples.Result = root.Board.Result()
	examples.Values = make([]float32, len(movers))
	if winner, decided := examples.Result.Winner(); decided {
		for i, mover := range movers {
			if mover == winner {
				examples.Values[i] = 1
			} else {
				examples.Values[i] = -1
			}
		}
	}

	log.Debug().
		Int("plies", examples.Len()).
		Stringer("result", examples.Result).
		Msg("self-play game finished")
	return examples, nil
}

// Choose a child with probability proportional to its visit count, falls back
// to the priors when no child was visited
func sampleChild(node *Node, rng *rand.Rand) *Node {
	weights := VisitPolicy(node)
	total := 0.0
	for i := range node.Children {
		total += float64(weights[node.Children[i].Move.Index()])
	}

	r := rng.Float64() * total
	last := 0
	for i := range node.Children {
		w := float64(weights[node.Children[i].Move.Index()])
		if w == 0 {
			continue
		}
		last = i
		r -= w
		if r < 0 {
			return &node.Children[i]
		}
	}
	return &node.Children[last]
}
