package mcts

import "github.com/IlikeChooros/go-uttt/pkg/uttt"

// Run a single depth-first simulation from node. The returned value is the
// outcome of the move that led into node, seen by the player who made it
// (the side to move at the parent), every node on the path stores values from
// its own side to move perspective:
//
//   - terminal draw: update with 0, return 0
//   - terminal win of the side to move here: update +1, return -1
//   - terminal win of the previous mover: update -1, return +1
//   - unexpanded node: expand it, return the negated network value
//   - otherwise: recurse into the best UCB child, update with its result,
//     return the negation
func Trajectory(node *Node, eval Evaluator) (float64, error) {
	if res := node.Board.Result(); res != uttt.ResultNone {
		winner, decided := res.Winner()
		switch {
		case !decided:
			node.Update(0)
			return 0, nil
		case winner == node.Board.Turn():
			node.Update(1)
			return -1, nil
		default:
			node.Update(-1)
			return 1, nil
		}
	}

	if !node.Expanded() {
		value, err := Expand(node, eval)
		if err != nil {
			return 0, err
		}
		return -value, nil
	}

	result, err := Trajectory(Select(node), eval)
	if err != nil {
		return 0, err
	}
	node.Update(result)
	return -result, nil
}

// Run given number of trajectories from root. Evaluator failures abort the
// search and are returned as is.
func Search(root *Node, simulations int, eval Evaluator) error {
	for range simulations {
		if _, err := Trajectory(root, eval); err != nil {
			return err
		}
	}
	return nil
}
