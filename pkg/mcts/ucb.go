package mcts

import "math"

// PUCT score of a child, seen from its parent:
//
//	c * prior * sqrt(parent visits) / (child visits + eps) - child value
//
// The child's value is negated, since it is stored from the perspective of
// the side to move at the child (the parent's opponent).
func UCB(child *Node) float64 {
	parentVisits := 0.0
	if child.Parent != nil {
		parentVisits = float64(child.Parent.visits)
	}

	exploration := ExplorationParam * float64(child.Prior) *
		math.Sqrt(parentVisits) / (float64(child.visits) + Epsilon)
	return exploration - child.Value()
}

// Pick the child with the highest UCB score, the first one on ties.
// Returns nil for an unexpanded node.
func Select(node *Node) *Node {
	if !node.Expanded() {
		return nil
	}

	best := math.Inf(-1)
	index := 0
	for i := range node.Children {
		if score := UCB(&node.Children[i]); score > best {
			best = score
			index = i
		}
	}
	return &node.Children[index]
}
