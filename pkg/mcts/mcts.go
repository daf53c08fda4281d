// Package mcts implements a neural-guided Monte Carlo tree search for
// Ultimate Tic-Tac-Toe: PUCT selection, expansion from a policy/value
// evaluator, negamax backpropagation and a self-play driver producing
// training examples.
package mcts

import (
	"fmt"
	"time"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog/log"
)

// Search tree over a private copy of the game, the caller's board is never
// touched. Not safe for concurrent use.
type Tree struct {
	Root        *Node
	eval        Evaluator
	limits      *Limits
	listener    *StatsListener
	simulations int
	start       time.Time
}

// Create new tree rooted at a copy of given board, the root is expanded
// right away unless the game is already over
func NewTree(board *uttt.Board, eval Evaluator) (*Tree, error) {
	tree := &Tree{
		Root:     newRootNode(board.Clone()),
		eval:     eval,
		limits:   DefaultLimits(),
		listener: &StatsListener{nSimulations: 1},
	}

	if !tree.Root.Terminal() {
		if _, err := Expand(tree.Root, eval); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func (tree *Tree) SetLimits(limits *Limits) {
	tree.limits = limits
}

func (tree *Tree) Limits() *Limits {
	return tree.limits
}

func (tree *Tree) StatsListener() *StatsListener {
	return tree.listener
}

func (tree *Tree) SetListener(listener StatsListener) {
	*tree.listener = listener
}

func (tree *Tree) ResetListener() {
	tree.listener.OnSimulation(nil).OnStop(nil)
}

// Number of simulations ran by the last search
func (tree *Tree) Simulations() int {
	return tree.simulations
}

func (tree *Tree) elapsed() time.Duration {
	if tree.start.IsZero() {
		return 0
	}
	return time.Since(tree.start)
}

// Run Limits.Simulations trajectories from the root
func (tree *Tree) Search() error {
	if tree.Root.Terminal() {
		return ErrGameOver
	}

	tree.simulations = 0
	tree.start = time.Now()
	for range tree.limits.Simulations {
		if _, err := Trajectory(tree.Root, tree.eval); err != nil {
			return err
		}
		tree.simulations++
		tree.listener.invokeSimulation(tree)
	}

	log.Debug().
		Int("simulations", tree.simulations).
		Int32("visits", tree.Root.Visits()).
		Stringer("best", tree.BestMove()).
		Float64("value", tree.RootValue()).
		Dur("elapsed", tree.elapsed()).
		Msg("mcts search finished")

	tree.listener.invokeStop(tree)
	return nil
}

// Get the size of the tree (by counting)
func (tree *Tree) Size() int {
	return countTreeNodes(tree.Root)
}

// Return the most visited child, the first one on ties, nil if the node has
// no visited children
func (tree *Tree) BestChild(node *Node) *Node {
	return mostVisited(node)
}

func mostVisited(node *Node) *Node {
	var best *Node
	maxVisits := int32(0)
	for i := range node.Children {
		if v := node.Children[i].visits; v > maxVisits {
			maxVisits = v
			best = &node.Children[i]
		}
	}
	return best
}

// 'the best move' in the position, NullMove if nothing was searched
func (tree *Tree) BestMove() uttt.Move {
	if best := mostVisited(tree.Root); best != nil {
		return best.Move
	}
	return uttt.NullMove
}

// Current evaluation of the position, from the root's side to move perspective
func (tree *Tree) RootValue() float64 {
	return tree.Root.Value()
}

// Visit distribution over the root's children, see VisitPolicy
func (tree *Tree) Policy() [PolicySize]float32 {
	return VisitPolicy(tree.Root)
}

// Distribution of the children's visit counts, indexed by Move.Index. Moves
// that are not children (illegal ones) get zero mass. If no child was visited
// yet, the priors are returned instead.
func VisitPolicy(node *Node) [PolicySize]float32 {
	var policy [PolicySize]float32
	total := int32(0)
	for i := range node.Children {
		total += node.Children[i].visits
	}

	for i := range node.Children {
		child := &node.Children[i]
		if total > 0 {
			policy[child.Move.Index()] = float32(child.visits) / float32(total)
		} else {
			policy[child.Move.Index()] = child.Prior
		}
	}
	return policy
}

// Get the principal variation (ie. the best sequence of moves) by following
// the most visited children from the root
func (tree *Tree) Pv() []uttt.Move {
	pv := make([]uttt.Move, 0, 8)
	for node := mostVisited(tree.Root); node != nil; node = mostVisited(node) {
		pv = append(pv, node.Move)
	}
	return pv
}

// Tries to make given 'move' a new root, keeping its subtree. Returns false
// and leaves the tree untouched if the move is not a child of the root.
func (tree *Tree) MakeMove(move uttt.Move) bool {
	var newRoot *Node
	for i := range tree.Root.Children {
		if tree.Root.Children[i].Move == move {
			newRoot = &tree.Root.Children[i]
			break
		}
	}

	if newRoot == nil {
		return false
	}

	oldRoot := tree.Root
	tree.Root = newRoot

	// Detach the new root from its parent
	newRoot.Parent = nil

	// Clear the children of the old root, to make them available for GC
	oldRoot.Children = nil
	return true
}

func (tree *Tree) String() string {
	return fmt.Sprintf("Tree={Size=%d, Simulations=%d, Limits=%v, Root=%v}",
		tree.Size(), tree.simulations, tree.limits, tree.Root)
}
