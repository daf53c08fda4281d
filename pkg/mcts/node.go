package mcts

import (
	"fmt"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
)

// Tree node. Owns its board snapshot and children; Parent is a plain
// back-reference, only read for the visit count during selection.
type Node struct {
	Board    *uttt.Board
	Parent   *Node
	Move     uttt.Move
	Prior    float32
	Children []Node

	visits   int32
	valueSum float64
}

func newRootNode(board *uttt.Board) *Node {
	return &Node{Board: board, Move: uttt.NullMove}
}

func (node *Node) Visits() int32 {
	return node.visits
}

func (node *Node) ValueSum() float64 {
	return node.valueSum
}

// Mean value from the perspective of the side to move at this node,
// 0 if never visited
func (node *Node) Value() float64 {
	if node.visits == 0 {
		return 0
	}
	return node.valueSum / float64(node.visits)
}

// Add a value to the sum and count one visit
func (node *Node) Update(value float64) {
	node.valueSum += value
	node.visits++
}

// Same as asking if the node has children
func (node *Node) Expanded() bool {
	return len(node.Children) > 0
}

func (node *Node) Terminal() bool {
	return node.Board.IsFinished()
}

func (node *Node) String() string {
	return fmt.Sprintf("{move=%v, prior=%.3f, visits=%d, value=%.3f, children=%d}",
		node.Move, node.Prior, node.visits, node.Value(), len(node.Children))
}

// Helper function to count tree nodes
func countTreeNodes(node *Node) int {
	nodes := 1
	for i := range node.Children {
		nodes += countTreeNodes(&node.Children[i])
	}
	return nodes
}
