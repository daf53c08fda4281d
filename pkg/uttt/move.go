package uttt

import (
	"fmt"
	"strings"
)

const (
	_moveSubBoardMask = 0b11110000
	_moveCellMask     = 0b1111
)

// Move packs (sub-board, cell) into a single byte, sub-board in the high nibble
type Move uint8

// Used as the bottom entry of the move stack
const NullMove Move = 255

// Create a move, based on sub-board and cell indexes
func NewMove(subBoard, cell int) Move {
	return Move((cell & _moveCellMask) | ((subBoard << 4) & _moveSubBoardMask))
}

// Inverse of Move.Index
func MoveFromIndex(index int) Move {
	return NewMove(index/9, index%9)
}

// Get the sub-board index of a move
func (m Move) SubBoard() int {
	return int(m&_moveSubBoardMask) >> 4
}

// Get the cell index within the sub-board
func (m Move) Cell() int {
	return int(m & _moveCellMask)
}

// Index in the 81-long policy vector: sub_board*9 + cell
func (m Move) Index() int {
	return m.SubBoard()*9 + m.Cell()
}

// Get string representation of the move, capital letter and digit select the
// sub-board, lower case letter and digit select the cell, for example
// sub-board = 7, cell = 2 -> B1c3
//
//	  A   B   C
//	  0 | 1 | 2   3
//	 -----------
//	  3 | 4 | 5   2
//	 -----------
//	  6 | 7 | 8   1
func (m Move) String() string {
	sub, cell := m.SubBoard(), m.Cell()
	if sub >= 9 || cell >= 9 {
		return "(none)"
	}

	builder := strings.Builder{}
	builder.WriteByte('A' + byte(sub%3))
	builder.WriteByte('3' - byte(sub/3))
	builder.WriteByte('a' + byte(cell%3))
	builder.WriteByte('3' - byte(cell/3))
	return builder.String()
}

// Convert given move notation (as produced by Move.String) to a Move
func ParseMove(str string) (Move, error) {
	// Helper function to make sure the coordinates are withing the range
	_cmp := func(i int, letter byte) bool {
		return (str[i] >= letter && str[i] <= letter+2) &&
			(str[i+1] >= '1' && str[i+1] <= '3')
	}

	if len(str) != 4 || !_cmp(0, 'A') || !_cmp(2, 'a') {
		return NullMove, fmt.Errorf("%w: move %q", ErrInvalidNotation, str)
	}

	return NewMove(
		int((str[0]-'A')+('3'-str[1])*3),
		int((str[2]-'a')+('3'-str[3])*3)), nil
}
