package uttt

import "errors"

var (
	// Undo called with no move left on the stack
	ErrIllegalUndo = errors.New("uttt: no move to undo")
	// Move outside of the legal set for the current constraint
	ErrIllegalMove = errors.New("uttt: illegal move")
	// Malformed move or position notation
	ErrInvalidNotation = errors.New("uttt: invalid notation")
)
