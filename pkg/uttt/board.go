package uttt

import "fmt"

const (
	StartingPosition string = "9/9/9/9/9/9/9/9/9 x -"
)

const (
	// All 9 cell bits of a sub-board record
	fullBoard uint16 = 0b111111111
	// Sub-board status lives in bits 10-11 of both records
	statusShift        = 10
	statusMask  uint16 = 0b11 << statusShift
)

// Main position struct, each sub-board is stored as a 12-bit record per player:
// bits 0-8 hold the stones (cell k at bit 8-k), bits 10-11 the sub-board status,
// kept in sync in both records.
type Board struct {
	first  [9]uint16
	second [9]uint16
	// 27-bit meta-board: [draws | second won | first won], 9 bits each
	meta uint32
	// Sub-boards whose status changed since the last meta-board refresh
	dirty  uint16
	result Result
	turn   Player
	// Both stacks start with a sentinel (AnyBoard, NullMove)
	constraints []Constraint
	moves       []Move
}

// Create a heap-allocated board set to the starting position
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Clear the board back to the starting position, keeps allocated stacks
func (b *Board) Reset() {
	b.first = [9]uint16{}
	b.second = [9]uint16{}
	b.meta = 0
	b.dirty = 0
	b.result = ResultNone
	b.turn = FirstPlayer

	if b.constraints == nil {
		b.constraints = make([]Constraint, 1, 82)
		b.moves = make([]Move, 1, 82)
	}
	b.constraints = b.constraints[:1]
	b.moves = b.moves[:1]
	b.constraints[0] = AnyBoard
	b.moves[0] = NullMove
}

// Make a deep copy of the board (has no shared memory with this object)
func (b *Board) Clone() *Board {
	c := *b
	c.constraints = make([]Constraint, len(b.constraints), cap(b.constraints))
	c.moves = make([]Move, len(b.moves), cap(b.moves))
	copy(c.constraints, b.constraints)
	copy(c.moves, b.moves)
	return &c
}

func cellBit(cell int) uint16 {
	return 1 << (8 - cell)
}

func isLine(stones uint16) bool {
	for _, pattern := range _winningPatterns {
		if stones&pattern == pattern {
			return true
		}
	}
	return false
}

// Getters

func (b *Board) Turn() Player {
	return b.turn
}

// Sub-board the next move is restricted to, AnyBoard if unrestricted
func (b *Board) Constraint() Constraint {
	return b.constraints[len(b.constraints)-1]
}

// Moves played so far, oldest first
func (b *Board) History() []Move {
	h := make([]Move, len(b.moves)-1)
	copy(h, b.moves[1:])
	return h
}

// Number of moves played so far
func (b *Board) Ply() int {
	return len(b.moves) - 1
}

// Last played move, NullMove if there is none
func (b *Board) LastMove() Move {
	return b.moves[len(b.moves)-1]
}

// Completion status of given sub-board, read from the first player's record
func (b *Board) Status(subBoard int) Status {
	return Status(b.first[subBoard]&statusMask) >> statusShift
}

// Whether given sub-board is won or drawn
func (b *Board) IsComplete(subBoard int) bool {
	return b.first[subBoard]&statusMask != 0
}

// Raw stone records of a sub-board (bits 0-8 only)
func (b *Board) Stones(subBoard int) (first, second uint16) {
	return b.first[subBoard] & fullBoard, b.second[subBoard] & fullBoard
}

// Apply a move for the side to move. Legality is not checked, use PlayLegal
// for untrusted input.
func (b *Board) Play(m Move) {
	sub, cell := m.SubBoard(), m.Cell()
	bit := cellBit(cell)

	var own uint16
	status := StatusFirstWon
	if b.turn == FirstPlayer {
		b.first[sub] |= bit
		own = b.first[sub]
	} else {
		b.second[sub] |= bit
		own = b.second[sub]
		status = StatusSecondWon
	}

	// Update the sub-board status if this move completed it
	if !isLine(own & fullBoard) {
		status = StatusInProgress
		if (b.first[sub]|b.second[sub])&fullBoard == fullBoard {
			status = StatusDraw
		}
	}
	if status != StatusInProgress {
		b.first[sub] |= uint16(status) << statusShift
		b.second[sub] |= uint16(status) << statusShift
		b.dirty |= 1 << sub
	}

	// If opponent's move would be on a completed sub-board, it may play anywhere
	next := Constraint(cell)
	if b.IsComplete(cell) {
		next = AnyBoard
	}

	b.turn = -b.turn
	b.constraints = append(b.constraints, next)
	b.moves = append(b.moves, m)
}

// Verifies legality of given move, then if it's valid, plays it on the board
func (b *Board) PlayLegal(m Move) error {
	if !b.IsLegal(m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	b.Play(m)
	return nil
}

// Check if given move is legal in the current position
func (b *Board) IsLegal(m Move) bool {
	sub, cell := m.SubBoard(), m.Cell()
	if sub >= 9 || cell >= 9 || b.IsFinished() || b.IsComplete(sub) {
		return false
	}

	if c := b.Constraint(); c != AnyBoard && !b.IsComplete(int(c)) && int(c) != sub {
		return false
	}

	return (b.first[sub]|b.second[sub])&cellBit(cell) == 0
}

// Revert the last move: removes the stone, clears the sub-board status and
// marks the sub-board for re-evaluation. Returns ErrIllegalUndo when only the
// sentinel is left on the stack.
func (b *Board) Undo() error {
	n := len(b.moves)
	if n <= 1 {
		return ErrIllegalUndo
	}

	m := b.moves[n-1]
	b.moves = b.moves[:n-1]
	b.constraints = b.constraints[:n-1]

	sub := m.SubBoard()
	mask := ^(statusMask | cellBit(m.Cell()))
	b.first[sub] &= mask
	b.second[sub] &= mask
	b.dirty |= 1 << sub
	b.turn = -b.turn
	return nil
}
