package uttt

// Generate the legal moves for given constraint. If the game is over the
// result is empty. If the constraint is AnyBoard, or points at a completed
// sub-board, moves from every incomplete sub-board are returned.
func (b *Board) LegalMoves(c Constraint) []Move {
	return b.AppendLegalMoves(make([]Move, 0, 81), c)
}

// Legal moves for the board's current constraint
func (b *Board) Moves() []Move {
	return b.LegalMoves(b.Constraint())
}

// Same as LegalMoves but appends to dst, so hot loops can reuse a buffer
func (b *Board) AppendLegalMoves(dst []Move, c Constraint) []Move {
	if b.IsFinished() {
		return dst
	}

	if c != AnyBoard && !b.IsComplete(int(c)) {
		return b.appendEmptyCells(dst, int(c))
	}

	for sub := range 9 {
		if !b.IsComplete(sub) {
			dst = b.appendEmptyCells(dst, sub)
		}
	}
	return dst
}

func (b *Board) appendEmptyCells(dst []Move, sub int) []Move {
	occupied := (b.first[sub] | b.second[sub]) & fullBoard
	for cell := range 9 {
		if occupied&cellBit(cell) == 0 {
			dst = append(dst, NewMove(sub, cell))
		}
	}
	return dst
}
