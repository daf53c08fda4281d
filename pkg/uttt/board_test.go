package uttt

import (
	"errors"
	"math/rand"
	"testing"
)

type snapshot struct {
	first, second [9]uint16
	meta          uint32
	turn          Player
	constraint    Constraint
	ply           int
}

func takeSnapshot(b *Board) snapshot {
	return snapshot{
		first:      b.first,
		second:     b.second,
		meta:       b.Meta(),
		turn:       b.Turn(),
		constraint: b.Constraint(),
		ply:        b.Ply(),
	}
}

func TestThreeMoveScenario(t *testing.T) {
	b := NewBoard()
	b.Play(NewMove(4, 4))
	if b.Turn() != SecondPlayer {
		t.Fatalf("expected second player to move, got %v", b.Turn())
	}
	if b.Constraint() != 4 {
		t.Fatalf("expected constraint 4, got %v", b.Constraint())
	}

	b.Play(NewMove(4, 0))
	if b.Constraint() != 0 {
		t.Fatalf("expected constraint 0 after second move, got %v", b.Constraint())
	}

	b.Play(NewMove(0, 4))
	if b.IsComplete(4) || b.Status(4) != StatusInProgress {
		t.Fatalf("sub-board 4 should not be complete, status=%v", b.Status(4))
	}

	// Cells 4 and 0 of the center are taken, the other 7 are legal
	moves := b.Moves()
	if len(moves) != 7 {
		t.Fatalf("expected 7 legal moves, got %d: %v", len(moves), moves)
	}
	for _, m := range moves {
		if m.SubBoard() != 4 {
			t.Errorf("move %v outside of sub-board 4", m)
		}
		if m.Cell() == 4 || m.Cell() == 0 {
			t.Errorf("occupied cell returned as legal: %v", m)
		}
	}
}

func TestSubBoardWinIsLazy(t *testing.T) {
	b := NewBoard()
	// first player takes cells 0,1,2 of sub-board 0, second plays elsewhere
	sequence := []Move{
		NewMove(0, 0), NewMove(5, 5),
		NewMove(0, 1), NewMove(5, 6),
		NewMove(0, 2),
	}
	for _, m := range sequence {
		b.Play(m)
	}

	if b.Status(0) != StatusFirstWon {
		t.Fatalf("expected sub-board 0 won by first player, got %v", b.Status(0))
	}
	if b.second[0]&statusMask != b.first[0]&statusMask {
		t.Fatal("status bits are not mirrored in both records")
	}
	if b.Dirty()&1 == 0 {
		t.Fatalf("sub-board 0 should be dirty, dirty=%09b", b.Dirty())
	}

	if res := b.Result(); res != ResultNone {
		t.Fatalf("single sub-board must not decide the game, got %v", res)
	}
	if b.Dirty() != 0 {
		t.Fatalf("dirty set should be drained, got %09b", b.Dirty())
	}
	if b.Meta()&(1<<8) == 0 {
		t.Fatalf("meta-board bit for sub-board 0 not set, meta=%027b", b.Meta())
	}
}

// Cells of a drawn sub-board without any line:
//
//	x o x
//	x o o
//	o x x
var (
	_drawMajor = []int{0, 2, 3, 7, 8}
	_drawMinor = []int{1, 4, 5, 6}
)

func TestAllSubBoardsDrawn(t *testing.T) {
	// Sub-boards 0-4 give 5 stones to the first player, 5-8 give 5 to the second,
	// which keeps the stone counts alternating: 41 vs 40
	var firstCells, secondCells []Move
	for sub := range 9 {
		major, minor := &firstCells, &secondCells
		if sub >= 5 {
			major, minor = minor, major
		}
		for _, c := range _drawMajor {
			*major = append(*major, NewMove(sub, c))
		}
		for _, c := range _drawMinor {
			*minor = append(*minor, NewMove(sub, c))
		}
	}
	if len(firstCells) != 41 || len(secondCells) != 40 {
		t.Fatalf("bad setup %d/%d", len(firstCells), len(secondCells))
	}

	b := NewBoard()
	for i := range firstCells {
		b.Play(firstCells[i])
		if i < len(secondCells) {
			b.Play(secondCells[i])
		}
	}

	for sub := range 9 {
		if b.Status(sub) != StatusDraw {
			t.Fatalf("sub-board %d: expected draw, got %v", sub, b.Status(sub))
		}
	}
	if res := b.Result(); res != ResultDraw {
		t.Fatalf("expected overall draw, got %v", res)
	}
	if !b.IsFinished() {
		t.Fatal("game should be finished")
	}
	if moves := b.Moves(); len(moves) != 0 {
		t.Fatalf("finished game returned moves: %v", moves)
	}
}

func TestUndoSentinel(t *testing.T) {
	b := NewBoard()
	if err := b.Undo(); !errors.Is(err, ErrIllegalUndo) {
		t.Fatalf("expected ErrIllegalUndo, got %v", err)
	}

	b.Play(NewMove(4, 4))
	if err := b.Undo(); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := b.Undo(); !errors.Is(err, ErrIllegalUndo) {
		t.Fatalf("expected ErrIllegalUndo after draining, got %v", err)
	}
}

func TestCompletedConstraintSpansAllBoards(t *testing.T) {
	b := NewBoard()
	for _, m := range []Move{
		NewMove(0, 0), NewMove(5, 5),
		NewMove(0, 1), NewMove(5, 6),
		NewMove(0, 2), NewMove(1, 0),
	} {
		b.Play(m)
	}

	// Constraint now points at the completed sub-board 0
	if !b.IsComplete(0) {
		t.Fatal("sub-board 0 should be complete")
	}
	if b.Constraint() != AnyBoard {
		t.Fatalf("expected AnyBoard constraint, got %v", b.Constraint())
	}

	moves := b.LegalMoves(0)
	seen := [9]bool{}
	for _, m := range moves {
		if m.SubBoard() == 0 {
			t.Fatalf("move %v on completed sub-board", m)
		}
		seen[m.SubBoard()] = true
	}
	for sub := 1; sub < 9; sub++ {
		if !seen[sub] {
			t.Errorf("no moves generated for sub-board %d", sub)
		}
	}
	if len(moves) != 81-9-3 {
		t.Errorf("expected %d moves, got %d", 81-9-3, len(moves))
	}
}

func TestPlayLegal(t *testing.T) {
	b := NewBoard()
	if err := b.PlayLegal(NewMove(4, 4)); err != nil {
		t.Fatal(err)
	}
	// Constraint is sub-board 4
	if err := b.PlayLegal(NewMove(0, 0)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	// Occupied cell
	if err := b.PlayLegal(NewMove(4, 4)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for occupied cell, got %v", err)
	}
	if b.Ply() != 1 {
		t.Fatalf("rejected moves must not mutate the board, ply=%d", b.Ply())
	}
}

func TestRandomPlayoutUndoRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	buffer := make([]Move, 0, 81)

	for game := 0; game < 2000; game++ {
		b := NewBoard()
		var states []snapshot
		var status [9]Status

		for !b.IsFinished() {
			buffer = b.AppendLegalMoves(buffer[:0], b.Constraint())
			if len(buffer) == 0 {
				t.Fatalf("game %d: no legal moves in unfinished game\n%s", game, b)
			}
			move := buffer[rng.Intn(len(buffer))]

			before := takeSnapshot(b)
			b.Play(move)
			if err := b.Undo(); err != nil {
				t.Fatal(err)
			}
			if after := takeSnapshot(b); after != before {
				t.Fatalf("game %d: play/undo of %v changed the board", game, move)
			}

			states = append(states, before)
			b.Play(move)

			// Completed sub-boards stay completed with the same status
			for sub := range 9 {
				if status[sub] != StatusInProgress && b.Status(sub) != status[sub] {
					t.Fatalf("game %d: status of sub-board %d changed %v -> %v",
						game, sub, status[sub], b.Status(sub))
				}
				status[sub] = b.Status(sub)
			}
		}

		if b.Ply() > 81 {
			t.Fatalf("game %d lasted %d plies", game, b.Ply())
		}

		// Unwind the whole game
		for i := len(states) - 1; i >= 0; i-- {
			if err := b.Undo(); err != nil {
				t.Fatal(err)
			}
			if got := takeSnapshot(b); got != states[i] {
				t.Fatalf("game %d: unwinding to ply %d mismatched", game, i)
			}
		}
	}
}

func TestClone(t *testing.T) {
	b := NewBoard()
	b.Play(NewMove(4, 4))
	c := b.Clone()
	c.Play(NewMove(4, 0))

	if b.Ply() != 1 || c.Ply() != 2 {
		t.Fatalf("clone shares state with the source, %d vs %d", b.Ply(), c.Ply())
	}
	if b.first != c.first || b.second == c.second {
		t.Fatal("clone records diverged unexpectedly")
	}
}

func BenchmarkRandomPlayout(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	board := NewBoard()
	buffer := make([]Move, 0, 81)
	for i := 0; i < b.N; i++ {
		board.Reset()
		for !board.IsFinished() {
			buffer = board.AppendLegalMoves(buffer[:0], board.Constraint())
			board.Play(buffer[rng.Intn(len(buffer))])
		}
	}
}
