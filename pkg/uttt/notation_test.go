package uttt

import (
	"errors"
	"math/rand"
	"testing"
)

func TestMoveNotation(t *testing.T) {
	for i := range 81 {
		m := MoveFromIndex(i)
		if m.Index() != i {
			t.Fatalf("index round trip: %d -> %d", i, m.Index())
		}

		parsed, err := ParseMove(m.String())
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", m.String(), err)
		}
		if parsed != m {
			t.Fatalf("ParseMove(%q) = %v, want %v", m.String(), parsed, m)
		}
	}

	if s := NewMove(7, 2).String(); s != "B1c3" {
		t.Errorf("expected B1c3, got %s", s)
	}

	for _, bad := range []string{"", "A3", "D1a1", "A4a1", "a1A1", "A1d1x"} {
		if _, err := ParseMove(bad); !errors.Is(err, ErrInvalidNotation) {
			t.Errorf("ParseMove(%q): expected ErrInvalidNotation, got %v", bad, err)
		}
	}
}

func TestNotationStartpos(t *testing.T) {
	b := NewBoard()
	if n := b.Notation(); n != StartingPosition {
		t.Fatalf("expected %q, got %q", StartingPosition, n)
	}

	loaded, err := FromNotation("startpos")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Moves()) != 81 {
		t.Fatalf("expected 81 moves, got %d", len(loaded.Moves()))
	}
}

func TestNotationRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for game := 0; game < 200; game++ {
		b := NewBoard()
		for !b.IsFinished() {
			moves := b.Moves()
			b.Play(moves[rng.Intn(len(moves))])

			loaded, err := FromNotation(b.Notation())
			if err != nil {
				t.Fatalf("FromNotation(%q): %v", b.Notation(), err)
			}
			if loaded.Notation() != b.Notation() {
				t.Fatalf("notation mismatch %q vs %q", loaded.Notation(), b.Notation())
			}
			if loaded.Result() != b.Result() || loaded.Meta() != b.Meta() {
				t.Fatalf("%q: loaded result %v/%027b, want %v/%027b", b.Notation(),
					loaded.Result(), loaded.Meta(), b.Result(), b.Meta())
			}
			if len(loaded.Moves()) != len(b.Moves()) {
				t.Fatalf("%q: legal move count differs", b.Notation())
			}
		}
	}
}

func TestNotationExample(t *testing.T) {
	b, err := FromNotation("9/9/9/7x1/4xo3/8x/9/4o4/o8 x 0")
	if err != nil {
		t.Fatal(err)
	}
	if b.Turn() != FirstPlayer || b.Constraint() != 0 {
		t.Fatalf("bad turn/constraint %v %v", b.Turn(), b.Constraint())
	}
	first, second := b.Stones(4)
	if first != cellBit(4) || second != cellBit(5) {
		t.Fatalf("sub-board 4 stones %09b %09b", first, second)
	}
	if err := b.Undo(); !errors.Is(err, ErrIllegalUndo) {
		t.Fatalf("loaded board must have no history, got %v", err)
	}
}

func TestNotationErrors(t *testing.T) {
	for _, bad := range []string{
		"",
		"9/9/9/9/9/9/9/9 x -",
		"9/9/9/9/9/9/9/9/9 z -",
		"9/9/9/9/9/9/9/9/9 x 9",
		"9/9/9/9/9/9/9/9/8 x -",
		"9/9/9/9/9/9/9/9/9x x -",
		"xxx3ooo/9/9/9/9/9/9/9/9 x -",
	} {
		if _, err := FromNotation(bad); !errors.Is(err, ErrInvalidNotation) {
			t.Errorf("FromNotation(%q): expected ErrInvalidNotation, got %v", bad, err)
		}
	}
}

func TestFeatures(t *testing.T) {
	b := NewBoard()
	b.Play(NewMove(4, 4)) // first player, grid (4,4)
	b.Play(NewMove(4, 0)) // second player, grid (3,3)
	b.Play(NewMove(0, 8)) // first player, grid (2,2)

	// Second player to move: its stones in channel 0
	f := b.Features()
	if f[0][3][3] != 1 {
		t.Error("side to move stone missing from channel 0")
	}
	if f[1][4][4] != 1 || f[1][2][2] != 1 {
		t.Error("opponent stones missing from channel 1")
	}

	var sum float32
	for _, v := range f.Flat() {
		sum += v
	}
	if sum != 3 {
		t.Errorf("expected 3 set features, got %v", sum)
	}
	if flat := f.Flat(); len(flat) != FeatureSize || flat[9*3+3] != 1 {
		t.Errorf("flat layout mismatch")
	}
}

func TestCompletedBoards(t *testing.T) {
	b, err := FromNotation("xxx6/ooo6/xoxxoooxx/9/9/9/9/9/9 x -")
	if err != nil {
		t.Fatal(err)
	}
	got := b.CompletedBoards()
	want := []CompletedBoard{{0, 1}, {1, -1}, {2, 0}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if s := b.MetaString(); s != "X O - \n. . . \n. . . \n" {
		t.Fatalf("unexpected meta string %q", s)
	}
}
