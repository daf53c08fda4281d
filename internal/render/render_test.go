package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/muesli/termenv"
)

func play(t *testing.T, b *uttt.Board, moves ...uttt.Move) {
	t.Helper()
	for _, m := range moves {
		if err := b.PlayLegal(m); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBoardAscii(t *testing.T) {
	b := uttt.NewBoard()
	play(t, b, uttt.NewMove(4, 4), uttt.NewMove(4, 0), uttt.NewMove(0, 4))

	r := NewWithProfile(&bytes.Buffer{}, termenv.Ascii)
	if got := r.Board(b); got != b.String() {
		t.Fatalf("ascii rendering differs from Board.String:\n%s\nvs\n%s", got, b.String())
	}
}

func TestShowMoves(t *testing.T) {
	b := uttt.NewBoard()
	play(t, b, uttt.NewMove(4, 4))

	r := NewWithProfile(&bytes.Buffer{}, termenv.Ascii)
	r.ShowMoves = true
	out := r.Board(b)

	// Separator lines are a single token, so only cells count here
	n := 0
	for _, token := range strings.Fields(out) {
		if token == "+" {
			n++
		}
	}
	if n != 8 {
		t.Fatalf("expected 8 highlighted cells, got %d:\n%s", n, out)
	}
}

func TestStatus(t *testing.T) {
	r := NewWithProfile(&bytes.Buffer{}, termenv.Ascii)

	b := uttt.NewBoard()
	if got := r.Status(b); got != "X to move, any sub-board" {
		t.Fatalf("unexpected status %q", got)
	}

	play(t, b, uttt.NewMove(4, 2))
	if got := r.Status(b); got != "O to move, sub-board C3" {
		t.Fatalf("unexpected status %q", got)
	}

	won, err := uttt.FromNotation("xxx6/xxx6/xxx6/9/9/9/9/9/9 o -")
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Status(won); got != "X wins" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestRenderColors(t *testing.T) {
	b := uttt.NewBoard()
	play(t, b, uttt.NewMove(0, 0))

	var buf bytes.Buffer
	r := NewWithProfile(&buf, termenv.ANSI)
	if err := r.Render(b); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escape sequences, got %q", buf.String())
	}
}
