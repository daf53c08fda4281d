// Package render draws the board on a terminal, colouring the stones and the
// completed sub-boards with whatever the terminal supports.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/muesli/termenv"
)

const separator = "-------+--------+--------"

type Renderer struct {
	out *termenv.Output
	// Mark the cells the side to move may play on with '+'
	ShowMoves bool

	first, second, drawn termenv.Color
}

// Detects the colour profile of w
func New(w io.Writer) *Renderer {
	return NewWithProfile(w, termenv.NewOutput(w).Profile)
}

func NewWithProfile(w io.Writer, profile termenv.Profile) *Renderer {
	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	return &Renderer{
		out:    out,
		first:  out.Color("1"),
		second: out.Color("4"),
		drawn:  out.Color("8"),
	}
}

func (r *Renderer) cell(b *uttt.Board, legal *[81]bool, sub, cell int) string {
	first, second := b.Stones(sub)
	bit := uint16(1) << (8 - cell)
	last := b.LastMove() == uttt.NewMove(sub, cell)

	var style termenv.Style
	switch {
	case first&bit != 0:
		style = r.out.String("X").Foreground(r.first)
	case second&bit != 0:
		style = r.out.String("O").Foreground(r.second)
	case legal[sub*9+cell]:
		return r.out.String("+").Bold().String()
	default:
		style = r.out.String(".")
	}

	if last {
		style = style.Bold().Underline()
	}
	if b.IsComplete(sub) {
		style = style.Faint()
	}
	return style.String()
}

// Draw the 9x9 grid, same layout as Board.String
func (r *Renderer) Board(b *uttt.Board) string {
	var legal [81]bool
	if r.ShowMoves {
		for _, m := range b.Moves() {
			legal[m.Index()] = true
		}
	}

	builder := strings.Builder{}
	for bigRow := range 3 {
		for row := range 3 {
			for bigCol := range 3 {
				sub := bigRow*3 + bigCol
				if bigCol > 0 {
					builder.WriteString("| ")
				}
				for col := range 3 {
					builder.WriteString(r.cell(b, &legal, sub, row*3+col))
					builder.WriteByte(' ')
				}
			}
			builder.WriteByte('\n')
		}
		if bigRow < 2 {
			builder.WriteString(separator + "\n")
		}
	}
	return builder.String()
}

// One line describing the game state
func (r *Renderer) Status(b *uttt.Board) string {
	switch res := b.Result(); res {
	case uttt.ResultFirstWon:
		return r.out.String("X wins").Foreground(r.first).Bold().String()
	case uttt.ResultSecondWon:
		return r.out.String("O wins").Foreground(r.second).Bold().String()
	case uttt.ResultDraw:
		return r.out.String("draw").Foreground(r.drawn).Bold().String()
	}

	target := "any sub-board"
	if c := b.Constraint(); c != uttt.AnyBoard && !b.IsComplete(int(c)) {
		target = fmt.Sprintf("sub-board %s", uttt.NewMove(int(c), 0).String()[:2])
	}
	return fmt.Sprintf("%s to move, %s", strings.ToUpper(b.Turn().String()), target)
}

// Write the board followed by the status line
func (r *Renderer) Render(b *uttt.Board) error {
	_, err := fmt.Fprintf(r.out, "%s\n%s\n", r.Board(b), r.Status(b))
	return err
}
