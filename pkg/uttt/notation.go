package uttt

import (
	"fmt"
	"strconv"
	"strings"
)

// String notation of the position, much like the FEN of a chessboard:
//
//	X/X/X/X/X/X/X/X/X <turn> <constraint>
//
// where each `X` describes one sub-board in cell order 0..8, 'x' and 'o' are
// stones of the first and second player and digits skip empty cells. For example
//
//	o | x | x
//	---------
//	x | o |
//	---------
//	o |   |
//
// is written as oxxxo1o2.
//
// <turn> is 'x' or 'o', <constraint> is the sub-board index 0-8 or '-' if the
// side to move may play anywhere.
//
// Examples:
//
// * 9/9/9/9/9/9/9/9/9 x -
//
// * 9/9/9/7x1/4xo3/8x/9/4o4/o8 x 0
func (b *Board) Notation() string {
	builder := strings.Builder{}

	for sub := range 9 {
		counter := 0
		for cell := range 9 {
			switch c := cellRune(b.first[sub], b.second[sub], cell); c {
			case 'X', 'O':
				if counter > 0 {
					builder.WriteString(strconv.Itoa(counter))
					counter = 0
				}
				builder.WriteByte(c + ('a' - 'A'))
			default:
				counter++
			}
		}

		if counter > 0 {
			builder.WriteString(strconv.Itoa(counter))
		}
		if sub != 8 {
			builder.WriteByte('/')
		}
	}

	builder.WriteByte(' ')
	builder.WriteString(b.turn.String())
	builder.WriteByte(' ')
	builder.WriteString(b.Constraint().String())
	return builder.String()
}

// Create a board from given notation string. The loaded position has no move
// history, so Undo on it returns ErrIllegalUndo.
func FromNotation(notation string) (*Board, error) {
	if notation == "startpos" {
		notation = StartingPosition
	}

	fields := strings.Fields(notation)
	if len(fields) != 3 {
		return nil, fmt.Errorf("%w: expected 3 fields, got %d", ErrInvalidNotation, len(fields))
	}

	subBoards := strings.Split(fields[0], "/")
	if len(subBoards) != 9 {
		return nil, fmt.Errorf("%w: expected 9 sub-boards, got %d", ErrInvalidNotation, len(subBoards))
	}

	b := NewBoard()
	for sub, str := range subBoards {
		cell := 0
		for i := 0; i < len(str); i++ {
			switch v := str[i]; {
			case v == 'x' || v == 'o':
				if cell >= 9 {
					return nil, fmt.Errorf("%w: too many cells in sub-board %d", ErrInvalidNotation, sub)
				}
				if v == 'x' {
					b.first[sub] |= cellBit(cell)
				} else {
					b.second[sub] |= cellBit(cell)
				}
				cell++
			case v >= '1' && v <= '9':
				cell += int(v - '0')
			default:
				return nil, fmt.Errorf("%w: unexpected token %q in sub-board %d", ErrInvalidNotation, v, sub)
			}
		}
		if cell != 9 {
			return nil, fmt.Errorf("%w: sub-board %d has %d cells", ErrInvalidNotation, sub, cell)
		}

		status, err := sourceStatus(b.first[sub], b.second[sub])
		if err != nil {
			return nil, fmt.Errorf("%w: sub-board %d", err, sub)
		}
		b.first[sub] |= uint16(status) << statusShift
		b.second[sub] |= uint16(status) << statusShift
		b.dirty |= 1 << sub
	}

	switch fields[1] {
	case "x":
		b.turn = FirstPlayer
	case "o":
		b.turn = SecondPlayer
	default:
		return nil, fmt.Errorf("%w: invalid side %q", ErrInvalidNotation, fields[1])
	}

	switch c := fields[2]; {
	case c == "-":
		b.constraints[0] = AnyBoard
	case len(c) == 1 && c[0] >= '0' && c[0] <= '8':
		b.constraints[0] = Constraint(c[0] - '0')
		// Don't allow pointing at a completed sub-board
		if b.IsComplete(int(c[0] - '0')) {
			b.constraints[0] = AnyBoard
		}
	default:
		return nil, fmt.Errorf("%w: invalid constraint %q", ErrInvalidNotation, c)
	}

	return b, nil
}

// Status of a sub-board computed from its stones only
func sourceStatus(first, second uint16) (Status, error) {
	firstLine, secondLine := isLine(first), isLine(second)
	switch {
	case firstLine && secondLine:
		return StatusInProgress, fmt.Errorf("%w: both players have a line", ErrInvalidNotation)
	case firstLine:
		return StatusFirstWon, nil
	case secondLine:
		return StatusSecondWon, nil
	case (first|second)&fullBoard == fullBoard:
		return StatusDraw, nil
	}
	return StatusInProgress, nil
}
