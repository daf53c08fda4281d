package uttt

import "strings"

func cellRune(first, second uint16, cell int) byte {
	bit := cellBit(cell)
	switch {
	case first&bit != 0:
		return 'X'
	case second&bit != 0:
		return 'O'
	}
	return '.'
}

// Text grid of the whole board, sub-boards separated by '|' and dashed lines
//
//	X . . | . . . | . . .
//	. O . | . . . | . . .
//	. . . | . . . | . . .
//	-------+--------+--------
//	...
func (b *Board) String() string {
	builder := strings.Builder{}
	for bigRow := range 3 {
		for row := range 3 {
			for bigCol := range 3 {
				sub := bigRow*3 + bigCol
				if bigCol > 0 {
					builder.WriteString("| ")
				}
				for col := range 3 {
					builder.WriteByte(cellRune(b.first[sub], b.second[sub], row*3+col))
					builder.WriteByte(' ')
				}
			}
			builder.WriteByte('\n')
		}
		if bigRow < 2 {
			builder.WriteString("-------+--------+--------\n")
		}
	}
	return builder.String()
}

// 3x3 grid of the meta-board: X, O, '-' for drawn and '.' for in progress
func (b *Board) MetaString() string {
	meta := b.Meta()
	builder := strings.Builder{}
	for row := range 3 {
		for col := range 3 {
			shift := 8 - (row*3 + col)
			switch {
			case meta&(1<<shift) != 0:
				builder.WriteString("X ")
			case meta&(1<<(shift+metaLayer)) != 0:
				builder.WriteString("O ")
			case meta&(1<<(shift+2*metaLayer)) != 0:
				builder.WriteString("- ")
			default:
				builder.WriteString(". ")
			}
		}
		builder.WriteByte('\n')
	}
	return builder.String()
}
