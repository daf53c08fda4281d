package uttt

import "math/bits"

// horizontal, vertical and diagonal patterns as bitboards
var _winningPatterns = [8]uint16{
	0b111000000, 0b000111000, 0b000000111,
	0b100100100, 0b010010010, 0b001001001,
	0b100010001, 0b001010100,
}

const (
	metaLayer        = 9
	metaMask  uint32 = 1<<metaLayer - 1
)

// Refresh the meta-board entries of all dirty sub-boards, then re-evaluate the
// game result. Does nothing if no sub-board changed since the last call.
func (b *Board) flush() {
	if b.dirty == 0 {
		return
	}

	for b.dirty != 0 {
		i := bits.TrailingZeros16(b.dirty)
		b.dirty &= b.dirty - 1

		shift := uint32(8 - i)
		b.meta &^= 1<<shift | 1<<(shift+metaLayer) | 1<<(shift+2*metaLayer)
		switch b.Status(i) {
		case StatusFirstWon:
			b.meta |= 1 << shift
		case StatusSecondWon:
			b.meta |= 1 << (shift + metaLayer)
		case StatusDraw:
			b.meta |= 1 << (shift + 2*metaLayer)
		}
	}

	b.result = evaluateMeta(b.meta)
}

func evaluateMeta(meta uint32) Result {
	first := uint16(meta & metaMask)
	second := uint16(meta >> metaLayer & metaMask)
	for _, pattern := range _winningPatterns {
		if first&pattern == pattern {
			return ResultFirstWon
		}
		if second&pattern == pattern {
			return ResultSecondWon
		}
	}

	// Every sub-board is complete and nobody has a line
	if (meta|meta>>metaLayer|meta>>(2*metaLayer))&metaMask == metaMask {
		return ResultDraw
	}
	return ResultNone
}

// Get the game result, ResultNone if the game is still in progress
func (b *Board) Result() Result {
	b.flush()
	return b.result
}

// Check if the whole game is over
func (b *Board) IsFinished() bool {
	return b.Result() != ResultNone
}

// Get the 27-bit meta-board (draws | second won | first won)
func (b *Board) Meta() uint32 {
	b.flush()
	return b.meta
}

// Pending dirty set, bit i set means sub-board i awaits re-evaluation
func (b *Board) Dirty() uint16 {
	return b.dirty
}

// Sub-board completed by someone, Owner is 1 (first won), -1 (second won)
// or 0 (draw)
type CompletedBoard struct {
	Index int `json:"index"`
	Owner int `json:"owner"`
}

// List all completed sub-boards, ordered by index
func (b *Board) CompletedBoards() []CompletedBoard {
	completed := make([]CompletedBoard, 0, 9)
	for i := range 9 {
		switch b.Status(i) {
		case StatusFirstWon:
			completed = append(completed, CompletedBoard{Index: i, Owner: 1})
		case StatusSecondWon:
			completed = append(completed, CompletedBoard{Index: i, Owner: -1})
		case StatusDraw:
			completed = append(completed, CompletedBoard{Index: i, Owner: 0})
		}
	}
	return completed
}

// Split a meta-board into its three 9-bit layers
func MetaLayers(meta uint32) (first, second, drawn uint16) {
	return uint16(meta & metaMask),
		uint16(meta >> metaLayer & metaMask),
		uint16(meta >> (2 * metaLayer) & metaMask)
}

// Winning lines shared by sub-boards and the meta-board
func WinningPatterns() [8]uint16 {
	return _winningPatterns
}
