package uttt

// Number of float32 values in a flattened feature tensor
const FeatureSize = 2 * 9 * 9

// Neural network input planes, channel 0 holds the stones of the side to move,
// channel 1 the opponent's. The 9x9 grid is laid out as the physical board.
type Features [2][9][9]float32

// Build the feature planes of the current position
func (b *Board) Features() *Features {
	f := &Features{}
	own, opp := &b.first, &b.second
	if b.turn == SecondPlayer {
		own, opp = opp, own
	}

	for sub := range 9 {
		for cell := range 9 {
			row, col := GridCoords(sub, cell)
			bit := cellBit(cell)
			if own[sub]&bit != 0 {
				f[0][row][col] = 1
			} else if opp[sub]&bit != 0 {
				f[1][row][col] = 1
			}
		}
	}
	return f
}

// Row-major flattening of the planes (channel, row, col)
func (f *Features) Flat() []float32 {
	flat := make([]float32, 0, FeatureSize)
	for c := range f {
		for r := range f[c] {
			flat = append(flat, f[c][r][:]...)
		}
	}
	return flat
}

// Physical 9x9 grid coordinates of a (sub-board, cell) pair
func GridCoords(sub, cell int) (row, col int) {
	return (sub/3)*3 + cell/3, (sub%3)*3 + cell%3
}
