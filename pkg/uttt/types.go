package uttt

// Side to move, the first player is 'x' and always starts the game
type Player int8

const (
	FirstPlayer  Player = 1
	SecondPlayer Player = -1
)

// Get the other side
func (p Player) Opponent() Player {
	return -p
}

func (p Player) String() string {
	if p == FirstPlayer {
		return "x"
	}
	return "o"
}

// Final outcome of the whole game, ResultNone while the game is still going
type Result int8

const (
	ResultNone Result = iota
	ResultFirstWon
	ResultSecondWon
	ResultDraw
)

// Sign of the result from the first player's perspective: 1 = first player won,
// -1 = second player won, 0 = draw (or no result yet)
func (r Result) Sign() int {
	switch r {
	case ResultFirstWon:
		return 1
	case ResultSecondWon:
		return -1
	}
	return 0
}

// Returns the winner, ok is false for draws and unfinished games
func (r Result) Winner() (Player, bool) {
	switch r {
	case ResultFirstWon:
		return FirstPlayer, true
	case ResultSecondWon:
		return SecondPlayer, true
	}
	return 0, false
}

func (r Result) String() string {
	switch r {
	case ResultFirstWon:
		return "x"
	case ResultSecondWon:
		return "o"
	case ResultDraw:
		return "draw"
	}
	return "none"
}

// 2-bit completion status of a sub-board, as stored in bits 10-11 of the records
type Status uint16

const (
	StatusInProgress Status = 0b00
	StatusSecondWon  Status = 0b01
	StatusFirstWon   Status = 0b10
	StatusDraw       Status = 0b11
)

func (s Status) String() string {
	switch s {
	case StatusFirstWon:
		return "x"
	case StatusSecondWon:
		return "o"
	case StatusDraw:
		return "-"
	}
	return "."
}

// Sub-board the next move must be played on, or AnyBoard
type Constraint int8

const AnyBoard Constraint = -1

func (c Constraint) String() string {
	if c == AnyBoard {
		return "-"
	}
	return string(rune('0' + c))
}
