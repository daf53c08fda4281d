package server

import "github.com/IlikeChooros/go-uttt/pkg/uttt"

// Sent once the connection is established
type initMessage struct {
	Init       bool     `json:"init"`
	Player     int      `json:"player"`
	ValidMoves [][2]int `json:"valid_moves"`
}

// Move request from the browser, board and pos are the sub-board and cell
type moveRequest struct {
	Board  *int `json:"board"`
	Pos    *int `json:"pos"`
	Locked bool `json:"locked"`
}

// Board update after a move of either side. Completed boards are sent as
// [owner, index] pairs, result is null while the game is running.
type moveMessage struct {
	Action          string   `json:"action"`
	Board           int      `json:"board"`
	Pos             int      `json:"pos"`
	Player          int      `json:"player"`
	ValidMoves      [][2]int `json:"valid_moves"`
	CompletedBoards [][2]int `json:"completed_boards"`
	Result          *int     `json:"result"`
	WinChance       *float64 `json:"win_chance,omitempty"`
	Locked          bool     `json:"locked"`
}

type errorMessage struct {
	Action string `json:"action"`
	Error  string `json:"error"`
}

const (
	actionPlayerMove   = "player_move"
	actionComputerMove = "computer_move"
	actionError        = "error"
)

func validMoves(b *uttt.Board) [][2]int {
	moves := b.Moves()
	out := make([][2]int, len(moves))
	for i, m := range moves {
		out[i] = [2]int{m.SubBoard(), m.Cell()}
	}
	return out
}

func completedBoards(b *uttt.Board) [][2]int {
	completed := b.CompletedBoards()
	out := make([][2]int, len(completed))
	for i, c := range completed {
		out[i] = [2]int{c.Owner, c.Index}
	}
	return out
}

func resultValue(b *uttt.Board) *int {
	res := b.Result()
	if res == uttt.ResultNone {
		return nil
	}
	sign := res.Sign()
	return &sign
}

// Describe the move m just played on b
func newMoveMessage(action string, b *uttt.Board, m uttt.Move) moveMessage {
	return moveMessage{
		Action:          action,
		Board:           m.SubBoard(),
		Pos:             m.Cell(),
		Player:          int(b.Turn().Opponent()),
		ValidMoves:      validMoves(b),
		CompletedBoards: completedBoards(b),
		Result:          resultValue(b),
	}
}
