// Package minimax implements a depth-limited alpha-beta search playing
// directly on a shared board with Play/Undo around every recursive call.
package minimax

import (
	"errors"
	"fmt"
	"math"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog/log"
)

var ErrNoMoves = errors.New("minimax: no legal moves, game is finished")

type Config struct {
	// Plies searched before calling the evaluator
	Depth int `json:"depth"`
	// Random playouts per leaf (RolloutEvaluator), also scales the win probability
	Sims int `json:"sims"`
	// Search the full tree, used to verify pruning
	DisablePruning bool `json:"disable_pruning"`
}

func DefaultConfig() Config {
	return Config{Depth: 3, Sims: 100}
}

func (c Config) String() string {
	return fmt.Sprintf("{depth: %d, sims: %d, pruning: %t}", c.Depth, c.Sims, !c.DisablePruning)
}

type SearchResult struct {
	Move  uttt.Move
	Value float64
	// Number of visited positions, leaves included
	Nodes int
	// Display-only estimate for the side to move, in [0, 1]
	WinProbability float64
}

// Alpha-beta searcher. Owns the board passed to Search until it returns,
// nothing else may touch it in the meantime.
type Searcher struct {
	config Config
	eval   Evaluator
	board  *uttt.Board
	nodes  int
}

func NewSearcher(config Config, eval Evaluator) *Searcher {
	if config.Depth < 1 {
		config.Depth = 1
	}
	return &Searcher{config: config, eval: eval}
}

func (s *Searcher) Config() Config {
	return s.config
}

// Search the position for the side to move. The first player maximizes, the
// second minimizes. The board is left exactly as it was given.
func (s *Searcher) Search(b *uttt.Board) (SearchResult, error) {
	if b.IsFinished() {
		return SearchResult{Move: uttt.NullMove}, ErrNoMoves
	}

	s.board = b
	s.nodes = 0
	defer func() { s.board = nil }()

	maximizing := b.Turn() == uttt.FirstPlayer
	value, move := s.alphaBeta(s.config.Depth, math.Inf(-1), math.Inf(1), maximizing)

	result := SearchResult{
		Move:           move,
		Value:          value,
		Nodes:          s.nodes,
		WinProbability: s.winProbability(value, b.Turn()),
	}

	log.Debug().
		Int("depth", s.config.Depth).
		Int("nodes", result.Nodes).
		Float64("value", value).
		Stringer("move", move).
		Msg("minimax search finished")
	return result, nil
}

// (value + sims) / (2 * sims), flipped for the second player
func (s *Searcher) winProbability(value float64, turn uttt.Player) float64 {
	scale := float64(s.config.Sims)
	if scale <= 0 {
		scale = WinScore
	}

	p := (value + scale) / (2 * scale)
	if turn == uttt.SecondPlayer {
		p = 1 - p
	}
	return min(1, max(0, p))
}

func (s *Searcher) alphaBeta(depth int, alpha, beta float64, maximizing bool) (float64, uttt.Move) {
	s.nodes++
	b := s.board
	if depth <= 0 || b.IsFinished() {
		return s.eval.Evaluate(b), uttt.NullMove
	}

	// At the root a child tying the best value must come back exact, not as a
	// cutoff bound, so the window is opened by one ulp on the bound side.
	root := depth == s.config.Depth

	best := uttt.NullMove
	if maximizing {
		value := math.Inf(-1)
		for _, move := range b.Moves() {
			childAlpha := alpha
			if root {
				childAlpha = math.Nextafter(alpha, math.Inf(-1))
			}

			b.Play(move)
			v, _ := s.alphaBeta(depth-1, childAlpha, beta, false)
			_ = b.Undo()

			if v >= value {
				value, best = v, move
			}
			alpha = max(alpha, value)
			if alpha >= beta && !s.config.DisablePruning {
				break
			}
		}
		return value, best
	}

	value := math.Inf(1)
	for _, move := range b.Moves() {
		childBeta := beta
		if root {
			childBeta = math.Nextafter(beta, math.Inf(1))
		}

		b.Play(move)
		v, _ := s.alphaBeta(depth-1, alpha, childBeta, true)
		_ = b.Undo()

		if v <= value {
			value, best = v, move
		}
		beta = min(beta, value)
		if alpha >= beta && !s.config.DisablePruning {
			break
		}
	}
	return value, best
}
