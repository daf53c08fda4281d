package minimax

import (
	"math/bits"
	"math/rand"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
)

// Score of a decided game, from the first player's perspective
const WinScore = 100

// Static evaluation of a position used at the search horizon. Values are
// always from the first player's perspective, positive means the first player
// is better.
type Evaluator interface {
	Evaluate(b *uttt.Board) float64
}

// Estimates the position by playing Sims uniformly random games to the end,
// scoring each one as result*WinScore. The board is restored before returning.
// Noisy: repeated calls on the same position may differ.
type RolloutEvaluator struct {
	Sims   int
	rng    *rand.Rand
	buffer []uttt.Move
}

func NewRolloutEvaluator(sims int, rng *rand.Rand) *RolloutEvaluator {
	return &RolloutEvaluator{
		Sims:   max(1, sims),
		rng:    rng,
		buffer: make([]uttt.Move, 0, 81),
	}
}

func (e *RolloutEvaluator) Evaluate(b *uttt.Board) float64 {
	total := 0
	for range e.Sims {
		total += e.playout(b)
	}
	return float64(total) / float64(e.Sims)
}

func (e *RolloutEvaluator) playout(b *uttt.Board) int {
	plies := 0
	for !b.IsFinished() {
		e.buffer = b.AppendLegalMoves(e.buffer[:0], b.Constraint())
		b.Play(e.buffer[e.rng.Intn(len(e.buffer))])
		plies++
	}

	score := b.Result().Sign() * WinScore
	for range plies {
		_ = b.Undo()
	}
	return score
}

// Deterministic evaluation: for every winning line of the meta-board, the
// number of sub-boards the first player owns on it minus the second player's.
// Decided games score +-WinScore, draws 0.
type HeuristicEvaluator struct{}

func (HeuristicEvaluator) Evaluate(b *uttt.Board) float64 {
	if res := b.Result(); res != uttt.ResultNone {
		return float64(res.Sign() * WinScore)
	}

	first, second, _ := uttt.MetaLayers(b.Meta())
	score := 0
	for _, pattern := range uttt.WinningPatterns() {
		score += bits.OnesCount16(first & pattern)
		score -= bits.OnesCount16(second & pattern)
	}
	return float64(score)
}
