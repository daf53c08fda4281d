// Package agent wraps the search engines behind a common move-selection
// interface. Agents receive the board explicitly on every call and always
// leave it as they found it.
package agent

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/IlikeChooros/go-uttt/pkg/minimax"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
)

var ErrNoMoves = errors.New("agent: no legal moves")

type Agent interface {
	Name() string
	SelectMove(b *uttt.Board) (uttt.Move, error)
}

// Builds a fresh agent, used when every goroutine needs its own instance
type Factory func(id int) Agent

// Plays a uniformly random legal move
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (*Random) Name() string {
	return "random"
}

func (r *Random) SelectMove(b *uttt.Board) (uttt.Move, error) {
	moves := b.Moves()
	if len(moves) == 0 {
		return uttt.NullMove, ErrNoMoves
	}
	return moves[r.rng.Intn(len(moves))], nil
}

// Alpha-beta agent. Searches on a clone, so callers may keep reading their board.
type Minimax struct {
	searcher   *minimax.Searcher
	winPercent float64
}

func NewMinimax(config minimax.Config, eval minimax.Evaluator) *Minimax {
	return &Minimax{searcher: minimax.NewSearcher(config, eval), winPercent: 0.5}
}

// Minimax agent with the rollout evaluator
func NewRolloutMinimax(config minimax.Config, rng *rand.Rand) *Minimax {
	return NewMinimax(config, minimax.NewRolloutEvaluator(config.Sims, rng))
}

func (m *Minimax) Name() string {
	return fmt.Sprintf("minimax(depth=%d)", m.searcher.Config().Depth)
}

func (m *Minimax) SelectMove(b *uttt.Board) (uttt.Move, error) {
	res, err := m.searcher.Search(b.Clone())
	if err != nil {
		if errors.Is(err, minimax.ErrNoMoves) {
			return uttt.NullMove, ErrNoMoves
		}
		return uttt.NullMove, err
	}
	m.winPercent = res.WinProbability
	return res.Move, nil
}

// Win probability estimate of the last search for the side that moved
func (m *Minimax) WinProbability() float64 {
	return m.winPercent
}

// MCTS agent, builds a new tree for every move
type MCTS struct {
	eval      mcts.Evaluator
	limits    *mcts.Limits
	lastValue float64
}

func NewMCTS(eval mcts.Evaluator, limits *mcts.Limits) *MCTS {
	if limits == nil {
		limits = mcts.DefaultLimits()
	}
	return &MCTS{eval: eval, limits: limits}
}

func (m *MCTS) Name() string {
	return fmt.Sprintf("mcts(sims=%d)", m.limits.Simulations)
}

func (m *MCTS) SelectMove(b *uttt.Board) (uttt.Move, error) {
	if b.IsFinished() {
		return uttt.NullMove, ErrNoMoves
	}

	tree, err := mcts.NewTree(b, m.eval)
	if err != nil {
		return uttt.NullMove, err
	}
	tree.SetLimits(m.limits)
	if err := tree.Search(); err != nil {
		return uttt.NullMove, err
	}
	m.lastValue = tree.RootValue()
	return tree.BestMove(), nil
}

// Root value of the last search mapped to [0, 1] for the side that moved
func (m *MCTS) WinProbability() float64 {
	return min(1, max(0, (m.lastValue+1)/2))
}
