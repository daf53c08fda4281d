package bench

import (
	"context"
	"fmt"

	"github.com/IlikeChooros/go-uttt/pkg/agent"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"golang.org/x/sync/errgroup"
)

/*
Arena benchmark subpackage, allows to play a series of games between two
different agents.
*/

type VersusArena struct {
	VersusArenaStats
	// Every worker builds its own agents, so no agent is shared between goroutines
	Player1  agent.Factory
	Player2  agent.Factory
	NGames   int
	NWorkers int
	// Starting position of every game
	Position *uttt.Board
	ctx      context.Context
}

func NewVersusArena(p1, p2 agent.Factory) *VersusArena {
	return &VersusArena{
		Player1:  p1,
		Player2:  p2,
		NGames:   100,
		NWorkers: 2,
		Position: uttt.NewBoard(),
		ctx:      context.Background(),
	}
}

// Cancelling the context stops the arena after the current moves
func (va *VersusArena) WithContext(ctx context.Context) *VersusArena {
	va.ctx = ctx
	return va
}

func (va *VersusArena) Setup(nGames, nWorkers int) {
	va.NGames = max(0, nGames)
	va.NWorkers = max(1, nWorkers)
}

// Play all games, distributing them equally between the workers. Games with
// an even index are started by player 1, odd ones by player 2. Blocks until
// every worker is done, the first agent error stops the arena.
func (va *VersusArena) Run(listener ListenerLike) (VersusSummaryInfo, error) {
	if listener == nil {
		listener = DefaultListener{}
	}

	va.reset()
	listener.OnStart()

	p1Name, p2Name := va.Player1(0).Name(), va.Player2(0).Name()
	group, ctx := errgroup.WithContext(va.ctx)
	group.SetLimit(va.NWorkers)

	nGames := va.NGames / va.NWorkers
	rest := va.NGames % va.NWorkers
	offset := 0
	for id := range va.NWorkers {
		count := nGames
		if rest > 0 {
			count++
			rest--
		}
		first := offset
		offset += count

		w := &worker{
			id:       id,
			arena:    va,
			p1:       va.Player1(id),
			p2:       va.Player2(id),
			p1Name:   p1Name,
			p2Name:   p2Name,
			listener: listener,
		}
		group.Go(func() error {
			return w.run(ctx, first, count)
		})
	}

	err := group.Wait()
	summary := VersusSummaryInfo{
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          va.NWorkers,
		P1Name:           p1Name,
		P2Name:           p2Name,
	}
	listener.Summary(summary)
	return summary, err
}

type worker struct {
	id             int
	arena          *VersusArena
	p1, p2         agent.Agent
	p1Name, p2Name string
	listener       ListenerLike
	local          VersusArenaStats
}

func (w *worker) info(nGames, finished int, moves []uttt.Move) VersusWorkerInfo {
	return VersusWorkerInfo{
		WorkerID:      w.id,
		NGames:        nGames,
		FinishedGames: finished,
		GameMoveNum:   len(moves),
		Moves:         moves,
		P1Wins:        w.local.P1Wins(),
		P2Wins:        w.local.P2Wins(),
		Draws:         w.local.Draws(),
		P1Name:        w.p1Name,
		P2Name:        w.p2Name,
	}
}

func (w *worker) run(ctx context.Context, firstGame, nGames int) error {
	for i := range nGames {
		if err := ctx.Err(); err != nil {
			return err
		}

		p1First := (firstGame+i)%2 == 0
		first, second := w.p1, w.p2
		if !p1First {
			first, second = second, first
		}

		w.listener.OnGameStart(w.info(nGames, i, nil))
		outcome, moves, err := w.playGame(ctx, first, second, nGames, i)
		if err != nil {
			return err
		}

		result := toAgentResult(outcome, p1First)
		w.arena.add(outcome, result)
		w.local.add(outcome, result)

		info := w.info(nGames, i+1, moves)
		info.Result = result
		info.P1WentFirst = p1First
		w.listener.OnFinishedGame(info)
	}

	w.listener.OnFinishedWork(w.info(nGames, nGames, nil))
	return nil
}

func (w *worker) playGame(ctx context.Context, first, second agent.Agent, nGames, finished int) (GameOutcome, []uttt.Move, error) {
	board := w.arena.Position.Clone()
	starting := board.Turn()
	players := [2]agent.Agent{first, second}
	moves := make([]uttt.Move, 0, 81)

	for turn := 0; !board.IsFinished(); turn ^= 1 {
		if err := ctx.Err(); err != nil {
			return GameOutcome{}, moves, err
		}

		move, err := players[turn].SelectMove(board)
		if err != nil {
			return GameOutcome{}, moves, fmt.Errorf("%s: %w", players[turn].Name(), err)
		}
		if err := board.PlayLegal(move); err != nil {
			return GameOutcome{}, moves, fmt.Errorf("%s: %w", players[turn].Name(), err)
		}

		moves = append(moves, move)
		w.listener.OnMoveMade(w.info(nGames, finished, moves))
	}

	return computeOutcome(board, starting), moves, nil
}
