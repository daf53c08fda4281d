package bench

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Arena callbacks. Workers call them concurrently, implementations must be
// safe for concurrent use.
type ListenerLike interface {
	OnStart()
	OnGameStart(info VersusWorkerInfo)
	OnMoveMade(info VersusWorkerInfo)
	OnFinishedGame(info VersusWorkerInfo)
	OnFinishedWork(info VersusWorkerInfo)
	Summary(info VersusSummaryInfo)
}

type DefaultListener struct{}

func (DefaultListener) OnStart()                        {}
func (DefaultListener) OnGameStart(VersusWorkerInfo)    {}
func (DefaultListener) OnMoveMade(VersusWorkerInfo)     {}
func (DefaultListener) OnFinishedGame(VersusWorkerInfo) {}
func (DefaultListener) OnFinishedWork(VersusWorkerInfo) {}
func (DefaultListener) Summary(VersusSummaryInfo)       {}

// Writes arena progress as structured log events, moves are logged at trace
// level only
type LogListener struct {
	DefaultListener
	logger zerolog.Logger
}

func NewLogListener() *LogListener {
	return &LogListener{logger: log.With().Str("component", "arena").Logger()}
}

func (l *LogListener) OnStart() {
	l.logger.Info().Msg("arena started")
}

func (l *LogListener) OnMoveMade(info VersusWorkerInfo) {
	if len(info.Moves) == 0 {
		return
	}
	l.logger.Trace().
		Int("worker", info.WorkerID).
		Int("ply", info.GameMoveNum).
		Stringer("move", info.Moves[len(info.Moves)-1]).
		Msg("move")
}

func (l *LogListener) OnFinishedGame(info VersusWorkerInfo) {
	l.logger.Debug().
		Int("worker", info.WorkerID).
		Int("game", info.FinishedGames).
		Int("plies", info.GameMoveNum).
		Bool("p1_first", info.P1WentFirst).
		Stringer("winner", info.Result).
		Msg("game finished")
}

func (l *LogListener) OnFinishedWork(info VersusWorkerInfo) {
	l.logger.Info().
		Int("worker", info.WorkerID).
		Int("games", info.NGames).
		Int("p1_wins", info.P1Wins).
		Int("p2_wins", info.P2Wins).
		Int("draws", info.Draws).
		Msg("worker finished")
}

func (l *LogListener) Summary(info VersusSummaryInfo) {
	l.logger.Info().
		Str("player1", info.P1Name).
		Str("player2", info.P2Name).
		Int("games", info.TotalGames).
		Int("p1_wins", info.P1Wins).
		Int("p2_wins", info.P2Wins).
		Int("draws", info.Draws).
		Int("first_to_move_wins", info.FirstToMoveWins).
		Int("second_to_move_wins", info.SecondToMoveWins).
		Msg("arena summary")
}
