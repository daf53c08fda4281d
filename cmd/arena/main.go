package main

/*

Play a series of games between two engines and report who wins more often.
Players alternate the first move, so both get the same number of starts.

*/

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IlikeChooros/go-uttt/internal/config"
	"github.com/IlikeChooros/go-uttt/internal/engine"
	"github.com/IlikeChooros/go-uttt/internal/logging"
	"github.com/IlikeChooros/go-uttt/pkg/bench"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "uttt.json", "path to the JSON config file")
	p1 := flag.String("p1", "mcts", fmt.Sprintf("first agent, one of %v", engine.Names))
	p2 := flag.String("p2", "minimax", fmt.Sprintf("second agent, one of %v", engine.Names))
	games := flag.Int("n", 0, "number of games, overrides arena.games")
	workers := flag.Int("workers", 0, "parallel games, overrides arena.workers")
	position := flag.String("position", "startpos", "starting position of every game")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *games > 0 {
		cfg.Arena.Games = *games
	}
	if *workers > 0 {
		cfg.Arena.Workers = *workers
	}
	logging.Setup(cfg.Log)

	start, err := uttt.FromNotation(*position)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid position")
	}

	eval, release, err := engine.NewEvaluator(cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluator")
	}
	defer release()

	player1, err := engine.NewFactory(*p1, cfg, eval)
	if err != nil {
		log.Fatal().Err(err).Msg("player 1")
	}
	player2, err := engine.NewFactory(*p2, cfg, eval)
	if err != nil {
		log.Fatal().Err(err).Msg("player 2")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	arena := bench.NewVersusArena(player1, player2).WithContext(ctx)
	arena.Position = start
	arena.Setup(cfg.Arena.Games, cfg.Arena.Workers)

	summary, err := arena.Run(bench.NewLogListener())
	if err != nil {
		log.Error().Err(err).Msg("arena stopped")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(summary)
}
