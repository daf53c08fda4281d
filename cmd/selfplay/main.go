package main

/*

Generate training data: the MCTS engine plays against itself and every
position is written together with the visit policy and the game outcome as a
zstd compressed JSON-lines file.

*/

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/IlikeChooros/go-uttt/internal/config"
	"github.com/IlikeChooros/go-uttt/internal/engine"
	"github.com/IlikeChooros/go-uttt/internal/logging"
	"github.com/IlikeChooros/go-uttt/pkg/dataset"
	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "uttt.json", "path to the JSON config file")
	games := flag.Int("n", 0, "number of games, overrides selfplay.games")
	workers := flag.Int("workers", 0, "parallel games, overrides selfplay.workers")
	sims := flag.Int("sims", 0, "simulations per move, overrides mcts.simulations")
	out := flag.String("out", "", "output file, overrides selfplay.out")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *games > 0 {
		cfg.SelfPlay.Games = *games
	}
	if *workers > 0 {
		cfg.SelfPlay.Workers = *workers
	}
	if *sims > 0 {
		cfg.MCTS.Simulations = *sims
	}
	if *out != "" {
		cfg.SelfPlay.Out = *out
	}
	logging.Setup(cfg.Log)
	mcts.SetExplorationParam(cfg.MCTS.Exploration)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("self-play failed")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	eval, release, err := engine.NewEvaluator(cfg.Model)
	if err != nil {
		return err
	}
	defer release()

	f, err := os.OpenFile(cfg.SelfPlay.Out, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	// Every run appends a new zstd frame, readers handle concatenated frames
	w, err := dataset.NewWriter(f)
	if err != nil {
		return err
	}

	var (
		mu       sync.Mutex
		finished atomic.Int32
		start    = time.Now()
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(1, cfg.SelfPlay.Workers))
	for i := range cfg.SelfPlay.Games {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			game, err := mcts.SelfPlay(eval, cfg.MCTS.Simulations, mcts.NewRand(int64(i)))
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}

			mu.Lock()
			err = w.Write(dataset.FromExamples(game)...)
			mu.Unlock()
			if err != nil {
				return err
			}

			log.Info().
				Int("game", int(finished.Add(1))).
				Int("of", cfg.SelfPlay.Games).
				Int("plies", game.Len()).
				Stringer("result", game.Result).
				Msg("game finished")
			return nil
		})
	}

	err = group.Wait()
	// The last zstd frame is only complete after Close
	if cerr := w.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close dataset: %w", cerr)
	}
	log.Info().
		Int("games", int(finished.Load())).
		Int("examples", w.Count()).
		Str("out", cfg.SelfPlay.Out).
		Dur("took", time.Since(start)).
		Msg("self-play done")
	return err
}
