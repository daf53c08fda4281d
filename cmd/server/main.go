package main

/*

Serve the human versus engine game over a websocket (GET /ws).

*/

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/IlikeChooros/go-uttt/internal/config"
	"github.com/IlikeChooros/go-uttt/internal/engine"
	"github.com/IlikeChooros/go-uttt/internal/logging"
	"github.com/IlikeChooros/go-uttt/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "uttt.json", "path to the JSON config file")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	engineName := flag.String("engine", "", "engine agent, overrides server.engine")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *engineName != "" {
		cfg.Server.Engine = *engineName
	}
	logging.Setup(cfg.Log)

	eval, release, err := engine.NewEvaluator(cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluator")
	}
	defer release()

	factory, err := engine.NewFactory(cfg.Server.Engine, cfg, eval)
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(factory).ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
