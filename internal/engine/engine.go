// Package engine builds evaluators and agents from the configuration, shared
// by all commands.
package engine

import (
	"fmt"

	"github.com/IlikeChooros/go-uttt/internal/config"
	"github.com/IlikeChooros/go-uttt/pkg/agent"
	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/IlikeChooros/go-uttt/pkg/minimax"
	"github.com/IlikeChooros/go-uttt/pkg/nn"
	"github.com/rs/zerolog/log"
)

// Names accepted by NewFactory
var Names = []string{"random", "minimax", "mcts"}

// Load the network given in the config, or the uniform evaluator when no
// model path is set. The returned function releases the model.
func NewEvaluator(cfg config.ModelConfig) (mcts.Evaluator, func(), error) {
	if cfg.Path == "" {
		log.Debug().Msg("no model configured, using the uniform evaluator")
		return mcts.UniformEvaluator{}, func() {}, nil
	}

	nnCfg := nn.DefaultConfig()
	nnCfg.ModelPath = cfg.Path
	nnCfg.LibraryPath = cfg.LibraryPath
	eval, err := nn.NewONNXEvaluator(nnCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("load model: %w", err)
	}
	return eval, eval.Close, nil
}

// Agent factory by name. Every agent built by it gets its own generator,
// seeded from mcts.SeedGeneratorFn offset by the agent id.
func NewFactory(name string, cfg config.Config, eval mcts.Evaluator) (agent.Factory, error) {
	mcts.SetExplorationParam(cfg.MCTS.Exploration)

	switch name {
	case "random":
		return func(id int) agent.Agent {
			return agent.NewRandom(mcts.NewRand(int64(id)))
		}, nil
	case "minimax":
		mmCfg := minimax.Config{Depth: cfg.Minimax.Depth, Sims: cfg.Minimax.Sims}
		return func(id int) agent.Agent {
			return agent.NewRolloutMinimax(mmCfg, mcts.NewRand(int64(id)))
		}, nil
	case "mcts":
		sims := cfg.MCTS.Simulations
		return func(int) agent.Agent {
			return agent.NewMCTS(eval, mcts.DefaultLimits().SetSimulations(sims))
		}, nil
	}
	return nil, fmt.Errorf("unknown agent %q, expected one of %v", name, Names)
}
