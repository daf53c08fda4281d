package main

/*

Play Ultimate Tic-Tac-Toe against one of the engines in the terminal.
If you don't know the rules, see: https://en.wikipedia.org/wiki/Ultimate_tic-tac-toe

Moves are typed in the board notation, capital letter and digit select the
sub-board, lower case letter and digit the cell (for example B2b2 is the very
center). Other commands: 'undo', 'moves', 'pos', 'quit'.

*/

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/IlikeChooros/go-uttt/internal/config"
	"github.com/IlikeChooros/go-uttt/internal/engine"
	"github.com/IlikeChooros/go-uttt/internal/logging"
	"github.com/IlikeChooros/go-uttt/internal/render"
	"github.com/IlikeChooros/go-uttt/pkg/agent"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "uttt.json", "path to the JSON config file")
	engineName := flag.String("engine", "minimax", fmt.Sprintf("opponent, one of %v", engine.Names))
	side := flag.String("side", "x", "side played by the human: x or o")
	position := flag.String("position", "startpos", "starting position notation")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log)

	board, err := uttt.FromNotation(*position)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid position")
	}

	human := uttt.FirstPlayer
	if *side == "o" {
		human = uttt.SecondPlayer
	}

	eval, release, err := engine.NewEvaluator(cfg.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("evaluator")
	}
	defer release()

	factory, err := engine.NewFactory(*engineName, cfg, eval)
	if err != nil {
		log.Fatal().Err(err).Msg("engine")
	}

	g := &game{
		board:    board,
		human:    human,
		engine:   factory(0),
		renderer: render.New(os.Stdout),
		scanner:  bufio.NewScanner(os.Stdin),
	}
	g.renderer.ShowMoves = true
	g.run()
}

type game struct {
	board    *uttt.Board
	human    uttt.Player
	engine   agent.Agent
	renderer *render.Renderer
	scanner  *bufio.Scanner
}

func (g *game) run() {
	_ = g.renderer.Render(g.board)
	for !g.board.IsFinished() {
		if g.board.Turn() != g.human {
			g.engineMove()
			continue
		}
		if !g.humanMove() {
			return
		}
	}
	fmt.Println("game over:", g.board.Result())
}

func (g *game) engineMove() {
	move, err := g.engine.SelectMove(g.board)
	if err != nil {
		log.Fatal().Err(err).Msg("engine failed")
	}
	g.board.Play(move)

	fmt.Printf("%s plays %s", g.engine.Name(), move)
	if est, ok := g.engine.(interface{ WinProbability() float64 }); ok {
		fmt.Printf(" (win chance %.1f%%)", 100*est.WinProbability())
	}
	fmt.Println()
	_ = g.renderer.Render(g.board)
}

// Read and execute one command, returns false on quit or end of input
func (g *game) humanMove() bool {
	fmt.Print("> ")
	if !g.scanner.Scan() {
		return false
	}

	switch cmd := strings.TrimSpace(g.scanner.Text()); cmd {
	case "quit", "exit":
		return false
	case "":
	case "moves":
		moves := g.board.Moves()
		strs := make([]string, len(moves))
		for i, m := range moves {
			strs[i] = m.String()
		}
		fmt.Println(strings.Join(strs, " "))
	case "pos":
		fmt.Println(g.board.Notation())
	case "undo":
		// Take back the engine's reply too
		for range 2 {
			if err := g.board.Undo(); err != nil {
				fmt.Println(err)
				break
			}
		}
		_ = g.renderer.Render(g.board)
	default:
		move, err := uttt.ParseMove(cmd)
		if err == nil {
			err = g.board.PlayLegal(move)
		}
		if err != nil {
			fmt.Println(err)
			return true
		}
		_ = g.renderer.Render(g.board)
	}
	return true
}
