package server

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/IlikeChooros/go-uttt/pkg/agent"
	"github.com/IlikeChooros/go-uttt/pkg/minimax"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Generic view of every server message
type reply struct {
	Init            bool     `json:"init"`
	Action          string   `json:"action"`
	Error           string   `json:"error"`
	Board           int      `json:"board"`
	Pos             int      `json:"pos"`
	Player          int      `json:"player"`
	ValidMoves      [][2]int `json:"valid_moves"`
	CompletedBoards [][2]int `json:"completed_boards"`
	Result          *int     `json:"result"`
	WinChance       *float64 `json:"win_chance"`
	Locked          bool     `json:"locked"`
}

func randomAgents(id int) agent.Agent {
	return agent.NewRandom(rand.New(rand.NewSource(int64(id))))
}

func dial(t *testing.T, factory agent.Factory) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(New(factory).Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) reply {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	var r reply
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatal(err)
	}
	return r
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatal(err)
	}
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(New(randomAgents).Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || body["ok"] != true {
		t.Fatalf("unexpected health response %d %v", resp.StatusCode, body)
	}
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
}

func TestInit(t *testing.T) {
	conn := dial(t, randomAgents)

	hello := read(t, conn)
	if !hello.Init || hello.Player != 1 || len(hello.ValidMoves) != 81 {
		t.Fatalf("unexpected init message %+v", hello)
	}
}

func TestPlayerAndComputerMove(t *testing.T) {
	conn := dial(t, randomAgents)
	read(t, conn)

	send(t, conn, map[string]any{"board": 4, "pos": 2})

	player := read(t, conn)
	if player.Action != actionPlayerMove || player.Board != 4 || player.Pos != 2 ||
		player.Player != 1 || !player.Locked || player.Result != nil {
		t.Fatalf("unexpected player move %+v", player)
	}
	// the opponent is sent to sub-board 2
	if len(player.ValidMoves) != 9 || player.ValidMoves[0] != [2]int{2, 0} {
		t.Fatalf("unexpected valid moves %v", player.ValidMoves)
	}

	computer := read(t, conn)
	if computer.Action != actionComputerMove || computer.Player != -1 || computer.Locked {
		t.Fatalf("unexpected computer move %+v", computer)
	}
	if computer.Board != 2 {
		t.Fatalf("computer played on sub-board %d, expected 2", computer.Board)
	}
	if computer.WinChance == nil {
		t.Fatal("computer move carries no win chance")
	}
}

func TestRejectedRequests(t *testing.T) {
	conn := dial(t, randomAgents)
	read(t, conn)

	requests := []any{
		map[string]any{"board": 9, "pos": 0},
		map[string]any{"board": 0},
		"garbage",
	}
	for _, req := range requests {
		send(t, conn, req)
		if r := read(t, conn); r.Action != actionError || r.Error == "" {
			t.Fatalf("expected an error for %v, got %+v", req, r)
		}
	}

	send(t, conn, map[string]any{"board": 4, "pos": 4})
	read(t, conn)
	computer := read(t, conn)

	// occupied cell, or wrong sub-board
	send(t, conn, map[string]any{"board": 4, "pos": 4})
	if r := read(t, conn); r.Action != actionError {
		t.Fatalf("expected an illegal move error, got %+v", r)
	}
	wrong := (computer.Pos + 1) % 9
	send(t, conn, map[string]any{"board": wrong, "pos": 0})
	if r := read(t, conn); r.Action != actionError || !strings.Contains(r.Error, "illegal move") {
		t.Fatalf("expected an illegal move error, got %+v", r)
	}
}

func TestLockedIgnored(t *testing.T) {
	conn := dial(t, randomAgents)
	read(t, conn)

	send(t, conn, map[string]any{"board": 0, "pos": 0, "locked": true})
	send(t, conn, map[string]any{"board": 8, "pos": 8})

	// the first reply answers the second request
	if r := read(t, conn); r.Action != actionPlayerMove || r.Board != 8 || r.Pos != 8 {
		t.Fatalf("locked request was not ignored, got %+v", r)
	}
}

func TestGameToTheEnd(t *testing.T) {
	conn := dial(t, func(int) agent.Agent {
		return agent.NewMinimax(minimax.Config{Depth: 1}, minimax.HeuristicEvaluator{})
	})
	hello := read(t, conn)

	// mirror the game locally, the human plays the first legal move
	board := uttt.NewBoard()
	valid := hello.ValidMoves
	for range 81 {
		send(t, conn, map[string]any{"board": valid[0][0], "pos": valid[0][1]})
		player := read(t, conn)
		if player.Action != actionPlayerMove {
			t.Fatalf("unexpected reply %+v", player)
		}
		board.Play(uttt.NewMove(player.Board, player.Pos))
		if player.Result != nil {
			if *player.Result != board.Result().Sign() {
				t.Fatalf("result mismatch %d vs %v", *player.Result, board.Result())
			}
			return
		}

		computer := read(t, conn)
		if computer.Action != actionComputerMove {
			t.Fatalf("unexpected reply %+v", computer)
		}
		if err := board.PlayLegal(uttt.NewMove(computer.Board, computer.Pos)); err != nil {
			t.Fatal(err)
		}
		if len(computer.CompletedBoards) != len(board.CompletedBoards()) {
			t.Fatalf("completed boards mismatch %v vs %v", computer.CompletedBoards, board.CompletedBoards())
		}
		if computer.Result != nil {
			if *computer.Result != board.Result().Sign() {
				t.Fatalf("result mismatch %d vs %v", *computer.Result, board.Result())
			}
			return
		}
		valid = computer.ValidMoves
	}
	t.Fatal("game did not finish")
}

func TestListenAndServeShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- New(randomAgents).ListenAndServe(ctx, addr) }()

	// wait for the listener
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSendDropsUnencodable(t *testing.T) {
	s := newSession(nil, randomAgents(0), zerolog.Nop())

	msg := newMoveMessage(actionComputerMove, s.board, uttt.NewMove(4, 4))
	nan := math.NaN()
	msg.WinChance = &nan
	s.sendJSON(msg)
	if len(s.send) != 0 {
		t.Fatalf("expected the message to be dropped, %d queued", len(s.send))
	}

	chance := 0.5
	msg.WinChance = &chance
	s.sendJSON(msg)
	if len(s.send) != 1 {
		t.Fatalf("expected 1 queued message, got %d", len(s.send))
	}
}
