package server

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/IlikeChooros/go-uttt/pkg/agent"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

var errBadRequest = errors.New("expected {\"board\": int, \"pos\": int}")

// Agents able to report how confident they are about their last move
type winEstimator interface {
	WinProbability() float64
}

// One human versus the engine, owns the game state of a single connection.
// Messages are handled one at a time by the reader loop, so the board is
// never accessed concurrently.
type session struct {
	conn   *websocket.Conn
	board  *uttt.Board
	engine agent.Agent
	send   chan []byte
	// Closed when the write loop stops
	done   chan struct{}
	logger zerolog.Logger
}

func newSession(conn *websocket.Conn, engine agent.Agent, logger zerolog.Logger) *session {
	return &session{
		conn:   conn,
		board:  uttt.NewBoard(),
		engine: engine,
		send:   make(chan []byte, 16),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Queue a message for the write loop, messages that fail to encode are
// logged and dropped.
func (s *session) sendJSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode message")
		return
	}

	select {
	case s.send <- data:
	case <-s.done:
	}
}

// Drain the send queue, pinging the client when idle. Returns once the queue
// is closed or a write fails.
func (s *session) writeLoop() error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				return s.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeTimeout))
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return err
			}
		}
	}
}

func (s *session) run() {
	go func() {
		defer close(s.done)
		if err := s.writeLoop(); err != nil {
			s.logger.Debug().Err(err).Msg("write loop stopped")
			// unblocks the reader
			s.conn.Close()
		}
	}()

	s.sendJSON(initMessage{
		Init:       true,
		Player:     int(s.board.Turn()),
		ValidMoves: validMoves(s.board),
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug().Err(err).Msg("read failed")
			}
			break
		}
		s.handle(data)
	}

	close(s.send)
	<-s.done
	s.conn.Close()
}

func (s *session) fail(err error) {
	s.logger.Debug().Err(err).Msg("rejected request")
	s.sendJSON(errorMessage{Action: actionError, Error: err.Error()})
}

func (s *session) handle(data []byte) {
	var req moveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.fail(errBadRequest)
		return
	}

	// The client is waiting for the engine, ignore
	if req.Locked {
		return
	}

	if req.Board == nil || req.Pos == nil || *req.Board < 0 || *req.Board > 8 || *req.Pos < 0 || *req.Pos > 8 {
		s.fail(errBadRequest)
		return
	}

	move := uttt.NewMove(*req.Board, *req.Pos)
	if err := s.board.PlayLegal(move); err != nil {
		s.fail(err)
		return
	}

	msg := newMoveMessage(actionPlayerMove, s.board, move)
	msg.Locked = true
	s.sendJSON(msg)
	s.logger.Debug().Stringer("move", move).Msg("player move")

	if s.board.IsFinished() {
		s.logger.Info().Stringer("result", s.board.Result()).Msg("game finished")
		return
	}
	s.computerMove()
}

func (s *session) computerMove() {
	start := time.Now()
	move, err := s.engine.SelectMove(s.board)
	if err == nil {
		err = s.board.PlayLegal(move)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("engine", s.engine.Name()).Msg("engine failed")
		s.fail(err)
		return
	}

	chance := 0.5
	if est, ok := s.engine.(winEstimator); ok {
		chance = est.WinProbability()
	}

	msg := newMoveMessage(actionComputerMove, s.board, move)
	msg.WinChance = &chance
	s.sendJSON(msg)

	s.logger.Debug().
		Stringer("move", move).
		Float64("win_chance", chance).
		Dur("took", time.Since(start)).
		Msg("computer move")
	if s.board.IsFinished() {
		s.logger.Info().Stringer("result", s.board.Result()).Msg("game finished")
	}
}
