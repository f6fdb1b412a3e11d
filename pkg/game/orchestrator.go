// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package game

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/reversi/pkg/board"
)

// Config configures an Orchestrator.
type Config struct {
	// Models is the repository the oracle's model is loaded from.
	Models ModelRepository
	// UseNewestModel prefers the newest next generation model over the
	// best model, and reloads it whenever a new game is started.
	UseNewestModel bool

	// NewOracle creates the oracle of a new game.
	NewOracle func() Oracle
	// NewEngine creates the engine of a new game. It may be nil, in which
	// case games are played without engine assist.
	NewEngine func() Engine

	// Generator defaults to Bitboards.
	Generator MoveGenerator

	Logger *logrus.Entry
}

// Orchestrator sequences the turns of a game between a human and the
// oracle. It is not safe for concurrent use.
//
// A turn is started by PlayNextTurn, which only notifies the observers;
// the moves themselves are played by ApplyHumanMove and ApplyAIMove, so
// that the host decides the pace of the game.
type Orchestrator struct {
	config    Config
	generator MoveGenerator
	log       *logrus.Entry

	observers []Observer

	loaded  bool
	session *Session
}

func New(config Config) *Orchestrator {
	logger := config.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	generator := config.Generator
	if generator == nil {
		generator = Bitboards
	}

	return &Orchestrator{
		config:    config,
		generator: generator,
		log:       logger.WithField("game", "reversi"),
	}
}

// AddObserver registers an observer. Observers are notified in the order
// they were added, and they are kept across games.
func (orchestrator *Orchestrator) AddObserver(observer Observer) {
	orchestrator.observers = append(orchestrator.observers, observer)
}

func (orchestrator *Orchestrator) notify(event Event) {
	orchestrator.log.Tracef("notifying observers: %s", event)
	for _, observer := range orchestrator.observers {
		observer(event)
	}
}

// loadModel loads the oracle's model the first time a game is started.
func (orchestrator *Orchestrator) loadModel() error {
	models := orchestrator.config.Models
	if models == nil || orchestrator.config.NewOracle == nil {
		return ErrModelUnavailable
	}

	if orchestrator.loaded {
		if orchestrator.config.UseNewestModel && models.TryReloadNewest() {
			orchestrator.log.Info("reloaded the newest model")
		}

		return nil
	}

	var loaded bool
	if orchestrator.config.UseNewestModel {
		loaded = models.TryReloadNewest() || models.TryLoadBest()
	} else {
		loaded = models.TryLoadBest() || models.TryReloadNewest()
	}

	if !loaded {
		return ErrModelUnavailable
	}

	orchestrator.loaded = true
	return nil
}

// StartGame replaces the current game with a new one from the starting
// position. A new oracle and a new engine are created for the game, and the
// previous game's engine is shut down. The engine failing to initialize is
// not fatal: the game is played without engine assist.
func (orchestrator *Orchestrator) StartGame(ctx context.Context, humanIsBlack bool) error {
	if err := orchestrator.loadModel(); err != nil {
		return err
	}

	orchestrator.closeSession()

	human := board.White
	if humanIsBlack {
		human = board.Black
	}

	var engine Engine
	if orchestrator.config.NewEngine != nil {
		engine = orchestrator.config.NewEngine()
	}

	session := newSession(human, orchestrator.config.NewOracle(), engine, orchestrator.log)
	orchestrator.session = session

	if engine != nil {
		if err := engine.Initialize(ctx); err != nil {
			session.log.WithError(err).Warn("engine assist is unavailable")
		}
	}

	session.log.WithField("human", human).Info("started new game")
	return nil
}

// PlayNextTurn starts the next turn of the game. Observers are notified with
// Updated, and then with Over if the game has ended, or with AIToMove if the
// oracle has to move.
func (orchestrator *Orchestrator) PlayNextTurn() error {
	session := orchestrator.session
	if session == nil {
		return ErrNoSession
	}

	orchestrator.notify(Updated)

	switch {
	case session.position.Done():
		orchestrator.notify(Over)
	case session.position.Next != session.human:
		orchestrator.notify(AIToMove)
	}

	return nil
}

// IsLegal reports whether the human may play at (x, y), with (0, 0) being
// the top-left square. It is false for out of range coordinates.
func (orchestrator *Orchestrator) IsLegal(x, y int) bool {
	session := orchestrator.session
	if session == nil {
		return false
	}

	sq := board.CoordToSquareIndex(x, y)
	if sq == board.Pass {
		return false
	}

	own, enemy := session.humanState()
	return orchestrator.generator.LegalMoves(own, enemy)&sq.Bit() != 0
}

// ApplyHumanMove plays the human's move at (x, y).
//
// If useEngine is set the engine plays the human's seat: it is asked for a
// move in the human's position, and its move is played instead of (x, y),
// which is ignored. Engine errors are returned without changing the game.
func (orchestrator *Orchestrator) ApplyHumanMove(ctx context.Context, x, y int, useEngine bool) error {
	session := orchestrator.session
	if session == nil {
		return ErrNoSession
	}

	if session.position.Done() || session.position.Next != session.human {
		return ErrNotHumanTurn
	}

	sq := board.CoordToSquareIndex(x, y)
	if useEngine {
		if session.engine == nil {
			return ErrNoEngine
		}

		session.log.Debug("engine thinking for the human")

		mover, opponent := session.state()
		move, err := session.engine.RequestMove(ctx, mover, opponent)
		if err != nil {
			return fmt.Errorf("game: engine move: %w", err)
		}

		sq = move
	}

	passed, err := orchestrator.apply(session, sq)
	if err != nil {
		return err
	}

	if passed {
		orchestrator.notify(Pass)
	}

	return nil
}

// ApplyAIMove plays the oracle's move, and records its evaluation of it.
func (orchestrator *Orchestrator) ApplyAIMove() error {
	session := orchestrator.session
	if session == nil {
		return ErrNoSession
	}

	if session.position.Done() || session.position.Next == session.human {
		return ErrNotAITurn
	}

	own, enemy := session.state()
	action := session.oracle.Action(own, enemy)

	passed, err := orchestrator.apply(session, action)
	if err != nil {
		return fmt.Errorf("game: oracle move: %w", err)
	}

	history := session.oracle.Evaluate(own, enemy)
	session.lastHistory = &history
	session.lastEvaluation = history.Values[history.Action]
	session.log.Debugf("evaluation by ai=%.4f", session.lastEvaluation)

	if passed {
		orchestrator.notify(Pass)
	}

	return nil
}

// apply plays the given move for the player to move after checking its
// legality. The position is only changed if the move is legal.
func (orchestrator *Orchestrator) apply(session *Session, sq board.Square) (passed bool, err error) {
	mover, opponent := session.state()
	if !sq.Valid() || orchestrator.generator.LegalMoves(mover, opponent)&sq.Bit() == 0 {
		return false, fmt.Errorf("%w: %s to play %s", ErrIllegalMove, session.position.Next, sq)
	}

	color := session.position.Next
	if passed, err = session.position.Step(sq); err != nil {
		return false, fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}

	session.lastMove = sq
	session.log.WithField("color", color).Debugf("played %s", sq)
	return passed, nil
}

// Session returns the current game, or nil if no game has been started.
func (orchestrator *Orchestrator) Session() *Session {
	return orchestrator.session
}

// Over reports whether the current game has ended.
func (orchestrator *Orchestrator) Over() bool {
	return orchestrator.session != nil && orchestrator.session.position.Done()
}

// NextPlayer returns the color of the player to move.
func (orchestrator *Orchestrator) NextPlayer() board.Color {
	if orchestrator.session == nil {
		return board.Black
	}

	return orchestrator.session.position.Next
}

// HumanColor returns the color played by the human in the current game.
func (orchestrator *Orchestrator) HumanColor() board.Color {
	if orchestrator.session == nil {
		return board.Black
	}

	return orchestrator.session.human
}

// Stone returns the color of the stone at (x, y), if there is one.
func (orchestrator *Orchestrator) Stone(x, y int) (board.Color, bool) {
	if orchestrator.session == nil {
		return board.Black, false
	}

	return orchestrator.session.position.Stone(x, y)
}

// Count returns the number of black and white stones.
func (orchestrator *Orchestrator) Count() (black, white int) {
	if orchestrator.session == nil {
		return 0, 0
	}

	return orchestrator.session.position.Count()
}

// LastMove returns the last move played, or board.Pass if no move has been
// played in the current game.
func (orchestrator *Orchestrator) LastMove() board.Square {
	if orchestrator.session == nil {
		return board.Pass
	}

	return orchestrator.session.lastMove
}

// LastEvaluation returns the oracle's evaluation of its last move. ok is
// false until the oracle has moved.
func (orchestrator *Orchestrator) LastEvaluation() (value float64, ok bool) {
	if orchestrator.session == nil || orchestrator.session.lastHistory == nil {
		return 0, false
	}

	return orchestrator.session.lastEvaluation, true
}

// LastHistory returns the training record of the oracle's last move. ok is
// false until the oracle has moved.
func (orchestrator *Orchestrator) LastHistory() (HistoryItem, bool) {
	if orchestrator.session == nil || orchestrator.session.lastHistory == nil {
		return HistoryItem{}, false
	}

	return *orchestrator.session.lastHistory, true
}

// Close shuts down the current game's engine.
func (orchestrator *Orchestrator) Close() error {
	session := orchestrator.session
	if session == nil || session.engine == nil {
		return nil
	}

	return session.engine.Shutdown()
}

func (orchestrator *Orchestrator) closeSession() {
	if err := orchestrator.Close(); err != nil {
		orchestrator.session.log.WithError(err).Warn("shutting down engine")
	}
}
