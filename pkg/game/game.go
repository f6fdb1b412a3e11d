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

// Package game implements a game of reversi between a human and the oracle,
// with an optional engine which can take the human's seat for a move.
package game

import (
	"context"
	"errors"

	"laptudirm.com/x/reversi/pkg/board"
)

var (
	// ErrModelUnavailable is returned by StartGame when neither the best
	// nor the newest model could be loaded.
	ErrModelUnavailable = errors.New("game: no models found")

	ErrIllegalMove  = errors.New("game: illegal move")
	ErrNotHumanTurn = errors.New("game: not the human's turn")
	ErrNotAITurn    = errors.New("game: not the ai's turn")
	ErrNoSession    = errors.New("game: no game in progress")
	ErrNoEngine     = errors.New("game: no engine configured")
)

// HistoryItem is the oracle's thought about a position: the action it
// chose and the value of every move it considered.
type HistoryItem struct {
	Action board.Square
	Values map[board.Square]float64
}

// Oracle chooses moves for the non-human side. Both methods are given the
// stones of the player to move first.
type Oracle interface {
	Action(own, enemy uint64) board.Square
	Evaluate(own, enemy uint64) HistoryItem
}

// ModelRepository locates and loads the model backing the oracles. Both
// methods report whether a model was loaded.
type ModelRepository interface {
	TryLoadBest() bool
	TryReloadNewest() bool
}

// Engine is the subset of an engine client used by a game.
type Engine interface {
	Initialize(ctx context.Context) error
	RequestMove(ctx context.Context, mover, opponent uint64) (board.Square, error)
	Shutdown() error
}

// MoveGenerator computes the legal moves of the player owning own.
type MoveGenerator interface {
	LegalMoves(own, enemy uint64) uint64
}

// MoveGeneratorFunc is an adapter to use ordinary functions as a
// MoveGenerator.
type MoveGeneratorFunc func(own, enemy uint64) uint64

func (fn MoveGeneratorFunc) LegalMoves(own, enemy uint64) uint64 {
	return fn(own, enemy)
}

// Bitboards is the MoveGenerator backed by package board.
var Bitboards MoveGenerator = MoveGeneratorFunc(board.LegalMoves)
