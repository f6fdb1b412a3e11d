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
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/reversi/pkg/board"
)

// Session is the state of a single game. A new Session is created by every
// call to StartGame, and it is only modified by its Orchestrator.
type Session struct {
	id       uuid.UUID
	position board.Position
	human    board.Color

	oracle Oracle
	engine Engine

	lastMove       board.Square
	lastEvaluation float64
	lastHistory    *HistoryItem

	log *logrus.Entry
}

func newSession(human board.Color, oracle Oracle, engine Engine, logger *logrus.Entry) *Session {
	id := uuid.New()
	return &Session{
		id:       id,
		position: board.Start(),
		human:    human,

		oracle: oracle,
		engine: engine,

		lastMove: board.Pass,

		log: logger.WithField("session", id.String()),
	}
}

func (session *Session) ID() uuid.UUID {
	return session.id
}

// Position returns a copy of the game's current position.
func (session *Session) Position() board.Position {
	return session.position
}

func (session *Session) Human() board.Color {
	return session.human
}

// state returns the stones of the player to move and of its opponent.
func (session *Session) state() (own, enemy uint64) {
	return session.position.Orient()
}

// humanState returns the stones of the human and of the oracle.
func (session *Session) humanState() (own, enemy uint64) {
	return session.position.Stones(session.human), session.position.Stones(session.human.Other())
}
