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

package oracle

import (
	"math"
	"math/bits"

	"laptudirm.com/x/reversi/pkg/board"
	"laptudirm.com/x/reversi/pkg/game"
)

// Player is a one-ply searcher over a Model's weight table. It implements
// game.Oracle.
type Player struct {
	model *Model
}

func NewPlayer(model *Model) *Player {
	return &Player{model: model}
}

// Action returns the legal move with the highest score, preferring lower
// squares on ties, or board.Pass if there is no legal move.
func (player *Player) Action(own, enemy uint64) board.Square {
	best, bestScore := board.Pass, math.Inf(-1)
	for moves := board.LegalMoves(own, enemy); moves != 0; moves &= moves - 1 {
		sq := board.Square(bits.TrailingZeros64(moves))
		if score := player.score(own, enemy, sq); score > bestScore {
			best, bestScore = sq, score
		}
	}

	return best
}

// Evaluate returns the value of every legal move in (-1, 1), along with the
// move Action would play.
func (player *Player) Evaluate(own, enemy uint64) game.HistoryItem {
	item := game.HistoryItem{
		Action: player.Action(own, enemy),
		Values: make(map[board.Square]float64),
	}

	scale := player.model.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	for moves := board.LegalMoves(own, enemy); moves != 0; moves &= moves - 1 {
		sq := board.Square(bits.TrailingZeros64(moves))
		item.Values[sq] = math.Tanh(player.score(own, enemy, sq) / scale)
	}

	return item
}

// score returns the value of the position after playing sq, from the
// mover's point of view.
func (player *Player) score(own, enemy uint64, sq board.Square) float64 {
	flipped := board.Flips(own, enemy, sq)
	own |= sq.Bit() | flipped
	enemy &^= flipped

	score := player.material(own) - player.material(enemy)

	mobility := bits.OnesCount64(board.LegalMoves(own, enemy)) -
		bits.OnesCount64(board.LegalMoves(enemy, own))
	return score + player.model.Mobility*float64(mobility)
}

func (player *Player) material(stones uint64) float64 {
	var sum float64
	for ; stones != 0; stones &= stones - 1 {
		sum += player.model.Weights[bits.TrailingZeros64(stones)]
	}

	return sum
}
