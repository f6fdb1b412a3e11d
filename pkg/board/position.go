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

package board

import (
	"errors"
	"fmt"
	"math/bits"
)

// Starting bitboards of the two players.
const (
	StartBlack uint64 = 0x0000000810000000
	StartWhite uint64 = 0x0000001008000000
)

var ErrIllegalMove = errors.New("board: illegal move")

// Position is a reversi position: the stones of both players and the color
// of the player who has to move next.
type Position struct {
	Black, White uint64
	Next         Color
}

// Start returns the standard starting position, with black to move.
func Start() Position {
	return Position{
		Black: StartBlack,
		White: StartWhite,
		Next:  Black,
	}
}

// Stones returns the bitboard of the stones of the given color.
func (pos *Position) Stones(c Color) uint64 {
	if c == Black {
		return pos.Black
	}

	return pos.White
}

// Orient returns the position's bitboards ordered as (mover, opponent),
// relative to the player who has to move next.
func (pos *Position) Orient() (mover, opponent uint64) {
	return pos.Stones(pos.Next), pos.Stones(pos.Next.Other())
}

// Stone returns the color of the stone on the square (x, y) with the
// origin at the top-left. ok is false if the square is empty.
func (pos *Position) Stone(x, y int) (c Color, ok bool) {
	sq := CoordToSquareIndex(x, y)
	switch {
	case !sq.Valid():
		return Black, false
	case pos.Black&sq.Bit() != 0:
		return Black, true
	case pos.White&sq.Bit() != 0:
		return White, true
	default:
		return Black, false
	}
}

// Count returns the number of stones of each player.
func (pos *Position) Count() (black, white int) {
	return bits.OnesCount64(pos.Black), bits.OnesCount64(pos.White)
}

// Done reports whether neither player has a legal move left.
func (pos *Position) Done() bool {
	return LegalMoves(pos.Black, pos.White) == 0 &&
		LegalMoves(pos.White, pos.Black) == 0
}

// Winner returns the player with the most stones. draw is true if both
// players have the same number of stones.
func (pos *Position) Winner() (winner Color, draw bool) {
	black, white := pos.Count()
	switch {
	case black > white:
		return Black, false
	case white > black:
		return White, false
	default:
		return Black, true
	}
}

// Step plays the given move for the player to move. The turn is handed over
// to the opponent, unless the opponent has no legal moves, in which case the
// mover keeps the turn and passed is true. passed is always false once the
// position is Done.
//
// Pass is only accepted when the mover has no legal moves.
func (pos *Position) Step(sq Square) (passed bool, err error) {
	mover, opponent := pos.Orient()

	if sq == Pass {
		if LegalMoves(mover, opponent) != 0 {
			return false, fmt.Errorf("%w: %s passed with legal moves", ErrIllegalMove, pos.Next)
		}

		pos.Next = pos.Next.Other()
		return false, nil
	}

	if !IsLegal(mover, opponent, sq) {
		return false, fmt.Errorf("%w: %s to play %s", ErrIllegalMove, pos.Next, sq)
	}

	flipped := Flips(mover, opponent, sq)
	mover |= sq.Bit() | flipped
	opponent &^= flipped

	if pos.Next == Black {
		pos.Black, pos.White = mover, opponent
	} else {
		pos.White, pos.Black = mover, opponent
	}

	switch {
	case LegalMoves(opponent, mover) != 0:
		pos.Next = pos.Next.Other()
		return false, nil
	case LegalMoves(mover, opponent) != 0:
		// opponent has to pass
		return true, nil
	default:
		return false, nil
	}
}
