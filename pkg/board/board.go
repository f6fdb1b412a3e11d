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

// Package board implements an 8x8 reversi board on a pair of bitboards,
// along with the notation used to talk about it with xboard engines.
package board

// Square is the index of a square on the board. Square 0 is the top-left
// corner and the squares are numbered row by row, so that a square s is at
// row s/8 and column s%8.
type Square int

// Pass is the Square used to represent a passing move.
const Pass Square = -1

// N is the number of squares on the board.
const N = 64

// Valid reports whether sq is one of the 64 squares of the board.
func (sq Square) Valid() bool {
	return sq >= 0 && sq < N
}

// Bit returns the bitboard with only sq set.
func (sq Square) Bit() uint64 {
	return uint64(1) << sq
}

func (sq Square) String() string {
	if sq != Pass && !sq.Valid() {
		return "--"
	}

	return MoveToken(sq)
}

// Color represents the color of a player's stones.
type Color int

const (
	Black Color = iota
	White

	ColorN = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	default:
		return "?"
	}
}
