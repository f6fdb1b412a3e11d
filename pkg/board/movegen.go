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

const (
	all uint64 = 0xFFFFFFFFFFFFFFFF
	// Files
	fileA uint64 = 0x0101010101010101
	fileH uint64 = 0x8080808080808080
	// Not Files
	notFileA = all ^ fileA
	notFileH = all ^ fileH
)

// direction is a shift on the board. Positive shifts move towards the
// bottom-right corner, negative ones towards the top-left corner. The mask
// removes the squares which wrapped around the board's edges.
type direction struct {
	shift int
	mask  uint64
}

var directions = [8]direction{
	{+1, notFileA}, // East
	{-1, notFileH}, // West
	{+8, all},      // South
	{-8, all},      // North
	{+9, notFileA}, // South East
	{+7, notFileH}, // South West
	{-7, notFileA}, // North East
	{-9, notFileH}, // North West
}

func (d direction) apply(bb uint64) uint64 {
	if d.shift > 0 {
		return (bb << d.shift) & d.mask
	}

	return (bb >> -d.shift) & d.mask
}

// LegalMoves returns the bitboard of the squares on which the owner of own
// can legally place a stone, given that enemy contains the opponent's stones.
func LegalMoves(own, enemy uint64) uint64 {
	empty := ^(own | enemy)

	var moves uint64
	for _, d := range directions {
		// a line of at most 6 enemy stones can be flanked on an 8x8 board
		line := d.apply(own) & enemy
		for i := 0; i < 5; i++ {
			line |= d.apply(line) & enemy
		}

		moves |= d.apply(line) & empty
	}

	return moves
}

// Flips returns the bitboard of the enemy stones which are flipped when the
// owner of own places a stone on sq. It does not check if the move is legal.
func Flips(own, enemy uint64, sq Square) uint64 {
	var flipped uint64
	for _, d := range directions {
		var line uint64

		x := d.apply(sq.Bit())
		for x&enemy != 0 {
			line |= x
			x = d.apply(x)
		}

		// the line of enemy stones has to be closed by one of our stones
		if x&own != 0 {
			flipped |= line
		}
	}

	return flipped
}

// IsLegal reports whether sq is a legal move for the owner of own.
func IsLegal(own, enemy uint64, sq Square) bool {
	return sq.Valid() && LegalMoves(own, enemy)&sq.Bit() != 0
}
