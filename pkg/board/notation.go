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
	"strconv"
	"strings"
)

const (
	// PassToken is the move token used by engines for a pass.
	PassToken = "@@"

	moverMarker    = 'p'
	opponentMarker = 'P'

	// The side to move field always claims that the 'p' stones move. The
	// mover is always encoded with 'p', so the claim is always true.
	notationSuffix = " b - - 0 1"
)

var ErrBadToken = errors.New("board: malformed move token")

// EncodePosition encodes the given position into the board notation used
// by the setboard command. Stones of the mover are encoded as 'p', stones
// of the opponent as 'P', and runs of empty squares as a digit.
func EncodePosition(mover, opponent uint64) string {
	var notation strings.Builder

	for row := 0; row < 8; row++ {
		if row > 0 {
			notation.WriteByte('/')
		}

		gaps := 0
		for col := 0; col < 8; col++ {
			bit := CoordToSquareIndex(col, row).Bit()

			var marker byte
			switch {
			case mover&bit != 0:
				marker = moverMarker
			case opponent&bit != 0:
				marker = opponentMarker
			default:
				gaps++
				continue
			}

			if gaps > 0 {
				notation.WriteString(strconv.Itoa(gaps))
				gaps = 0
			}

			notation.WriteByte(marker)
		}

		if gaps > 0 {
			notation.WriteString(strconv.Itoa(gaps))
		}
	}

	notation.WriteString(notationSuffix)
	return notation.String()
}

// ParsePosition decodes board notation produced by EncodePosition back
// into a (mover, opponent) pair. Only the board field is read.
func ParsePosition(notation string) (mover, opponent uint64, err error) {
	field, _, _ := strings.Cut(strings.TrimSpace(notation), " ")

	rows := strings.Split(field, "/")
	if len(rows) != 8 {
		return 0, 0, fmt.Errorf("board: notation has %d rows", len(rows))
	}

	for y, row := range rows {
		x := 0
		for i := 0; i < len(row); i++ {
			switch c := row[i]; {
			case c >= '1' && c <= '8':
				x += int(c - '0')
				continue
			case c == moverMarker, c == opponentMarker:
				if x >= 8 {
					return 0, 0, fmt.Errorf("board: row %d is too long", y+1)
				}

				if c == moverMarker {
					mover |= CoordToSquareIndex(x, y).Bit()
				} else {
					opponent |= CoordToSquareIndex(x, y).Bit()
				}

				x++
			default:
				return 0, 0, fmt.Errorf("board: bad character %q in notation", c)
			}
		}

		if x != 8 {
			return 0, 0, fmt.Errorf("board: row %d has %d squares", y+1, x)
		}
	}

	return mover, opponent, nil
}

// ParseMoveToken decodes a move token like "d3" into a Square. The letter
// is the column and the digit is the rank, counted from the bottom row
// since engines read the first row of a setboard position as rank 8. The
// token "@@" decodes to Pass.
func ParseMoveToken(token string) (Square, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == PassToken {
		return Pass, nil
	}

	if len(token) != 2 ||
		token[0] < 'a' || token[0] > 'h' ||
		token[1] < '1' || token[1] > '8' {
		return Pass, fmt.Errorf("%w: %q", ErrBadToken, token)
	}

	x := int(token[0] - 'a')
	y := 7 - int(token[1]-'1')
	return CoordToSquareIndex(x, y), nil
}

// MoveToken encodes a Square into a move token. It is the inverse of
// ParseMoveToken.
func MoveToken(sq Square) string {
	if sq == Pass {
		return PassToken
	}

	x, y := SquareIndexToCoord(sq)
	return fmt.Sprintf("%c%c", 'a'+x, '1'+(7-y))
}

// SquareIndexToCoord converts a Square into (x, y) coordinates with the
// origin at the top-left corner.
func SquareIndexToCoord(sq Square) (x, y int) {
	return int(sq) % 8, int(sq) / 8
}

// CoordToSquareIndex converts (x, y) coordinates with the origin at the
// top-left corner into a Square. Out of range coordinates return Pass.
func CoordToSquareIndex(x, y int) Square {
	if x < 0 || x >= 8 || y < 0 || y >= 8 {
		return Pass
	}

	return Square(y*8 + x)
}
