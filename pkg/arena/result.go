package arena

import (
	"fmt"

	"laptudirm.com/x/reversi/pkg/board"
)

// Result represents the result of a single game, from the oracle's point
// of view.
type Result int

const (
	Win  Result = +1
	Draw Result = 0
	Loss Result = -1
)

// String returns a string representation of the given Result.
func (result Result) String() string {
	switch result {
	case Win:
		return "1-0"
	case Draw:
		return "1/2-1/2"
	case Loss:
		return "0-1"
	default:
		return "?-?"
	}
}

// resultOf maps the final position of a game to the oracle's Result.
func resultOf(pos *board.Position, oracle board.Color) Result {
	winner, draw := pos.Winner()
	switch {
	case draw:
		return Draw
	case winner == oracle:
		return Win
	default:
		return Loss
	}
}

// GameResult is the outcome of a single arena game.
type GameResult struct {
	Number int
	// Oracle is the color played by the oracle.
	Oracle board.Color
	// Opening is the move sequence the game started from.
	Opening string

	Result Result
	Reason string

	Black, White int
}

func (result GameResult) String() string {
	switch result.Result {
	case Win:
		return fmt.Sprintf("oracle wins by %s", result.Reason)
	case Loss:
		return fmt.Sprintf("engine wins by %s", result.Reason)
	case Draw:
		return fmt.Sprintf("draw by %s", result.Reason)
	}

	return "illegal result"
}
