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

// Package arena plays matches between the oracle and an engine.
package arena

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"laptudirm.com/x/reversi/pkg/arena/stats"
	"laptudirm.com/x/reversi/pkg/board"
	"laptudirm.com/x/reversi/pkg/game"
)

var ErrOracleMove = errors.New("arena: oracle played an illegal move")

// Config configures an arena match.
type Config struct {
	// Number of games that will be played.
	Games int `yaml:"games"`
	// Number of games that will be played concurrently.
	Concurrency int `yaml:"concurrency"`

	// NewOracle and NewEngine create the players of a single game. Every
	// game has its own oracle and engine.
	NewOracle func() game.Oracle `yaml:"-"`
	NewEngine func() game.Engine `yaml:"-"`

	// Book provides the opening of every pair of games. Both games of a
	// pair start from the same opening, with the colors swapped. Games
	// start from the starting position if it is nil.
	Book *Book `yaml:"-"`

	Logger *logrus.Entry `yaml:"-"`

	// OnResult is called with the result of every finished game. Calls are
	// not concurrent.
	OnResult func(GameResult) `yaml:"-"`
}

// Summary is the result of an arena match.
type Summary struct {
	Wins, Draws, Losses int

	Games []GameResult
}

// Elo returns the oracle's elo difference to the engine, with its lower and
// upper bounds.
func (summary *Summary) Elo() (lower, elo, upper float64) {
	return stats.Elo(summary.Wins, summary.Draws, summary.Losses)
}

func (summary *Summary) add(result GameResult) {
	switch result.Result {
	case Win:
		summary.Wins++
	case Draw:
		summary.Draws++
	case Loss:
		summary.Losses++
	}

	summary.Games = append(summary.Games, result)
}

// Report writes a table of the match's score to w.
func (summary *Summary) Report(w io.Writer) {
	lower, elo, upper := summary.Elo()

	fmt.Fprintln(w, "╔══════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║    Elo Error   Wins Loss Draw   Total  Score ║")
	fmt.Fprintln(w, "╠══════════════════════════════════════════════╣")
	fmt.Fprintf(w,
		"║   %+4.0f %4.0f   %4d %4d %4d   %5d  %4.1f%% ║\n",
		elo, math.Abs(math.Max(upper-elo, elo-lower)),
		summary.Wins, summary.Losses, summary.Draws,
		summary.Wins+summary.Losses+summary.Draws,
		100*stats.Score(summary.Wins, summary.Draws, summary.Losses),
	)
	fmt.Fprintln(w, "╚══════════════════════════════════════════════╝")
}

// Run plays config.Games games between the oracle and the engine, with the
// oracle playing black in the even numbered games. An error from any game
// other than an engine forfeit stops the match.
func Run(ctx context.Context, config Config) (*Summary, error) {
	logger := config.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	concurrency := config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make(chan GameResult)
	summary := &Summary{}

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			summary.add(result)
			if config.OnResult != nil {
				config.OnResult(result)
			}
		}
	}()

	openings := make([]string, (config.Games+1)/2)
	if config.Book != nil {
		for pair := range openings {
			openings[pair] = config.Book.Current()
			config.Book.Next()
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for number := 0; number < config.Games; number++ {
		number := number
		group.Go(func() error {
			color := board.Black
			if number%2 == 1 {
				color = board.White
			}

			log := logger.WithField("game", number+1)
			log.Infof("\x1b[33mStarting\x1b[0m Game #%d: oracle plays %s", number+1, color)

			engine := config.NewEngine()
			defer func() {
				if err := engine.Shutdown(); err != nil {
					log.WithError(err).Debug("shutting down engine")
				}
			}()

			result, err := Play(ctx, config.NewOracle(), engine, color, openings[number/2])
			if err != nil {
				return fmt.Errorf("game %d: %w", number+1, err)
			}

			result.Number = number + 1
			log.Infof("\x1b[32mFinished\x1b[0m Game #%d: %s (%s)", number+1, result, result.Result)

			select {
			case results <- result:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	err := group.Wait()
	close(results)
	<-collected

	return summary, err
}

// Play plays a single game between the oracle and the engine from the given
// opening, with the oracle playing the given color. The engine is
// initialized by Play. An engine which fails a move request or plays an
// illegal move forfeits the game.
func Play(ctx context.Context, oracle game.Oracle, engine game.Engine, color board.Color, opening string) (GameResult, error) {
	result := GameResult{Oracle: color, Opening: opening}

	pos, err := OpeningPosition(opening)
	if err != nil {
		return result, err
	}

	if err := engine.Initialize(ctx); err != nil {
		return result, fmt.Errorf("initializing engine: %w", err)
	}
	for !pos.Done() {
		mover, opponent := pos.Orient()

		if pos.Next == color {
			sq := oracle.Action(mover, opponent)
			if _, err := pos.Step(sq); err != nil {
				return result, fmt.Errorf("%w: %w", ErrOracleMove, err)
			}

			continue
		}

		sq, err := engine.RequestMove(ctx, mover, opponent)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}

			result.Result, result.Reason = Win, fmt.Sprintf("engine forfeit: %v", err)
			result.Black, result.White = pos.Count()
			return result, nil
		}

		if _, err := pos.Step(sq); err != nil {
			result.Result, result.Reason = Win, fmt.Sprintf("engine forfeit: %v", err)
			result.Black, result.White = pos.Count()
			return result, nil
		}
	}

	result.Result = resultOf(&pos, color)
	result.Black, result.White = pos.Count()
	result.Reason = fmt.Sprintf("%d-%d on the board", result.Black, result.White)
	return result, nil
}
