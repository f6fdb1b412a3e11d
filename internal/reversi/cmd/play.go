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

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/reversi/pkg/board"
	"laptudirm.com/x/reversi/pkg/game"
	"laptudirm.com/x/reversi/pkg/oracle"
)

func Play() *cobra.Command {
	play := &cobra.Command{
		Use:   "play",
		Short: "Play a game of reversi against the oracle",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`play starts an interactive game of reversi against the
			oracle, with the human playing black unless --white is given.

			Moves are entered as squares, like d6, with a1 being the
			bottom-left square. Enter "engine" to let the configured engine
			play the move for you, or "quit" to leave the game. With
			--engine-assist the engine plays all of your moves.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			white, _ := cmd.Flags().GetBool("white")
			assist, _ := cmd.Flags().GetBool("engine-assist")

			repo := oracle.NewRepository(config.ModelDirectory(), nil)
			orchestrator := game.New(game.Config{
				Models:         repo,
				UseNewestModel: config.Models.UseNewest,
				NewOracle:      oracleFactory(repo),
				NewEngine:      engineFactory(config),
			})
			defer orchestrator.Close()

			if assist && config.Engine.Path == "" {
				return errors.New("engine assist needs an engine path in the config")
			}

			session := &terminal{
				orchestrator: orchestrator,
				in:           bufio.NewScanner(cmd.InOrStdin()),
				out:          cmd.OutOrStdout(),
				assist:       assist,
			}

			orchestrator.AddObserver(session.observe)

			if err := spin("Starting game...", func() error {
				return orchestrator.StartGame(cmd.Context(), !white)
			}); err != nil {
				return err
			}

			return session.run(cmd)
		},
	}

	play.Flags().Bool("white", false, "Play with the white stones")
	play.Flags().Bool("engine-assist", false, "Let the engine play the human's moves")

	return play
}

// terminal is a game of reversi played on the command line.
type terminal struct {
	orchestrator *game.Orchestrator

	in  *bufio.Scanner
	out io.Writer

	assist bool

	// set by the observer during a turn
	aiToMove, over bool
}

func (term *terminal) observe(event game.Event) {
	switch event {
	case game.Updated:
		term.render()
	case game.AIToMove:
		term.aiToMove = true
	case game.Over:
		term.over = true
	case game.Pass:
		fmt.Fprintf(term.out, "\x1b[33m%s has to pass\x1b[0m\n", term.orchestrator.NextPlayer().Other())
	}
}

func (term *terminal) run(cmd *cobra.Command) error {
	orchestrator := term.orchestrator

	for {
		term.aiToMove = false
		if err := orchestrator.PlayNextTurn(); err != nil {
			return err
		}

		switch {
		case term.over:
			term.result()
			return nil

		case term.aiToMove:
			if err := spin("Oracle thinking...", orchestrator.ApplyAIMove); err != nil {
				return err
			}

			value, _ := orchestrator.LastEvaluation()
			fmt.Fprintf(term.out, "Oracle played \x1b[34m%s\x1b[0m (evaluation %+.3f)\n", orchestrator.LastMove(), value)

		case term.assist:
			if err := term.engineMove(cmd); err != nil {
				return err
			}

		default:
			quit, err := term.humanMove(cmd)
			if quit || err != nil {
				return err
			}
		}
	}
}

// humanMove reads moves from the terminal until a move is played.
func (term *terminal) humanMove(cmd *cobra.Command) (quit bool, err error) {
	for {
		fmt.Fprint(term.out, "Your move: ")
		if !term.in.Scan() {
			return true, term.in.Err()
		}

		input := strings.TrimSpace(strings.ToLower(term.in.Text()))
		switch input {
		case "":
			continue
		case "quit", "exit":
			return true, nil
		case "engine":
			if err := term.engineMove(cmd); err != nil {
				fmt.Fprintf(term.out, "\x1b[31m%v\x1b[0m\n", err)
				continue
			}

			return false, nil
		}

		sq, err := board.ParseMoveToken(input)
		if err != nil || sq == board.Pass {
			fmt.Fprintf(term.out, "\x1b[31mInvalid move %q\x1b[0m\n", input)
			continue
		}

		x, y := board.SquareIndexToCoord(sq)
		if !term.orchestrator.IsLegal(x, y) {
			fmt.Fprintf(term.out, "\x1b[31mIllegal move %s\x1b[0m\n", sq)
			continue
		}

		return false, term.orchestrator.ApplyHumanMove(cmd.Context(), x, y, false)
	}
}

// engineMove plays the engine's move in the human's seat.
func (term *terminal) engineMove(cmd *cobra.Command) error {
	err := spin("Engine thinking...", func() error {
		return term.orchestrator.ApplyHumanMove(cmd.Context(), 0, 0, true)
	})
	if err != nil {
		logrus.Debug(err)
		return err
	}

	fmt.Fprintf(term.out, "Engine played \x1b[34m%s\x1b[0m for you\n", term.orchestrator.LastMove())
	return nil
}

func (term *terminal) render() {
	orchestrator := term.orchestrator

	fmt.Fprintln(term.out)
	fmt.Fprintln(term.out, "    a b c d e f g h")
	for y := 0; y < 8; y++ {
		fmt.Fprintf(term.out, " %d ", 8-y)
		for x := 0; x < 8; x++ {
			cell := "."
			if color, ok := orchestrator.Stone(x, y); ok {
				cell = "X"
				if color == board.White {
					cell = "O"
				}
			} else if orchestrator.NextPlayer() == orchestrator.HumanColor() && orchestrator.IsLegal(x, y) {
				cell = "\x1b[32m*\x1b[0m"
			}

			if board.CoordToSquareIndex(x, y) == orchestrator.LastMove() {
				cell = "\x1b[33m" + cell + "\x1b[0m"
			}

			fmt.Fprintf(term.out, " %s", cell)
		}

		fmt.Fprintln(term.out)
	}

	black, white := orchestrator.Count()
	fmt.Fprintf(term.out, "\nX (black) %d - %d O (white), %s to move\n", black, white, orchestrator.NextPlayer())
}

func (term *terminal) result() {
	black, white := term.orchestrator.Count()
	human := term.orchestrator.HumanColor()

	humanStones, oracleStones := black, white
	if human == board.White {
		humanStones, oracleStones = white, black
	}

	switch {
	case humanStones > oracleStones:
		fmt.Fprintf(term.out, "\x1b[32mYou win %d-%d\x1b[0m\n", humanStones, oracleStones)
	case humanStones < oracleStones:
		fmt.Fprintf(term.out, "\x1b[31mThe oracle wins %d-%d\x1b[0m\n", oracleStones, humanStones)
	default:
		fmt.Fprintf(term.out, "Draw %d-%d\n", humanStones, oracleStones)
	}
}
