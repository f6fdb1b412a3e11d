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
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/reversi/pkg/arena"
	"laptudirm.com/x/reversi/pkg/game"
	"laptudirm.com/x/reversi/pkg/oracle"
)

func Arena() *cobra.Command {
	command := &cobra.Command{
		Use:   "arena",
		Short: "Play a match between the oracle and the engine",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`arena plays a match between the oracle and the configured
			engine and reports the oracle's score and elo difference.

			Every game is played by a fresh engine process, and the
			oracle plays black and white in alternate games. With an
			opening book, both games of a pair start from the same
			opening. An engine which fails to move in time forfeits
			the game.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			newEngine := engineFactory(config)
			if newEngine == nil {
				return errors.New("arena needs an engine path in the config")
			}

			games, _ := cmd.Flags().GetInt("games")
			if games <= 0 {
				games = config.Arena.Games
			}

			concurrency, _ := cmd.Flags().GetInt("concurrency")
			if concurrency <= 0 {
				concurrency = config.Arena.Concurrency
			}

			var book *arena.Book
			if openings, _ := cmd.Flags().GetString("openings"); openings != "" {
				config.Arena.Openings = openings
			}

			if config.Arena.Openings != "" {
				if book, err = arena.NewBook(config.Arena.Openings, config.Arena.Order); err != nil {
					return err
				}
			}

			repo := oracle.NewRepository(config.ModelDirectory(), nil)
			var loaded bool
			if config.Models.UseNewest {
				loaded = repo.TryReloadNewest() || repo.TryLoadBest()
			} else {
				loaded = repo.TryLoadBest() || repo.TryReloadNewest()
			}

			if !loaded {
				return game.ErrModelUnavailable
			}

			logrus.Infof("Playing %d games, %d at a time", games, concurrency)

			summary, err := arena.Run(cmd.Context(), arena.Config{
				Games:       games,
				Concurrency: concurrency,

				NewOracle: oracleFactory(repo),
				NewEngine: newEngine,

				Book: book,

				OnResult: func(result arena.GameResult) {
					fmt.Fprintf(cmd.OutOrStdout(), "Game #%d (oracle %s): %s %s\n",
						result.Number, result.Oracle, result.Result, result)
				},
			})

			summary.Report(cmd.OutOrStdout())
			return err
		},
	}

	command.Flags().Int("games", 0, "Number of games to play (default from config)")
	command.Flags().Int("concurrency", 0, "Number of games to play at once (default from config)")
	command.Flags().String("openings", "", "Opening book to play the games from")

	return command
}
