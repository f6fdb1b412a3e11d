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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/reversi/pkg/common"
	"laptudirm.com/x/reversi/pkg/engine"
	"laptudirm.com/x/reversi/pkg/game"
	"laptudirm.com/x/reversi/pkg/oracle"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:  "reversi",
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// If --trace flag is provided, set logging level to Trace.
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}

			// The data directory is only needed for the default config.
			if !cmd.Flag("config").Changed {
				common.Setup()
			}
		},
	}

	// global flags
	root.PersistentFlags().BoolP("help", "h", false, "Show Help Information")
	root.PersistentFlags().BoolP("version", "v", false, "Show Reversi's Version")
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")
	root.PersistentFlags().StringP("config", "c", common.ConfigFile, "Configuration file to use")

	versionStr := "v0.1.0\n"
	root.SetVersionTemplate(versionStr)
	root.Version = versionStr

	// Register the various commands.
	root.AddCommand(Play())
	root.AddCommand(Arena())
	root.AddCommand(Check())

	return root
}

// loadConfig loads the configuration file selected by the --config flag.
func loadConfig(cmd *cobra.Command) (*common.Config, error) {
	return common.LoadConfig(cmd.Flag("config").Value.String())
}

// engineFactory returns a constructor for clients of the configured engine,
// or nil if no engine is configured.
func engineFactory(config *common.Config) func() game.Engine {
	if config.Engine.Path == "" {
		return nil
	}

	logger := logrus.NewEntry(logrus.StandardLogger())
	return func() game.Engine {
		return engine.New(config.Engine, logger)
	}
}

// oracleFactory returns a constructor for players of the repository's
// current model.
func oracleFactory(repo *oracle.Repository) func() game.Oracle {
	return func() game.Oracle {
		return oracle.NewPlayer(repo.Model())
	}
}
