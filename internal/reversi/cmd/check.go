package cmd

import (
	"fmt"
	"sort"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/reversi/pkg/engine"
	"laptudirm.com/x/reversi/pkg/oracle"
)

func Check() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the configured engine and models",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`check starts the configured engine, performs the protocol
			handshake, and reports the features announced by the engine.
			It also reports which models can be loaded.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			repo := oracle.NewRepository(config.ModelDirectory(), nil)
			fmt.Fprintf(out, "\x1b[34mModels\x1b[0m: %s\n", config.ModelDirectory())
			if repo.TryLoadBest() {
				fmt.Fprintf(out, "- best:   %s\n", repo.Model().Name)
			} else {
				fmt.Fprintln(out, "- best:   \x1b[31mnot found\x1b[0m")
			}

			generations := repo.NextGenerations()
			if repo.TryReloadNewest() {
				fmt.Fprintf(out, "- newest: %s (%d generations)\n", generations[len(generations)-1], len(generations))
			} else {
				fmt.Fprintln(out, "- newest: \x1b[33mnone\x1b[0m")
			}

			client := engine.New(config.Engine, nil)
			defer client.Shutdown()

			err = spin("Starting engine...", func() error {
				return client.Initialize(cmd.Context())
			})

			fmt.Fprintf(out, "\x1b[34mEngine\x1b[0m: %s (%s)\n", config.Engine.Path, client.State())
			if err != nil {
				return err
			}

			features := client.Features()
			names := make([]string, 0, len(features))
			for name := range features {
				names = append(names, name)
			}

			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "- %-12s %s\n", name+":", features[name])
			}

			return nil
		},
	}
}
