package main

import (
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [program]",
	Short: "Describe a program's transition table",
	Long: `Prints the states and transitions of a program, or of a stored table with
--table, as Markdown. On a terminal the Markdown is rendered.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		var name string
		var table *domain.Table
		if stored, _ := cmd.Flags().GetString("table"); stored != "" {
			backend, err := cli.OpenBackend(cmd.Context(), persistentStore(cmd, cfg))
			if err != nil {
				return err
			}
			defer backend.Close()
			if table, err = backend.Store.Load(cmd.Context(), stored); err != nil {
				return fmt.Errorf("table %q: %w", stored, err)
			}
			name = stored
		} else {
			path := cfg.Program
			if len(args) > 0 {
				path = args[0]
			}
			p, err := turing.New(turing.WithLogger(logger)).CompileFile(path)
			if err != nil {
				return err
			}
			name, table = p.Name, p.Table()
		}

		doc := tui.TableMarkdown(name, table)
		out := cmd.OutOrStdout()
		if !useColor(cmd, out) {
			fmt.Fprint(out, doc)
			return nil
		}

		render, err := tui.NewRenderer()
		if err != nil {
			return err
		}
		rendered, err := render(doc)
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("table", "", "Inspect a stored table instead of a program file")
	inspectCmd.Flags().String("store", config.StoreFile, "Table store for --table: file or redis")
}
