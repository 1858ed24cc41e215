package main

import (
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [program]",
	Short: "Check the transition table for consistency",
	Long: `Compiles the program, then crawls the table from the initial state and reports
goto targets that have no transitions and states that can never be reached.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		path := cfg.Program
		if len(args) > 0 {
			path = args[0]
		}
		opts := []turing.Option{turing.WithLogger(logger)}
		if cfg.Start != "" {
			opts = append(opts, turing.WithInitialState(cfg.Start))
		}
		p, err := turing.New(opts...).CompileFile(path)
		if err != nil {
			return err
		}

		if err := validator.ValidateTable(p.Table()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Table is valid (%d states, %d transitions)\n", len(p.Table().States()), p.Table().Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("start", "", "Validate from this state instead of the first one")
}
