package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/aretw0/turing/pkg/morphett"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage stored transition tables",
	Long: `List, show, save and remove compiled tables in the configured store
(file store: .turing/tables by default; redis: store.redis_addr).`,
}

var tablesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		names, err := backend.Store.List(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "No stored tables found.")
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(out, "- "+n)
		}
		return nil
	},
}

var tablesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored table in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		table, err := backend.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("table %q: %w", args[0], err)
		}
		if err := morphett.WriteHeader(cmd.OutOrStdout(), table); err != nil {
			return err
		}
		return morphett.Encode(cmd.OutOrStdout(), table)
	},
}

var tablesPutCmd = &cobra.Command{
	Use:   "put <name> [program]",
	Short: "Compile a program and store its table",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, closer, err := setup(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		path := cfg.Program
		if len(args) > 1 {
			path = args[1]
		}
		p, err := turing.New(turing.WithLogger(logger)).CompileFile(path)
		if err != nil {
			return err
		}

		backend, err := cli.OpenBackend(cmd.Context(), persistentStore(cmd, cfg))
		if err != nil {
			return err
		}
		defer backend.Close()

		if err := backend.Store.Save(cmd.Context(), args[0], p.Table()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored table '%s' (%d transitions)\n", args[0], p.Table().Len())
		return nil
	},
}

var tablesRmCmd = &cobra.Command{
	Use:   "rm <name>...",
	Short: "Remove one or more stored tables",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		var errs []error
		for _, name := range args {
			if err := backend.Store.Delete(cmd.Context(), name); err != nil {
				fmt.Fprintf(os.Stderr, "Error removing '%s': %v\n", name, err)
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed table '%s'\n", name)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	tablesCmd.AddCommand(tablesLsCmd, tablesShowCmd, tablesPutCmd, tablesRmCmd)
	// The memory store would forget everything on exit, so these default to files.
	tablesCmd.PersistentFlags().String("store", config.StoreFile, "Table store: file or redis")
}

func openBackend(cmd *cobra.Command) (*cli.Backend, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return cli.OpenBackend(cmd.Context(), persistentStore(cmd, cfg))
}

// persistentStore swaps the default memory store for the file store unless the
// user chose a store explicitly.
func persistentStore(cmd *cobra.Command, cfg config.Config) config.StoreConfig {
	if !cmd.Flags().Changed("store") && cfg.Store.Kind == config.StoreMemory {
		cfg.Store.Kind = config.StoreFile
	}
	return cfg.Store
}
