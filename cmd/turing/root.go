package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turing [inputs...]",
	Short: "Turing compiles and runs Turing machine programs",
	Long: `Turing compiles an indentation-structured Turing machine notation into a
five-field transition table and runs it on each input tape.

Without a subcommand it behaves like 'turing run'.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs (at debug level) to this file")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

// loadConfig reads the config file and environment, then applies the flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	overrideString := func(name string, dst *string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	overrideInt := func(name string, dst *int) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}

	overrideString("log-level", &cfg.LogLevel)
	overrideString("log-file", &cfg.LogFile)
	overrideString("program", &cfg.Program)
	overrideString("output", &cfg.Output)
	overrideString("start", &cfg.Start)
	overrideString("listen", &cfg.Listen)
	overrideString("store", &cfg.Store.Kind)
	overrideInt("max-steps", &cfg.MaxSteps)
	overrideInt("parallel", &cfg.Parallel)
	if flags.Lookup("timeout") != nil && flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Lookup("sorted") != nil && flags.Changed("sorted") {
		cfg.SortedTape, _ = flags.GetBool("sorted")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setup loads the config and builds the logger. Callers must close the closer.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	logger, closer, err := cli.CreateLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, closer, nil
}

// useColor reports whether colored output should go to w.
func useColor(cmd *cobra.Command, w io.Writer) bool {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return !noColor && os.Getenv("NO_COLOR") == "" && cli.IsTerminal(w)
}
