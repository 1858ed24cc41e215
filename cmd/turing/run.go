package main

import (
	"context"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [inputs...]",
	Short: "Compile the program and run it on each input",
	Long: `Compiles the program (program.btm by default), writes its canonical table
(morphett.txt by default) and prints '<input> -> <tape>: <final state>' for each
input. Use 'epsilon' for the empty tape.`,
	Example: `  turing run 101 110 epsilon
  turing run -p adder.btm --max-steps 100000 1+11
  turing run --watch 101`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)

	// 'run' is the default command.
	addRunFlags(rootCmd)
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = runRun
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("program", "p", "", "Program file (default program.btm)")
	cmd.Flags().StringP("output", "o", "", "Canonical table file, '-' to skip (default morphett.txt)")
	cmd.Flags().String("start", "", "Override the initial state")
	cmd.Flags().Int("max-steps", 0, "Halt after this many steps (0 = unbounded)")
	cmd.Flags().Duration("timeout", 0, "Give up on the inputs after this long (0 = never)")
	cmd.Flags().Int("parallel", 0, "Inputs run at once (0 = one per CPU)")
	cmd.Flags().Bool("sorted", false, "Print the tape left to right instead of in write order")
	cmd.Flags().BoolP("watch", "w", false, "Rerun whenever the program file changes")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, closer, err := setup(cmd)
	if err != nil {
		return err
	}
	defer closer.Close()

	watch, _ := cmd.Flags().GetBool("watch")
	out := cmd.OutOrStdout()

	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Inputs
	}
	output := cfg.Output
	if output == "-" {
		output = ""
	}

	color := useColor(cmd, out)
	if watch && color {
		tui.PrintBanner(out, strings.TrimSpace(turing.Version))
	}

	sigCtx := cli.NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	return cli.Execute(sigCtx, cli.RunOptions{
		Program:    cfg.Program,
		Inputs:     inputs,
		Output:     output,
		Start:      cfg.Start,
		MaxSteps:   cfg.MaxSteps,
		Timeout:    cfg.Timeout,
		Parallel:   cfg.Parallel,
		SortedTape: cfg.SortedTape,
		Watch:      watch,
		Color:      color,
		Stdout:     out,
		Logger:     logger,
	})
}
