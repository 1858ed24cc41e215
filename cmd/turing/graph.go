package main

import (
	"context"
	"fmt"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [program]",
	Short: "Export the state diagram",
	Long: `Outputs a Mermaid flowchart (graph LR) of the program's states and transitions.
With --trace the states visited while running the given input are highlighted.`,
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

		var visited []string
		var current string
		seen := map[string]bool{}
		visit := func(state string) {
			if !seen[state] {
				seen[state] = true
				visited = append(visited, state)
			}
		}
		hooks := domain.LifecycleHooks{
			OnStep: func(ctx context.Context, e *domain.StepEvent) {
				visit(e.Transition.CurrentState)
				visit(e.Transition.NewState)
				current = e.Transition.NewState
			},
		}

		// A trace of a machine that never halts must still end.
		limit := cfg.MaxSteps
		if limit == 0 {
			limit, _ = cmd.Flags().GetInt("max-steps")
		}
		opts := []turing.Option{
			turing.WithLogger(logger),
			turing.WithLifecycleHooks(hooks),
			turing.WithStepLimit(limit),
		}
		if cfg.Start != "" {
			opts = append(opts, turing.WithInitialState(cfg.Start))
		}
		p, err := turing.New(opts...).CompileFile(path)
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("trace") {
			input, _ := cmd.Flags().GetString("trace")
			current = p.Table().InitialState()
			visit(current)
			if _, err := p.Run(cmd.Context(), domain.NormalizeInput(input)); err != nil {
				return err
			}
			overlay = &graph.GraphOverlay{VisitedStates: visited, FinalState: current}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(p.Table(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("trace", "", "Run this input and highlight the visited states")
	graphCmd.Flags().String("start", "", "Override the initial state")
	graphCmd.Flags().Int("max-steps", 1_000_000, "Step limit for --trace")
}
