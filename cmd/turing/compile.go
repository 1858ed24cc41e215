package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/morphett"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile [program]",
	Short: "Compile a program to its canonical five-field table",
	Long: `Compiles the program and prints one 'state cell newCell direction newState'
line per transition. Nothing is run.`,
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
		var opts []turing.Option
		if cfg.Start != "" {
			opts = append(opts, turing.WithInitialState(cfg.Start))
		}
		p, err := turing.New(append(opts, turing.WithLogger(logger))...).CompileFile(path)
		if err != nil {
			return err
		}

		header, _ := cmd.Flags().GetBool("header")
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			return writeTable(nopWriteCloser{cmd.OutOrStdout()}, p, header)
		}

		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := writeTable(f, p, header); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		return nil
	},
}

// writeTable writes the canonical table to wc and closes it. A failed close is
// reported, since a buffered file may only fail on write-back.
func writeTable(wc io.WriteCloser, p *turing.Program, header bool) error {
	w := bufio.NewWriter(wc)
	err := func() error {
		if header {
			if err := morphett.WriteHeader(w, p.Table()); err != nil {
				return err
			}
		}
		if err := p.WriteCanonical(w); err != nil {
			return err
		}
		return w.Flush()
	}()
	if err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	compileCmd.Flags().String("start", "", "Override the initial state")
	compileCmd.Flags().Bool("header", false, "Prefix an '; initial: <state>' comment line")
}
