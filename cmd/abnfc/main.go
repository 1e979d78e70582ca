// Command abnfc is a console utility for compiling ABNF grammar files and
// applying a rule from them to an input file, printing the resulting
// capture tree as JSON.
//
// Usage:
//
//	abnfc load <grammar-file>
//	abnfc apply <grammar-file> <rule> <input-file>
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	abnf "github.com/ldr/ex-abnf"
)

var log = logrus.New()

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "abnfc",
		Short:         "Compile and apply ABNF grammars",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newLoadCommand(), newApplyCommand())
	return root
}

func newLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <grammar-file>",
		Short: "Compile a grammar file and list its rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammarFile(args[0])
			if err != nil {
				return err
			}
			for _, name := range g.RuleNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			log.WithField("rules", len(g.RuleNames())).Debug("grammar loaded")
			return nil
		},
	}
}

func newApplyCommand() *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "apply <grammar-file> <rule> <input-file>",
		Short: "Match a rule against an input file and print the capture tree",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammarFile, rule, inputFile := args[0], args[1], args[2]

			g, err := loadGrammarFile(grammarFile)
			if err != nil {
				return err
			}

			input, err := os.ReadFile(inputFile)
			if err != nil {
				return err
			}

			var res any
			var applyErr error
			if maxDepth > 0 {
				res, applyErr = g.ApplyWithDepth(rule, input, nil, nil, maxDepth)
			} else {
				res, applyErr = g.Apply(rule, input, nil, nil)
			}
			if applyErr != nil {
				log.WithFields(logrus.Fields{"rule": rule, "input_file": inputFile}).Debug("apply failed")
				return applyErr
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "override the matcher's recursion-depth cap (0 = default)")
	return cmd
}

func loadGrammarFile(path string) (*abnf.Grammar, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return abnf.Load(path, text)
}
