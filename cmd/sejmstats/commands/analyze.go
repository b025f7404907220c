package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yx-aesthete/sejm-info/internal/render"
	"github.com/yx-aesthete/sejm-info/internal/usecase"
)

var outputFormat string

// analyze <name|all>: run analyzers once and print their reports.
func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <name|all>",
		Short: "Run an analyzer and print its report",
		Long: "Run an analyzer and print its report.\n\n" +
			"Analyzers: law-references, process-dynamics, voting-patterns, success-factors, print-references.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := appCtx.Runner()

			var outcomes []usecase.Outcome
			if args[0] == "all" {
				all, err := runner.AnalyzeAll(cmd.Context())
				if err != nil {
					return err
				}
				outcomes = all
			} else {
				out, err := runner.Analyze(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				outcomes = []usecase.Outcome{out}
			}

			return writeOutcomes(cmd.OutOrStdout(), outcomes, outputFormat)
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format: json or text")
	return cmd
}

func writeOutcomes(w io.Writer, outcomes []usecase.Outcome, format string) error {
	switch format {
	case "text":
		sections := make([]render.Section, 0, len(outcomes))
		for _, out := range outcomes {
			sections = append(sections, render.Section{Name: out.Name, Report: out.Report})
		}
		return render.Highlights(w, sections)
	case "json":
		var payload any
		if len(outcomes) == 1 {
			payload = outcomes[0].Report
		} else {
			reports := make(map[string]any, len(outcomes))
			for _, out := range outcomes {
				reports[out.Name] = out.Report
			}
			payload = reports
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	default:
		return fmt.Errorf("unknown format %q (want json or text)", format)
	}
}
