package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fbal23/BIO-RED-Validation-Portal/app"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/report"
	"github.com/fbal23/BIO-RED-Validation-Portal/domain/schema"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal"
	"github.com/fbal23/BIO-RED-Validation-Portal/internal/config"
)

func main() {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		output  string
		batch   bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate BIO-RED T2.1 data collection submissions",
		Long: `Validate completed BIO-RED T2.1 data collection templates (.xlsx).

The template type is identified from the file name prefix, e.g.
2_Stakeholder_Mapping_PT16.xlsx is checked against the stakeholder
mapping template. With --batch, path is a directory and every .xlsx
file in it is validated.

A failed validation is still a successful run: the verdict lives in
the report, not in the exit code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.NewFileLogger(internal.LogLevelInfo, cfg.Validator.LogFile)
			if verbose {
				logger.SetLevel(internal.LogLevelDebug)
			}
			svc := app.NewValidatorService(schema.MustLoad(), logger)

			if batch {
				return runBatch(svc, args[0], output)
			}
			return runSingle(svc, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Report destination (file for single mode, directory for batch)")
	cmd.Flags().BoolVarP(&batch, "batch", "b", false, "Validate every .xlsx file in a directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func runSingle(svc *app.ValidatorService, path, output string) error {
	rep, err := svc.ValidateFile(path, output)
	if err != nil {
		return err
	}
	printSummary(rep)
	if output != "" {
		fmt.Printf("\nReport written to %s\n", output)
	}
	return nil
}

func runBatch(svc *app.ValidatorService, dir, outDir string) error {
	if outDir == "" {
		outDir = dir
	}
	reports, err := svc.ValidateBatch(dir, outDir)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("No .xlsx files found.")
		return nil
	}

	counts := map[report.Status]int{}
	for _, rep := range reports {
		counts[rep.Status]++
		fmt.Printf("%s %s: %s (%d errors, %d warnings)\n",
			statusMark(rep.Status), rep.Metadata.FileName, rep.Status,
			rep.Summary.TotalErrors, rep.Summary.TotalWarnings)
	}
	fmt.Printf("\n%d files: %d validated, %d with warnings, %d rejected, %d unreadable\n",
		len(reports),
		counts[report.StatusValidated],
		counts[report.StatusValidatedWithWarnings],
		counts[report.StatusRejected],
		counts[report.StatusError])
	return nil
}

func printSummary(rep *report.ValidationReport) {
	fmt.Printf("%s %s\n", statusMark(rep.Status), rep.Metadata.FileName)
	fmt.Printf("Template: %s\n", rep.Metadata.TemplateType)
	fmt.Printf("Status:   %s\n", rep.Status)
	for _, e := range rep.Errors {
		fmt.Printf("  ERROR   %s\n", e)
	}
	for _, w := range rep.Warnings {
		fmt.Printf("  WARNING %s\n", w)
	}
}

func statusMark(s report.Status) string {
	switch s {
	case report.StatusValidated:
		return "✅"
	case report.StatusValidatedWithWarnings:
		return "⚠️"
	default:
		return "❌"
	}
}
