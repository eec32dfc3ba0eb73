package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"agora/adapters/ingest"
	"agora/app"
	"agora/domain/opinion"
	"agora/domain/votes"
	"agora/internal/config"
	apperrors "agora/internal/errors"
	"agora/ui"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "agora",
		Short: "Agora CLI for opinion clustering and consensus analysis",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newSweepCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var k int
	var htmlOut string

	cmd := &cobra.Command{
		Use:   "analyze [votes-file]",
		Short: "Run the full analysis pipeline on a vote matrix",
		Long: `Run PCA projection, group discovery, representative-statement
selection and consensus scoring over a vote matrix.

The file may be .csv or .xlsx; the header row carries statement IDs and
each following row is one participant (1 agree, -1 disagree, 0 pass,
blank not seen).

Example: agora analyze votes.csv --k 3 --html report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], k, htmlOut)
		},
	}

	cmd.Flags().IntVar(&k, "k", 0, "Number of groups (0 = use silhouette recommendation)")
	cmd.Flags().StringVar(&htmlOut, "html", "", "Also write an HTML report to this path")

	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [votes-file]",
		Short: "Compare silhouette scores of matrix-space vs PCA-space clustering",
		Long: `Sweep candidate cluster counts over both the raw vote rows and the
2-D PCA projection, reporting silhouette scores and the optimal k for each.

Example: agora sweep votes.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(args[0])
		},
	}

	return cmd
}

func runAnalyze(path string, k int, htmlOut string) error {
	matrix, params, err := loadInput(path)
	if err != nil {
		return err
	}
	params.K = k

	result := app.NewAnalysisService(params).Analyze(matrix)

	if htmlOut != "" {
		html := ui.RenderHTML(ui.BuildMarkdownReport(result))
		if err := os.WriteFile(htmlOut, html, 0o644); err != nil {
			return apperrors.Wrapf(err, "writing HTML report to %s", htmlOut)
		}
		fmt.Fprintf(os.Stderr, "report written to %s\n", htmlOut)
	}

	return printJSON(result)
}

func runSweep(path string) error {
	matrix, params, err := loadInput(path)
	if err != nil {
		return err
	}

	sweep := app.NewAnalysisService(params).SilhouetteSweep(matrix)
	return printJSON(sweep)
}

func loadInput(path string) (*votes.Matrix, opinion.AnalysisParams, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, opinion.AnalysisParams{}, err
	}

	m, err := ingest.NewVoteReader(path).Read()
	if err != nil {
		return nil, opinion.AnalysisParams{}, err
	}
	return m, cfg.Params(), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
