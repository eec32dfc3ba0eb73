package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"agora/domain/opinion"
)

// BuildMarkdownReport renders a human-readable summary of one analysis
// run as markdown. The report covers group structure, the silhouette
// sweep, per-group representative statements and consensus statements.
func BuildMarkdownReport(result *opinion.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Opinion Analysis Report\n\n")
	fmt.Fprintf(&b, "Run `%s`, computed %s.\n\n", result.RunID, result.ComputedAt.Time().Format(time.RFC3339))
	fmt.Fprintf(&b, "%d participants voted on %d statements.\n\n", result.Participants, result.Statements)

	writeGroupSection(&b, result)
	writeSilhouetteSection(&b, result)
	writeRepresentativeSection(&b, result)
	writeConsensusSection(&b, result)

	return b.String()
}

// RenderHTML converts a markdown report to HTML.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func writeGroupSection(b *strings.Builder, result *opinion.AnalysisResult) {
	fmt.Fprintf(b, "## Opinion Groups\n\n")
	fmt.Fprintf(b, "%d groups (recommended k: %d).\n\n", len(result.Groups), result.RecommendedK)
	fmt.Fprintf(b, "| Group | Members | Centroid |\n|---|---|---|\n")
	for _, g := range result.Groups {
		fmt.Fprintf(b, "| %d | %d | (%.3f, %.3f) |\n", g.ID, g.Size(), g.Centroid.X, g.Centroid.Y)
	}
	b.WriteString("\n")
}

func writeSilhouetteSection(b *strings.Builder, result *opinion.AnalysisResult) {
	if len(result.Silhouettes) == 0 {
		return
	}
	fmt.Fprintf(b, "## Silhouette Sweep\n\n")
	fmt.Fprintf(b, "| k | Score |\n|---|---|\n")
	for _, s := range result.Silhouettes {
		fmt.Fprintf(b, "| %d | %.4f |\n", s.K, s.Score)
	}
	b.WriteString("\n")
}

func writeRepresentativeSection(b *strings.Builder, result *opinion.AnalysisResult) {
	if len(result.Representatives) == 0 {
		return
	}
	fmt.Fprintf(b, "## Representative Statements\n\n")
	for _, groupID := range sortedGroupIDs(result.Representatives) {
		fmt.Fprintf(b, "### Group %d\n\n", groupID)
		reps := result.Representatives[groupID]
		if len(reps) == 0 {
			b.WriteString("No representative statements.\n\n")
			continue
		}
		fmt.Fprintf(b, "| Statement | Polarity | Prob | Repness | Best |\n|---|---|---|---|---|\n")
		for _, rep := range reps {
			best := ""
			if rep.IsBestAgree {
				best = "yes"
			}
			fmt.Fprintf(b, "| %s | %s | %.3f | %.3f | %s |\n",
				rep.StatementID, rep.Polarity, rep.SuccessProb, rep.Repness, best)
		}
		b.WriteString("\n")
	}
}

func writeConsensusSection(b *strings.Builder, result *opinion.AnalysisResult) {
	fmt.Fprintf(b, "## Consensus\n\n")
	if len(result.Consensus) == 0 {
		b.WriteString("No statements reached consensus.\n\n")
		return
	}
	fmt.Fprintf(b, "| Statement | Polarity | Agree %% | Disagree %% | Votes |\n|---|---|---|---|---|\n")
	for _, c := range result.Consensus {
		fmt.Fprintf(b, "| %s | %s | %.1f | %.1f | %d |\n",
			c.StatementID, c.Polarity, c.PctAgree*100, c.PctDisagree*100, c.Votes)
	}
	b.WriteString("\n")
}

func sortedGroupIDs(m map[int][]opinion.RepresentativeStatement) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
