package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lhdiff/lhdiff/internal/domain"
)

// RenderMatrix formats a matrix run: one row per page with a column per
// category, then statistics over every metric difference and the verdict.
func RenderMatrix(run *domain.ComparisonRun) string {
	var b strings.Builder
	t := run.Thresholds

	renderErrors(&b, run.Errors)

	banner := faintStyle.Render(strings.Repeat("=", matrixWidth))

	b.WriteString("\n" + banner + "\n")
	b.WriteString(headerStyle.Render("LIGHTHOUSE COMPARISON - BEFORE/AFTER (Mobile)") + "\n")
	b.WriteString(banner + "\n\n")

	b.WriteString(titleStyle.Render(matrixHeader()) + "\n")
	b.WriteString(faintStyle.Render(strings.Repeat("-", matrixWidth)) + "\n")

	for _, p := range run.Pages {
		cells := make([]string, 0, len(domain.Categories)+2)
		cells = append(cells, fmt.Sprintf("%-20s", p.Page))
		for _, c := range domain.Categories {
			cells = append(cells, styleFor(p.Diff[c], t).Render(fmt.Sprintf("%+8.0f%%", p.Diff[c])))
		}
		cells = append(cells, styleFor(p.AvgDiff, t).Render(fmt.Sprintf("%+8.1f%%", p.AvgDiff)))
		b.WriteString(strings.Join(cells, " | ") + "\n")
	}

	b.WriteString("\n" + banner + "\n")
	if len(run.Skipped) > 0 {
		b.WriteString("\n")
		renderSkipped(&b, run.Skipped)
	}

	s := run.MetricSummary
	band := formatThreshold(t.Stable)
	b.WriteString("\n" + titleStyle.Render("[GLOBAL STATISTICS]") + "\n")
	fmt.Fprintf(&b, "   Overall average: %+.1f%%\n", s.AvgDiff)
	fmt.Fprintf(&b, "   Improvements (>%s%%): %s\n", band, passStyle.Render(strconv.Itoa(s.Improvements)))
	fmt.Fprintf(&b, "   Regressions (<-%s%%): %s\n", band, failStyle.Render(strconv.Itoa(s.Regressions)))
	fmt.Fprintf(&b, "   Stable (±%s%%): %d\n\n", band, s.Stable)

	b.WriteString(verdictLine(s.Verdict, s.AvgDiff, "%") + "\n")
	return b.String()
}

func matrixHeader() string {
	cols := []string{fmt.Sprintf("%-20s", "Page")}
	for _, c := range domain.Categories {
		cols = append(cols, fmt.Sprintf("%-10s", c.ShortLabel()))
	}
	cols = append(cols, fmt.Sprintf("%-10s", "Average"))
	return strings.Join(cols, " | ")
}
