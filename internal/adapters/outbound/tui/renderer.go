package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/lhdiff/lhdiff/internal/domain/scoring"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	infoStyle     = lipgloss.NewStyle().Foreground(info)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	okTagStyle    = lipgloss.NewStyle().Foreground(success).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info).Bold(true)
)

const (
	detailedWidth = 100
	matrixWidth   = 110
)

// RenderDetailed formats a detailed run: one block per page with per-metric
// rows, followed by page statistics, the performance analysis and the verdict.
func RenderDetailed(run *domain.ComparisonRun) string {
	var b strings.Builder
	t := run.Thresholds

	renderErrors(&b, run.Errors)

	banner := faintStyle.Render(strings.Repeat("=", detailedWidth))
	rule := faintStyle.Render(strings.Repeat("-", detailedWidth))

	b.WriteString(banner + "\n")
	b.WriteString(headerStyle.Render("LIGHTHOUSE AUDIT COMPARISON - MOBILE") + "\n")
	b.WriteString(banner + "\n\n")

	for _, p := range run.Pages {
		b.WriteString(titleStyle.Render("PAGE: "+p.Page) + "\n")
		b.WriteString(rule + "\n")
		b.WriteString(dimStyle.Render(detailedHeader()) + "\n")
		b.WriteString(rule + "\n")
		for _, c := range domain.Categories {
			row := detailedRow(c, p.Old.Get(c), p.New.Get(c), p.Diff[c])
			b.WriteString(styleFor(p.Diff[c], t).Render(row) + "\n")
		}
		b.WriteString(titleStyle.Render(averageRow(p.AvgDiff)) + "\n\n")
	}

	renderSkipped(&b, run.Skipped)

	s := run.PageSummary
	band := formatThreshold(t.Stable)
	b.WriteString(banner + "\n")
	b.WriteString(headerStyle.Render("OVERALL STATISTICS") + "\n")
	b.WriteString(banner + "\n")
	fmt.Fprintf(&b, "Total pages analyzed: %d\n", s.Pages)
	fmt.Fprintf(&b, "Average improvement across all pages: %.2f points\n", s.AvgDiff)
	fmt.Fprintf(&b, "Pages with improvements (>%s%%): %s\n", band, passStyle.Render(strconv.Itoa(s.Improvements)))
	fmt.Fprintf(&b, "Pages with regressions (<-%s%%): %s\n", band, failStyle.Render(strconv.Itoa(s.Regressions)))
	fmt.Fprintf(&b, "Pages with stable scores (±%s%%): %d\n\n", band, s.Stable)

	b.WriteString(headerStyle.Render("PERFORMANCE ANALYSIS (Most critical metric)") + "\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Average performance change: %.2f points\n", s.Performance.AvgDiff)
	fmt.Fprintf(&b, "Pages with performance improvement: %d\n", s.Performance.Improvements)
	fmt.Fprintf(&b, "Pages with performance regression: %d\n\n", s.Performance.Regressions)
	b.WriteString(verdictStyle(s.Performance.Conclusion).Render(conclusionLine(s.Performance.Conclusion)) + "\n\n")

	b.WriteString(verdictLine(s.Verdict, s.AvgDiff, "points") + "\n")
	return b.String()
}

func detailedHeader() string {
	return fmt.Sprintf("%-20s %-12s %-12s %-12s %-12s", "Metric", "Old", "New", "Diff", "% Change")
}

func detailedRow(c domain.Category, old, new, diff float64) string {
	pct := scoring.PercentChange(old, diff)
	return fmt.Sprintf("%-20s %-12.1f %-12.1f %-12.1f %-12.1f%%", string(c), old, new, diff, pct)
}

func averageRow(avg float64) string {
	return fmt.Sprintf("%-20s %-12s %-12s %-12.1f", "AVERAGE DIFF", "", "", avg)
}

func conclusionLine(v domain.Verdict) string {
	switch v {
	case domain.VerdictSignificantImprovement:
		return "CONCLUSION: Significant performance improvement detected"
	case domain.VerdictModestImprovement:
		return "CONCLUSION: Modest performance improvement detected"
	case domain.VerdictModestRegression:
		return "CONCLUSION: Modest performance regression detected"
	case domain.VerdictSignificantRegression:
		return "CONCLUSION: Significant performance regression detected"
	default:
		return "CONCLUSION: No performance change detected"
	}
}

// verdictLine renders the tagged verdict. unit follows the magnitude, "%"
// for metric averages and "points" for page averages.
func verdictLine(v domain.Verdict, avg float64, unit string) string {
	magnitude := fmt.Sprintf("%.1f%s", abs(avg), unit)
	if unit != "%" {
		magnitude = fmt.Sprintf("%.2f %s", abs(avg), unit)
	}

	switch v {
	case domain.VerdictSignificantImprovement:
		return okTagStyle.Render("[OK]") + " VERDICT: SIGNIFICANT improvement of " + magnitude
	case domain.VerdictModestImprovement:
		return okTagStyle.Render("[OK]") + " VERDICT: MODEST improvement of " + magnitude
	case domain.VerdictSignificantRegression:
		return warnTagStyle.Render("[WARN]") + " VERDICT: SIGNIFICANT regression of " + magnitude
	case domain.VerdictModestRegression:
		return warnTagStyle.Render("[WARN]") + " VERDICT: MODEST regression of " + magnitude
	default:
		return infoTagStyle.Render("[INFO]") + " VERDICT: No change"
	}
}

func renderErrors(b *strings.Builder, errs []domain.PageError) {
	for _, e := range errs {
		fmt.Fprintf(b, "%s %s\n", errorTagStyle.Render("Error processing "+e.Page+":"), e.Message)
	}
}

func renderSkipped(b *strings.Builder, skipped []domain.SkippedPage) {
	if len(skipped) == 0 {
		return
	}
	for _, s := range skipped {
		reason := "no matching report"
		if s.Reason == domain.SkipIncomplete {
			reason = "incomplete audit"
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("Skipped %s: %s", s.Page, reason)) + "\n")
	}
	b.WriteString("\n")
}

func styleFor(diff float64, t domain.Thresholds) lipgloss.Style {
	switch scoring.Classify(diff, t) {
	case domain.TrendImproved:
		return passStyle
	case domain.TrendRegressed:
		return failStyle
	default:
		return lipgloss.NewStyle()
	}
}

func verdictStyle(v domain.Verdict) lipgloss.Style {
	switch {
	case v.IsRegression():
		return warnStyle
	case v == domain.VerdictNoChange:
		return infoStyle
	default:
		return passStyle
	}
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func padRight(s string, width int) string {
	if lipgloss.Width(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-lipgloss.Width(s))
}
