package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lhdiff/lhdiff/internal/domain"
)

// RenderScores lists the category scores of a single report.
func RenderScores(path string, doc *domain.Document, set domain.ScoreSet) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Scores") + "  " + dimStyle.Render(path) + "\n")
	if doc != nil && doc.FinalURL != "" {
		b.WriteString("  " + dimStyle.Render(doc.FinalURL) + "\n")
	}
	if doc != nil && doc.FetchTime != "" {
		b.WriteString("  " + faintStyle.Render("fetched "+doc.FetchTime) + "\n")
	}
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for _, c := range domain.Categories {
		name := padRight(string(c), 16)
		if !set.Present[c] {
			fmt.Fprintf(&b, "  %s %s  %s\n", name, faintStyle.Render(strings.Repeat("░", 20)), dimStyle.Render("n/a"))
			continue
		}
		v := set.Get(c)
		value := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(v)).Render(fmt.Sprintf("%5.1f", v))
		fmt.Fprintf(&b, "  %s %s  %s\n", name, coloredBar(v, 20), value)
	}

	b.WriteString("\n")
	return b.String()
}

func coloredBar(score float64, width int) string {
	filled := max(0, min(int(score)*width/100, width))
	empty := width - filled

	color := scoreColor(score)
	filledStr := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyStr := lipgloss.NewStyle().Foreground(faint).Render(strings.Repeat("░", empty))
	return filledStr + emptyStr
}

// scoreColor follows the audit tool's own bands: 90+ good, 50+ average.
func scoreColor(score float64) lipgloss.Color {
	switch {
	case score >= 90:
		return success
	case score >= 50:
		return warning
	default:
		return danger
	}
}

// RenderHistory formats stored runs oldest first, with the change against
// the previous run of the same mode.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No run history found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 70)) + "\n\n")

	last := make(map[domain.Mode]float64)
	for _, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		avg := verdictStyle(e.Verdict).Render(fmt.Sprintf("%+7.2f", e.AvgDiff))
		line := fmt.Sprintf("  %s  %s  %s  %s  %s  %s",
			dimStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04")),
			faintStyle.Render(hash),
			padRight(string(e.Mode), 8),
			dimStyle.Render(fmt.Sprintf("%3d pages", e.Pages)),
			avg,
			string(e.Verdict),
		)

		if prev, ok := last[e.Mode]; ok {
			diff := e.AvgDiff - prev
			if diff > 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↑%.2f", diff))
			} else if diff < 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↓%.2f", -diff))
			}
		}
		last[e.Mode] = e.AvgDiff

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}
