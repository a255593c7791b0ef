package markdown

import (
	"fmt"
	"io"
	"strconv"

	md "github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/lhdiff/lhdiff/internal/domain/scoring"
)

// Writer renders a comparison run as GitHub-flavored Markdown.
type Writer struct {
	output io.Writer
}

func New(output io.Writer) *Writer {
	return &Writer{output: output}
}

// Write renders run. Detailed runs get one table per page, matrix runs a
// single table with a row per page.
func (w *Writer) Write(run *domain.ComparisonRun) error {
	doc := md.NewMarkdown(w.output)

	doc.H1(fmt.Sprintf("Lighthouse comparison (%s)", run.Mode))
	doc.PlainText("")
	w.writeRunInfo(doc, run)

	if run.Mode == domain.ModeMatrix {
		w.writeMatrix(doc, run)
	} else {
		w.writeDetailed(doc, run)
	}

	w.writeProblems(doc, run)
	w.writeSummary(doc, run)
	w.writeVerdict(doc, run)

	return doc.Build()
}

func (w *Writer) writeRunInfo(doc *md.Markdown, run *domain.ComparisonRun) {
	rows := [][]string{
		{"Mode", string(run.Mode)},
		{"Pages", strconv.Itoa(len(run.Pages))},
		{"Stable band", "±" + fmtNum(run.Thresholds.Stable)},
	}
	if !run.Timestamp.IsZero() {
		rows = append(rows, []string{"Date", run.Timestamp.Format("2006-01-02 15:04:05 MST")})
	}
	if run.CommitHash != "" {
		rows = append(rows, []string{"Commit", "`" + run.CommitHash + "`"})
	}
	doc.Table(md.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	doc.PlainText("")
}

func (w *Writer) writeDetailed(doc *md.Markdown, run *domain.ComparisonRun) {
	for _, p := range run.Pages {
		doc.H2(p.Page)
		doc.PlainText("")

		rows := make([][]string, 0, len(domain.Categories)+1)
		for _, c := range domain.Categories {
			old, diff := p.Old.Get(c), p.Diff[c]
			rows = append(rows, []string{
				string(c),
				fmt.Sprintf("%.1f", old),
				fmt.Sprintf("%.1f", p.New.Get(c)),
				fmt.Sprintf("%+.1f", diff),
				fmt.Sprintf("%+.1f%%", scoring.PercentChange(old, diff)),
			})
		}
		rows = append(rows, []string{"**Average**", "", "", fmt.Sprintf("**%+.1f**", p.AvgDiff), ""})

		doc.Table(md.TableSet{
			Header: []string{"Metric", "Old", "New", "Diff", "% Change"},
			Rows:   rows,
		})
		doc.PlainText("")
	}
}

func (w *Writer) writeMatrix(doc *md.Markdown, run *domain.ComparisonRun) {
	doc.H2("Pages")
	doc.PlainText("")

	header := []string{"Page"}
	for _, c := range domain.Categories {
		header = append(header, c.ShortLabel())
	}
	header = append(header, "Average")

	rows := make([][]string, 0, len(run.Pages))
	for _, p := range run.Pages {
		row := []string{p.Page}
		for _, c := range domain.Categories {
			row = append(row, fmt.Sprintf("%+.0f%%", p.Diff[c]))
		}
		row = append(row, fmt.Sprintf("%+.1f%%", p.AvgDiff))
		rows = append(rows, row)
	}
	doc.Table(md.TableSet{Header: header, Rows: rows})
	doc.PlainText("")
}

func (w *Writer) writeProblems(doc *md.Markdown, run *domain.ComparisonRun) {
	if len(run.Errors) == 0 && len(run.Skipped) == 0 {
		return
	}
	doc.H2("Skipped pages")
	doc.PlainText("")

	var items []string
	for _, e := range run.Errors {
		items = append(items, fmt.Sprintf("**%s**: error: %s", e.Page, e.Message))
	}
	for _, s := range run.Skipped {
		items = append(items, fmt.Sprintf("**%s**: %s", s.Page, s.Reason))
	}
	doc.BulletList(items...)
	doc.PlainText("")
}

func (w *Writer) writeSummary(doc *md.Markdown, run *domain.ComparisonRun) {
	doc.H2("Statistics")
	doc.PlainText("")

	var (
		improved, regressed, stable int
		rows                        [][]string
	)
	if run.Mode == domain.ModeMatrix {
		s := run.MetricSummary
		improved, regressed, stable = s.Improvements, s.Regressions, s.Stable
		rows = [][]string{
			{"Metrics compared", strconv.Itoa(s.Metrics)},
			{"Overall average", fmt.Sprintf("%+.1f%%", s.AvgDiff)},
		}
	} else {
		s := run.PageSummary
		improved, regressed, stable = s.Improvements, s.Regressions, s.Stable
		rows = [][]string{
			{"Pages analyzed", strconv.Itoa(s.Pages)},
			{"Average change", fmt.Sprintf("%+.2f points", s.AvgDiff)},
			{"Average performance change", fmt.Sprintf("%+.2f points", s.Performance.AvgDiff)},
			{"Performance improvements", strconv.Itoa(s.Performance.Improvements)},
			{"Performance regressions", strconv.Itoa(s.Performance.Regressions)},
		}
	}
	rows = append(rows,
		[]string{"Improved", strconv.Itoa(improved)},
		[]string{"Regressed", strconv.Itoa(regressed)},
		[]string{"Stable", strconv.Itoa(stable)},
	)
	doc.Table(md.TableSet{Header: []string{"Statistic", "Value"}, Rows: rows})
	doc.PlainText("")

	if improved+regressed+stable == 0 {
		return
	}
	chart := piechart.NewPieChart(io.Discard, piechart.WithTitle("Trend distribution"), piechart.WithShowData(true))
	if improved > 0 {
		chart.LabelAndIntValue("Improved", uint64(improved))
	}
	if regressed > 0 {
		chart.LabelAndIntValue("Regressed", uint64(regressed))
	}
	if stable > 0 {
		chart.LabelAndIntValue("Stable", uint64(stable))
	}
	doc.CodeBlocks(md.SyntaxHighlightMermaid, chart.String())
	doc.PlainText("")
}

func (w *Writer) writeVerdict(doc *md.Markdown, run *domain.ComparisonRun) {
	avg := run.OverallAverage()
	v := run.Verdict()
	msg := fmt.Sprintf("Verdict: %s (%+.2f).", v, avg)

	switch v {
	case domain.VerdictSignificantImprovement, domain.VerdictModestImprovement:
		doc.Tip(msg)
	case domain.VerdictModestRegression:
		doc.Warningf("%s", msg)
	case domain.VerdictSignificantRegression:
		doc.Cautionf("%s", msg)
	default:
		doc.Note(msg)
	}

	if run.Mode == domain.ModeDetailed {
		doc.PlainText("")
		doc.PlainTextf("Performance conclusion: %s.", run.PageSummary.Performance.Conclusion)
	}
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
