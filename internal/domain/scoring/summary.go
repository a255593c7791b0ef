package scoring

import "github.com/lhdiff/lhdiff/internal/domain"

// SummarizePages aggregates per-page average differences and analyses the
// performance category on its own. An empty input yields zero averages.
func SummarizePages(pages []domain.PageComparison, t domain.Thresholds) domain.PageSummary {
	s := domain.PageSummary{Pages: len(pages)}

	var sumAvg, sumPerf float64
	for _, p := range pages {
		switch Classify(p.AvgDiff, t) {
		case domain.TrendImproved:
			s.Improvements++
		case domain.TrendRegressed:
			s.Regressions++
		default:
			s.Stable++
		}
		sumAvg += p.AvgDiff

		perf := p.Diff[domain.CategoryPerformance]
		sumPerf += perf
		switch Classify(perf, t) {
		case domain.TrendImproved:
			s.Performance.Improvements++
		case domain.TrendRegressed:
			s.Performance.Regressions++
		}
	}

	if len(pages) > 0 {
		s.AvgDiff = sumAvg / float64(len(pages))
		s.Performance.AvgDiff = sumPerf / float64(len(pages))
	}
	s.Verdict = VerdictFor(s.AvgDiff, t)
	s.Performance.Conclusion = VerdictFor(s.Performance.AvgDiff, t)
	return s
}

// SummarizeMetrics aggregates every individual metric difference across all
// pages, so each page contributes one value per category.
func SummarizeMetrics(pages []domain.PageComparison, t domain.Thresholds) domain.MetricSummary {
	var s domain.MetricSummary

	var sum float64
	for _, p := range pages {
		for _, c := range domain.Categories {
			d := p.Diff[c]
			s.Metrics++
			sum += d
			switch Classify(d, t) {
			case domain.TrendImproved:
				s.Improvements++
			case domain.TrendRegressed:
				s.Regressions++
			default:
				s.Stable++
			}
		}
	}

	if s.Metrics > 0 {
		s.AvgDiff = sum / float64(s.Metrics)
	}
	s.Verdict = VerdictFor(s.AvgDiff, t)
	return s
}
