package scoring

import "github.com/lhdiff/lhdiff/internal/domain"

// Compare computes new minus old for every category and the mean of those
// differences.
func Compare(page string, old, new domain.ScoreSet) domain.PageComparison {
	diff := make(map[domain.Category]float64, len(domain.Categories))
	var sum float64
	for _, c := range domain.Categories {
		d := new.Get(c) - old.Get(c)
		diff[c] = d
		sum += d
	}
	return domain.PageComparison{
		Page:    page,
		Old:     old,
		New:     new,
		Diff:    diff,
		AvgDiff: sum / float64(len(domain.Categories)),
	}
}

// PercentChange returns diff as a percentage of old. It returns 0 when old
// is 0 instead of reporting an undefined change.
func PercentChange(old, diff float64) float64 {
	if old == 0 {
		return 0
	}
	return diff / old * 100
}

// Classify places a difference inside or outside the stable band.
func Classify(diff float64, t domain.Thresholds) domain.Trend {
	switch {
	case diff > t.Stable:
		return domain.TrendImproved
	case diff < -t.Stable:
		return domain.TrendRegressed
	default:
		return domain.TrendStable
	}
}

// VerdictFor maps an average difference onto a qualitative verdict.
func VerdictFor(avg float64, t domain.Thresholds) domain.Verdict {
	switch {
	case avg > t.Significant:
		return domain.VerdictSignificantImprovement
	case avg > 0:
		return domain.VerdictModestImprovement
	case avg == 0:
		return domain.VerdictNoChange
	case avg >= -t.Significant:
		return domain.VerdictModestRegression
	default:
		return domain.VerdictSignificantRegression
	}
}
