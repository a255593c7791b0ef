package scoring

import "github.com/lhdiff/lhdiff/internal/domain"

// ExtractScores converts a report's fractional category scores into
// percentages, in category order. Absent categories and null scores yield 0.
// Values are not range-checked.
func ExtractScores(doc *domain.Document) domain.ScoreSet {
	set := domain.NewScoreSet()
	if doc == nil {
		return set
	}
	for _, c := range domain.Categories {
		result, ok := doc.Categories[string(c)]
		if !ok || result == nil || result.Score == nil {
			continue
		}
		set.Values[c] = *result.Score * 100
		set.Present[c] = true
	}
	return set
}

// IsIncomplete reports whether a pair should be left out of a matrix run
// because one side looks like a partial audit. Only best-practices and seo
// are inspected.
func IsIncomplete(old, new domain.ScoreSet, rule domain.IncompleteRule) bool {
	keys := []domain.Category{domain.CategoryBestPractices, domain.CategorySEO}
	switch rule {
	case domain.IncompleteOff:
		return false
	case domain.IncompleteMissing:
		for _, k := range keys {
			if !old.Present[k] || !new.Present[k] {
				return true
			}
		}
		return false
	default:
		for _, k := range keys {
			if old.Values[k] == 0 || new.Values[k] == 0 {
				return true
			}
		}
		return false
	}
}
