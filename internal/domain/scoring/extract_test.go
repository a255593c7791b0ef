package scoring_test

import (
	"testing"

	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/lhdiff/lhdiff/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
)

func score(v float64) *float64 { return &v }

func fullDocument(perf, access, best, seo, pwa float64) *domain.Document {
	return &domain.Document{
		Categories: map[string]*domain.CategoryResult{
			"performance":    {Score: score(perf)},
			"accessibility":  {Score: score(access)},
			"best-practices": {Score: score(best)},
			"seo":            {Score: score(seo)},
			"pwa":            {Score: score(pwa)},
		},
	}
}

func TestExtractScores_MultipliesByHundred(t *testing.T) {
	set := scoring.ExtractScores(fullDocument(0.8, 0.9, 1, 1, 0.5))

	assert.InDelta(t, 80, set.Get(domain.CategoryPerformance), 1e-9)
	assert.InDelta(t, 90, set.Get(domain.CategoryAccessibility), 1e-9)
	assert.InDelta(t, 100, set.Get(domain.CategoryBestPractices), 1e-9)
	assert.InDelta(t, 100, set.Get(domain.CategorySEO), 1e-9)
	assert.InDelta(t, 50, set.Get(domain.CategoryPWA), 1e-9)
	for _, c := range domain.Categories {
		assert.True(t, set.Present[c], "%s should be present", c)
	}
}

func TestExtractScores_AbsentAndNullYieldZero(t *testing.T) {
	doc := &domain.Document{
		Categories: map[string]*domain.CategoryResult{
			"performance": {Score: score(0.42)},
			"seo":         {Score: nil},
			"pwa":         nil,
		},
	}

	set := scoring.ExtractScores(doc)

	assert.InDelta(t, 42, set.Get(domain.CategoryPerformance), 1e-9)
	assert.Equal(t, 0.0, set.Get(domain.CategoryAccessibility))
	assert.Equal(t, 0.0, set.Get(domain.CategoryBestPractices))
	assert.Equal(t, 0.0, set.Get(domain.CategorySEO))
	assert.Equal(t, 0.0, set.Get(domain.CategoryPWA))
	assert.False(t, set.Present[domain.CategorySEO])
	assert.False(t, set.Present[domain.CategoryPWA])
	assert.Len(t, set.Values, len(domain.Categories))
}

func TestExtractScores_NilDocument(t *testing.T) {
	set := scoring.ExtractScores(nil)
	for _, c := range domain.Categories {
		assert.Equal(t, 0.0, set.Get(c))
	}
}

func TestExtractScores_OutOfRangePassesThrough(t *testing.T) {
	set := scoring.ExtractScores(fullDocument(1.5, -0.1, 1, 1, 1))
	assert.InDelta(t, 150, set.Get(domain.CategoryPerformance), 1e-9)
	assert.InDelta(t, -10, set.Get(domain.CategoryAccessibility), 1e-9)
}

func TestExtractScores_RangeForUnitInputs(t *testing.T) {
	for _, v := range []float64{0, 0.01, 0.33, 0.5, 0.99, 1} {
		set := scoring.ExtractScores(fullDocument(v, v, v, v, v))
		for _, c := range domain.Categories {
			got := set.Get(c)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestIsIncomplete(t *testing.T) {
	complete := scoring.ExtractScores(fullDocument(0.5, 0.9, 0.9, 0.9, 0))
	zeroBest := scoring.ExtractScores(fullDocument(0.5, 0.9, 0, 0.9, 0))
	missingSEO := scoring.ExtractScores(&domain.Document{
		Categories: map[string]*domain.CategoryResult{
			"best-practices": {Score: score(0.9)},
			"seo":            {Score: nil},
		},
	})

	tests := []struct {
		name     string
		old, new domain.ScoreSet
		rule     domain.IncompleteRule
		want     bool
	}{
		{"complete zero rule", complete, complete, domain.IncompleteZero, false},
		{"zero best old side", zeroBest, complete, domain.IncompleteZero, true},
		{"zero best new side", complete, zeroBest, domain.IncompleteZero, true},
		{"missing seo zero rule", complete, missingSEO, domain.IncompleteZero, true},
		{"legit zero with missing rule", zeroBest, complete, domain.IncompleteMissing, false},
		{"missing seo with missing rule", complete, missingSEO, domain.IncompleteMissing, true},
		{"off never skips", zeroBest, missingSEO, domain.IncompleteOff, false},
		{"empty rule behaves as zero", zeroBest, complete, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoring.IsIncomplete(tt.old, tt.new, tt.rule))
		})
	}
}
