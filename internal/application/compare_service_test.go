package application_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/config"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/report"
	"github.com/lhdiff/lhdiff/internal/adapters/outbound/resolver"
	"github.com/lhdiff/lhdiff/internal/application"
	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../testdata/reports"

func newService() *application.CompareService {
	return application.NewCompareService(report.New(), resolver.NewExplicit(), resolver.NewGlob(), nil, nil)
}

func loadPlan(t *testing.T) domain.Plan {
	t.Helper()
	plan, err := config.New().Load(fixtureDir)
	require.NoError(t, err)
	return plan
}

func pageNames(run *domain.ComparisonRun) []string {
	var names []string
	for _, p := range run.Pages {
		names = append(names, p.Page)
	}
	return names
}

func TestCompareService_Detailed(t *testing.T) {
	run, err := newService().Compare(context.Background(), loadPlan(t), domain.ModeDetailed)
	require.NoError(t, err)

	assert.Equal(t, domain.ModeDetailed, run.Mode)
	assert.Equal(t, []string{"Homepage", "Dashboard", "Retours"}, pageNames(run), "plan order is kept")

	require.Len(t, run.Errors, 2)
	assert.Equal(t, "Equipe", run.Errors[0].Page)
	assert.Contains(t, run.Errors[0].Message, "equipe2.json")
	assert.Equal(t, "Inventaire", run.Errors[1].Page)
	assert.Contains(t, run.Errors[1].Message, "unexpected end of JSON input")
	assert.Empty(t, run.Skipped, "detailed mode never applies the incomplete rule")

	home := run.Pages[0]
	assert.InDelta(t, 10.0, home.Diff[domain.CategoryPerformance], 1e-9)
	assert.InDelta(t, -3.0, home.Diff[domain.CategoryAccessibility], 1e-9)
	assert.InDelta(t, 1.8, home.AvgDiff, 1e-9)
	assert.Contains(t, home.NewFile, "homepage2.json")

	s := run.PageSummary
	assert.Equal(t, 3, s.Pages)
	assert.InDelta(t, 6.0, s.AvgDiff, 1e-9)
	assert.Equal(t, 1, s.Improvements)
	assert.Equal(t, 1, s.Regressions)
	assert.Equal(t, 1, s.Stable)
	assert.Equal(t, domain.VerdictSignificantImprovement, s.Verdict)
	assert.InDelta(t, 5.0/3.0, s.Performance.AvgDiff, 1e-9)
	assert.Equal(t, 2, s.Performance.Improvements)
	assert.Equal(t, 1, s.Performance.Regressions)
	assert.Equal(t, domain.VerdictModestImprovement, s.Performance.Conclusion)
}

func TestCompareService_Matrix(t *testing.T) {
	run, err := newService().Compare(context.Background(), loadPlan(t), domain.ModeMatrix)
	require.NoError(t, err)

	assert.Equal(t, []string{"Homepage", "Dashboard"}, pageNames(run))
	assert.ElementsMatch(t, []domain.SkippedPage{
		{Page: "Equipe", Reason: domain.SkipNoMatch},
		{Page: "Retours", Reason: domain.SkipIncomplete},
	}, run.Skipped)
	require.Len(t, run.Errors, 1)
	assert.Equal(t, "Inventaire", run.Errors[0].Page)

	m := run.MetricSummary
	assert.Equal(t, 10, m.Metrics)
	assert.InDelta(t, -1.0, m.AvgDiff, 1e-9)
	assert.Equal(t, 1, m.Improvements)
	assert.Equal(t, 3, m.Regressions)
	assert.Equal(t, 6, m.Stable)
	assert.Equal(t, domain.VerdictModestRegression, run.Verdict())
}

func TestCompareService_MatrixIncompleteRuleOff(t *testing.T) {
	plan := loadPlan(t)
	plan.IncompleteRule = domain.IncompleteOff

	run, err := newService().Compare(context.Background(), plan, domain.ModeMatrix)
	require.NoError(t, err)
	assert.Equal(t, []string{"Homepage", "Dashboard", "Retours"}, pageNames(run))
}

func TestCompareService_UnknownMode(t *testing.T) {
	_, err := newService().Compare(context.Background(), loadPlan(t), domain.Mode("radar"))
	require.Error(t, err)
}

func TestCompareService_Scores(t *testing.T) {
	doc, set, err := newService().Scores(fixtureDir + "/before/site-20251231T090645.json-tableaudebord-mobile.json")
	require.NoError(t, err)
	assert.Equal(t, "https://bar.example.test/dashboard", doc.FinalURL)
	assert.InDelta(t, 70.0, set.Get(domain.CategoryPerformance), 1e-9)
	assert.False(t, set.Present[domain.CategoryPWA], "null score is not present")
	assert.Equal(t, 0.0, set.Get(domain.CategoryPWA))
}

// fakeLoader returns a fixed document per path and counts concurrent loads.
type fakeLoader struct {
	docs     map[string]*domain.Document
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeLoader) Load(path string) (*domain.Document, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)
	if d, ok := f.docs[path]; ok {
		return d, nil
	}
	return nil, errors.New("no such report: " + path)
}

func perfDoc(v float64) *domain.Document {
	return &domain.Document{Categories: map[string]*domain.CategoryResult{
		"performance": {Score: &v},
	}}
}

func TestCompareService_BoundedConcurrencyKeepsOrder(t *testing.T) {
	loader := &fakeLoader{docs: map[string]*domain.Document{}, delay: 5 * time.Millisecond}
	var pairs []domain.Pair
	for i := 0; i < 12; i++ {
		name := string(rune('A' + i))
		loader.docs["old/"+name] = perfDoc(0.5)
		loader.docs["new/"+name] = perfDoc(0.5 + float64(i)/100)
		pairs = append(pairs, domain.Pair{Name: name, Old: "old/" + name, New: "new/" + name})
	}

	svc := application.NewCompareService(loader, resolver.NewExplicit(), resolver.NewGlob(), nil, nil)
	svc.SetConcurrency(3)

	run, err := svc.Compare(context.Background(), domain.Plan{Pairs: pairs}, domain.ModeDetailed)
	require.NoError(t, err)
	require.Len(t, run.Pages, 12)
	for i, p := range run.Pages {
		assert.Equal(t, string(rune('A'+i)), p.Page)
		assert.InDelta(t, float64(i), p.Diff[domain.CategoryPerformance], 1e-9)
	}
	assert.LessOrEqual(t, loader.peak.Load(), int32(3))
}

func TestCompareService_CancelledContext(t *testing.T) {
	loader := &fakeLoader{docs: map[string]*domain.Document{"a": perfDoc(1), "b": perfDoc(1)}}
	svc := application.NewCompareService(loader, resolver.NewExplicit(), resolver.NewGlob(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Compare(ctx, domain.Plan{Pairs: []domain.Pair{{Name: "P", Old: "a", New: "b"}}}, domain.ModeDetailed)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

type stubGit struct{ hash string }

func (g stubGit) IsGitRepo(string) bool { return true }
func (g stubGit) CommitHash(string) (string, error) { return g.hash, nil }

func TestCompareService_RecordsCommitHash(t *testing.T) {
	svc := application.NewCompareService(report.New(), resolver.NewExplicit(), resolver.NewGlob(), stubGit{hash: "deadbeef"}, nil)
	run, err := svc.Compare(context.Background(), loadPlan(t), domain.ModeDetailed)
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", run.CommitHash)
	assert.False(t, run.Timestamp.IsZero())
}
