package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lhdiff/lhdiff/internal/adapters/outbound/history"
	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	s, err := history.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRun(mode domain.Mode, avg float64, verdict domain.Verdict, at time.Time) *domain.ComparisonRun {
	return &domain.ComparisonRun{
		Mode:       mode,
		Timestamp:  at,
		CommitHash: "abc1234",
		Pages: []domain.PageComparison{
			{Page: "Homepage", AvgDiff: avg},
		},
		PageSummary:   domain.PageSummary{Pages: 1, AvgDiff: avg, Verdict: verdict},
		MetricSummary: domain.MetricSummary{Metrics: 5, AvgDiff: avg / 2, Verdict: verdict},
	}
}

func TestStore_SaveAndList(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 18, 3, 52, 0, time.UTC)

	id, err := s.Save(ctx, sampleRun(domain.ModeDetailed, 3, domain.VerdictModestImprovement, at))
	require.NoError(t, err)
	assert.Positive(t, id)

	entries, err := s.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, id, e.ID)
	assert.Equal(t, domain.ModeDetailed, e.Mode)
	assert.Equal(t, "abc1234", e.CommitHash)
	assert.Equal(t, 1, e.Pages)
	assert.InDelta(t, 3.0, e.AvgDiff, 1e-9)
	assert.Equal(t, domain.VerdictModestImprovement, e.Verdict)
	assert.True(t, at.Equal(e.Timestamp))
}

func TestStore_MatrixUsesMetricAverage(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Save(ctx, sampleRun(domain.ModeMatrix, 8, domain.VerdictModestImprovement, time.Now()))
	require.NoError(t, err)

	entries, err := s.List(ctx, domain.ModeMatrix, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.InDelta(t, 4.0, entries[0].AvgDiff, 1e-9)
}

func TestStore_ListFiltersAndLimits(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	base := time.Now()

	for i, avg := range []float64{1, 2, 3, 4} {
		mode := domain.ModeDetailed
		if i%2 == 1 {
			mode = domain.ModeMatrix
		}
		_, err := s.Save(ctx, sampleRun(mode, avg, domain.VerdictModestImprovement, base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	detailed, err := s.List(ctx, domain.ModeDetailed, 0)
	require.NoError(t, err)
	require.Len(t, detailed, 2)
	assert.InDelta(t, 1.0, detailed[0].AvgDiff, 1e-9)
	assert.InDelta(t, 3.0, detailed[1].AvgDiff, 1e-9)

	latest, err := s.List(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Less(t, latest[0].ID, latest[1].ID, "oldest first")
	assert.Equal(t, domain.ModeDetailed, latest[0].Mode)
	assert.Equal(t, domain.ModeMatrix, latest[1].Mode)
}

func TestStore_LoadFullRun(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, sampleRun(domain.ModeDetailed, -6, domain.VerdictSignificantRegression, time.Now()))
	require.NoError(t, err)

	run, err := s.Load(ctx, id)
	require.NoError(t, err)
	require.Len(t, run.Pages, 1)
	assert.Equal(t, "Homepage", run.Pages[0].Page)
	assert.Equal(t, domain.VerdictSignificantRegression, run.PageSummary.Verdict)

	_, err = s.Load(ctx, id+100)
	assert.Error(t, err)
}

func TestStore_ReopenKeepsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "history")
	s, err := history.Open(dir)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), sampleRun(domain.ModeDetailed, 1, domain.VerdictModestImprovement, time.Now()))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := history.Open(dir)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	entries, err := s2.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(dir, history.DBFile), s2.Path())
}
