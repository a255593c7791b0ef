package application

import (
	"context"
	"fmt"
	"time"

	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/lhdiff/lhdiff/internal/domain/scoring"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultLoadConcurrency bounds how many reports are read at once.
const DefaultLoadConcurrency = 8

// CompareService orchestrates a comparison run:
// resolve pairs → load reports → extract scores → diff → summarise.
type CompareService struct {
	loader      domain.ReportLoader
	explicit    domain.PairResolver
	glob        domain.PairResolver
	git         domain.GitInfo
	logger      *zap.Logger
	concurrency int
	now         func() time.Time
}

func NewCompareService(
	loader domain.ReportLoader,
	explicit domain.PairResolver,
	glob domain.PairResolver,
	git domain.GitInfo,
	logger *zap.Logger,
) *CompareService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompareService{
		loader:      loader,
		explicit:    explicit,
		glob:        glob,
		git:         git,
		logger:      logger,
		concurrency: DefaultLoadConcurrency,
		now:         time.Now,
	}
}

// SetConcurrency changes the number of concurrent report loads; n < 1 means 1.
func (s *CompareService) SetConcurrency(n int) {
	s.concurrency = max(1, n)
}

type loadedPair struct {
	old, new *domain.Document
	err      error
}

// Compare runs plan in the given mode. Pages whose reports cannot be read are
// recorded as errors and left out; the run itself only fails when pairs
// cannot be resolved or ctx is cancelled.
func (s *CompareService) Compare(ctx context.Context, plan domain.Plan, mode domain.Mode) (*domain.ComparisonRun, error) {
	if !domain.IsValidMode(mode) {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	resolver := s.explicit
	if mode == domain.ModeMatrix {
		resolver = s.glob
	}

	// 1. Resolve pairs
	pairs, skipped, err := resolver.Resolve(plan)
	if err != nil {
		return nil, fmt.Errorf("resolving pairs: %w", err)
	}
	s.logger.Debug("resolved pairs",
		zap.String("mode", string(mode)),
		zap.Int("pairs", len(pairs)),
		zap.Int("unmatched", len(skipped)))

	// 2. Load reports concurrently, keeping plan order
	loaded, err := s.loadAll(ctx, pairs)
	if err != nil {
		return nil, err
	}

	run := &domain.ComparisonRun{
		Mode:       mode,
		Timestamp:  s.now(),
		Skipped:    skipped,
		Thresholds: plan.EffectiveThresholds(),
	}

	// 3. Extract, filter and diff
	rule := plan.EffectiveIncompleteRule()
	for i, rp := range pairs {
		lp := loaded[i]
		if lp.err != nil {
			s.logger.Warn("page skipped", zap.String("page", rp.Page), zap.Error(lp.err))
			run.Errors = append(run.Errors, domain.PageError{Page: rp.Page, Message: lp.err.Error()})
			continue
		}

		oldSet := scoring.ExtractScores(lp.old)
		newSet := scoring.ExtractScores(lp.new)

		if mode == domain.ModeMatrix && scoring.IsIncomplete(oldSet, newSet, rule) {
			s.logger.Debug("incomplete audit skipped", zap.String("page", rp.Page), zap.String("rule", string(rule)))
			run.Skipped = append(run.Skipped, domain.SkippedPage{Page: rp.Page, Reason: domain.SkipIncomplete})
			continue
		}

		pc := scoring.Compare(rp.Page, oldSet, newSet)
		pc.OldFile = rp.OldFile
		pc.NewFile = rp.NewFile
		run.Pages = append(run.Pages, pc)
		s.logger.Debug("page compared", zap.String("page", rp.Page), zap.Float64("avg_diff", pc.AvgDiff))
	}

	// 4. Summarise
	run.PageSummary = scoring.SummarizePages(run.Pages, run.Thresholds)
	run.MetricSummary = scoring.SummarizeMetrics(run.Pages, run.Thresholds)

	if s.git != nil && plan.BaseDir != "" && s.git.IsGitRepo(plan.BaseDir) {
		if hash, err := s.git.CommitHash(plan.BaseDir); err == nil {
			run.CommitHash = hash
		}
	}

	s.logger.Debug("run complete",
		zap.Int("pages", len(run.Pages)),
		zap.Int("errors", len(run.Errors)),
		zap.Int("skipped", len(run.Skipped)),
		zap.String("verdict", string(run.Verdict())))

	return run, nil
}

func (s *CompareService) loadAll(ctx context.Context, pairs []domain.ResolvedPair) ([]loadedPair, error) {
	loaded := make([]loadedPair, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, rp := range pairs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			old, err := s.loader.Load(rp.OldFile)
			if err != nil {
				loaded[i].err = err
				return nil
			}
			doc, err := s.loader.Load(rp.NewFile)
			if err != nil {
				loaded[i].err = err
				return nil
			}
			loaded[i] = loadedPair{old: old, new: doc}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading reports: %w", err)
	}
	return loaded, nil
}

// Scores loads a single report and extracts its category scores.
func (s *CompareService) Scores(path string) (*domain.Document, domain.ScoreSet, error) {
	doc, err := s.loader.Load(path)
	if err != nil {
		return nil, domain.ScoreSet{}, err
	}
	return doc, scoring.ExtractScores(doc), nil
}
