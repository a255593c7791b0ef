package domain

import (
	"time"
)

// Category is one of the audit categories compared by lhdiff.
type Category string

const (
	CategoryPerformance   Category = "performance"
	CategoryAccessibility Category = "accessibility"
	CategoryBestPractices Category = "best-practices"
	CategorySEO           Category = "seo"
	CategoryPWA           Category = "pwa"
)

// Categories is the fixed category order used for extraction, diffs and rendering.
var Categories = []Category{
	CategoryPerformance,
	CategoryAccessibility,
	CategoryBestPractices,
	CategorySEO,
	CategoryPWA,
}

var shortLabels = map[Category]string{
	CategoryPerformance:   "Perf",
	CategoryAccessibility: "Access",
	CategoryBestPractices: "Best",
	CategorySEO:           "SEO",
	CategoryPWA:           "PWA",
}

// ShortLabel returns the column label used by the matrix report.
func (c Category) ShortLabel() string {
	if l, ok := shortLabels[c]; ok {
		return l
	}
	return string(c)
}

// Document is the subset of an audit report that lhdiff reads.
type Document struct {
	FinalURL          string                     `json:"finalUrl,omitempty"`
	FetchTime         string                     `json:"fetchTime,omitempty"`
	LighthouseVersion string                     `json:"lighthouseVersion,omitempty"`
	Categories        map[string]*CategoryResult `json:"categories"`
}

// CategoryResult is one entry of the report's categories object.
// A nil Score means the report carried null or no score.
type CategoryResult struct {
	ID    string   `json:"id,omitempty"`
	Title string   `json:"title,omitempty"`
	Score *float64 `json:"score"`
}

// ScoreSet holds per-category percentages derived from a Document.
type ScoreSet struct {
	Values  map[Category]float64 `json:"values"`
	Present map[Category]bool    `json:"present"`
}

// NewScoreSet returns an empty set with every category at zero.
func NewScoreSet() ScoreSet {
	s := ScoreSet{
		Values:  make(map[Category]float64, len(Categories)),
		Present: make(map[Category]bool, len(Categories)),
	}
	for _, c := range Categories {
		s.Values[c] = 0
		s.Present[c] = false
	}
	return s
}

// Get returns the percentage for c, zero when unknown.
func (s ScoreSet) Get(c Category) float64 { return s.Values[c] }

// Pair names one before/after page comparison.
type Pair struct {
	Name       string `yaml:"name"                  json:"name"`
	Old        string `yaml:"old,omitempty"         json:"old,omitempty"`
	New        string `yaml:"new,omitempty"         json:"new,omitempty"`
	OldPattern string `yaml:"old_pattern,omitempty" json:"old_pattern,omitempty"`
	NewPattern string `yaml:"new_pattern,omitempty" json:"new_pattern,omitempty"`
}

// ResolvedPair is a Pair with concrete file paths on both sides.
type ResolvedPair struct {
	Page    string
	OldFile string
	NewFile string
}

// PageComparison is the result of comparing one page's old and new reports.
type PageComparison struct {
	Page    string               `json:"page"`
	OldFile string               `json:"old_file,omitempty"`
	NewFile string               `json:"new_file,omitempty"`
	Old     ScoreSet             `json:"old"`
	New     ScoreSet             `json:"new"`
	Diff    map[Category]float64 `json:"diff"`
	AvgDiff float64              `json:"avg_diff"`
}

// PageError records a page that could not be loaded.
type PageError struct {
	Page    string `json:"page"`
	Message string `json:"message"`
}

// Skip reasons.
const (
	SkipNoMatch    = "no_match"
	SkipIncomplete = "incomplete"
)

// SkippedPage records a page left out of a run without an error.
type SkippedPage struct {
	Page   string `json:"page"`
	Reason string `json:"reason"`
}

// Trend classifies a single difference against the stable band.
type Trend string

const (
	TrendImproved  Trend = "improved"
	TrendRegressed Trend = "regressed"
	TrendStable    Trend = "stable"
)

// Verdict is the qualitative judgement of an average difference.
type Verdict string

const (
	VerdictSignificantImprovement Verdict = "significant improvement"
	VerdictModestImprovement      Verdict = "modest improvement"
	VerdictNoChange               Verdict = "no change"
	VerdictModestRegression       Verdict = "modest regression"
	VerdictSignificantRegression  Verdict = "significant regression"
)

// IsRegression reports whether v describes a score drop.
func (v Verdict) IsRegression() bool {
	return v == VerdictModestRegression || v == VerdictSignificantRegression
}

// PerformanceAnalysis summarises the performance category across pages.
type PerformanceAnalysis struct {
	AvgDiff      float64 `json:"avg_diff"`
	Improvements int     `json:"improvements"`
	Regressions  int     `json:"regressions"`
	Conclusion   Verdict `json:"conclusion"`
}

// PageSummary aggregates per-page average differences.
type PageSummary struct {
	Pages        int                 `json:"pages"`
	AvgDiff      float64             `json:"avg_diff"`
	Improvements int                 `json:"improvements"`
	Regressions  int                 `json:"regressions"`
	Stable       int                 `json:"stable"`
	Performance  PerformanceAnalysis `json:"performance"`
	Verdict      Verdict             `json:"verdict"`
}

// MetricSummary aggregates every individual metric difference.
type MetricSummary struct {
	Metrics      int     `json:"metrics"`
	AvgDiff      float64 `json:"avg_diff"`
	Improvements int     `json:"improvements"`
	Regressions  int     `json:"regressions"`
	Stable       int     `json:"stable"`
	Verdict      Verdict `json:"verdict"`
}

// Mode selects how pairs are resolved and how a run is rendered.
type Mode string

const (
	ModeDetailed Mode = "detailed"
	ModeMatrix   Mode = "matrix"
)

// ValidModes enumerates all run modes.
var ValidModes = []Mode{ModeDetailed, ModeMatrix}

// ComparisonRun is the complete outcome of one compare or matrix invocation.
type ComparisonRun struct {
	Mode          Mode             `json:"mode"`
	Timestamp     time.Time        `json:"timestamp"`
	CommitHash    string           `json:"commit_hash,omitempty"`
	Pages         []PageComparison `json:"pages"`
	Errors        []PageError      `json:"errors,omitempty"`
	Skipped       []SkippedPage    `json:"skipped,omitempty"`
	Thresholds    Thresholds       `json:"thresholds"`
	PageSummary   PageSummary      `json:"page_summary"`
	MetricSummary MetricSummary    `json:"metric_summary"`
}

// OverallAverage returns the average that drives the run's verdict:
// page averages in detailed mode, metric averages in matrix mode.
func (r *ComparisonRun) OverallAverage() float64 {
	if r.Mode == ModeMatrix {
		return r.MetricSummary.AvgDiff
	}
	return r.PageSummary.AvgDiff
}

// Verdict returns the verdict matching OverallAverage.
func (r *ComparisonRun) Verdict() Verdict {
	if r.Mode == ModeMatrix {
		return r.MetricSummary.Verdict
	}
	return r.PageSummary.Verdict
}

// RunEntry is a stored summary of a past run.
type RunEntry struct {
	ID         int64     `json:"id"`
	Mode       Mode      `json:"mode"`
	Timestamp  time.Time `json:"timestamp"`
	CommitHash string    `json:"commit_hash,omitempty"`
	Pages      int       `json:"pages"`
	AvgDiff    float64   `json:"avg_diff"`
	Verdict    Verdict   `json:"verdict"`
}
