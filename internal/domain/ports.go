package domain

import "context"

// ReportLoader reads an audit report from disk.
type ReportLoader interface {
	Load(path string) (*Document, error)
}

// PairResolver turns configured pairs into concrete file pairs.
// Pairs that cannot be resolved are returned as skipped.
type PairResolver interface {
	Resolve(plan Plan) ([]ResolvedPair, []SkippedPage, error)
}

// PlanLoader loads the comparison plan from a file.
type PlanLoader interface {
	Load(path string) (Plan, error)
}

// RunHistory persists run summaries.
type RunHistory interface {
	Save(ctx context.Context, run *ComparisonRun) (int64, error)
	List(ctx context.Context, mode Mode, limit int) ([]RunEntry, error)
}

// GitInfo reads repository metadata.
type GitInfo interface {
	IsGitRepo(path string) bool
	CommitHash(path string) (string, error)
}

// TextDecoder decodes raw bytes using a named text encoding.
type TextDecoder interface {
	Decode(data []byte, encoding string) (string, error)
}
