package resolver

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lhdiff/lhdiff/internal/domain"
	"github.com/lhdiff/lhdiff/internal/domain/scoring"
)

// Explicit implements domain.PairResolver using each pair's old/new paths.
// Pairs that only carry patterns are resolved by globbing.
type Explicit struct{}

// Glob implements domain.PairResolver by matching filename fragments inside
// the plan's old and new directories. Pairs that only carry paths use them.
type Glob struct{}

// NewExplicit creates an Explicit resolver.
func NewExplicit() *Explicit { return &Explicit{} }

// NewGlob creates a Glob resolver.
func NewGlob() *Glob { return &Glob{} }

// ForMode returns the resolver matching a run mode.
func ForMode(mode domain.Mode) domain.PairResolver {
	if mode == domain.ModeMatrix {
		return NewGlob()
	}
	return NewExplicit()
}

func (r *Explicit) Resolve(plan domain.Plan) ([]domain.ResolvedPair, []domain.SkippedPage, error) {
	var resolved []domain.ResolvedPair
	var skipped []domain.SkippedPage

	for _, pair := range plan.Pairs {
		if pair.Old == "" || pair.New == "" {
			rp, ok, err := globPair(plan, pair)
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				skipped = append(skipped, domain.SkippedPage{Page: pageName(pair), Reason: domain.SkipNoMatch})
				continue
			}
			resolved = append(resolved, rp)
			continue
		}
		resolved = append(resolved, explicitPair(plan, pair))
	}

	return resolved, skipped, nil
}

func (r *Glob) Resolve(plan domain.Plan) ([]domain.ResolvedPair, []domain.SkippedPage, error) {
	var resolved []domain.ResolvedPair
	var skipped []domain.SkippedPage

	for _, pair := range plan.Pairs {
		if pair.OldPattern == "" || pair.NewPattern == "" {
			resolved = append(resolved, explicitPair(plan, pair))
			continue
		}
		rp, ok, err := globPair(plan, pair)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			skipped = append(skipped, domain.SkippedPage{Page: pageName(pair), Reason: domain.SkipNoMatch})
			continue
		}
		resolved = append(resolved, rp)
	}

	return resolved, skipped, nil
}

func explicitPair(plan domain.Plan, pair domain.Pair) domain.ResolvedPair {
	return domain.ResolvedPair{
		Page:    pageName(pair),
		OldFile: resolvePath(plan.BaseDir, pair.Old),
		NewFile: resolvePath(plan.BaseDir, pair.New),
	}
}

// globPair returns ok=false when either side has no match.
func globPair(plan domain.Plan, pair domain.Pair) (domain.ResolvedPair, bool, error) {
	if plan.OldDir == "" || plan.NewDir == "" {
		return domain.ResolvedPair{}, false, fmt.Errorf("pair %q uses patterns but old_dir/new_dir are not set", pageName(pair))
	}

	oldFile, err := firstMatch(resolvePath(plan.BaseDir, plan.OldDir), pair.OldPattern)
	if err != nil {
		return domain.ResolvedPair{}, false, err
	}
	newFile, err := firstMatch(resolvePath(plan.BaseDir, plan.NewDir), pair.NewPattern)
	if err != nil {
		return domain.ResolvedPair{}, false, err
	}
	if oldFile == "" || newFile == "" {
		return domain.ResolvedPair{}, false, nil
	}

	return domain.ResolvedPair{Page: pageName(pair), OldFile: oldFile, NewFile: newFile}, true, nil
}

// firstMatch returns the lexically first "*<fragment>.json" file in dir,
// or "" when nothing matches.
func firstMatch(dir, fragment string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+escapeGlob(fragment)+".json"))
	if err != nil {
		return "", fmt.Errorf("matching %q in %s: %w", fragment, dir, err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Strings(matches)
	return matches[0], nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

func pageName(pair domain.Pair) string {
	if pair.Name != "" {
		return pair.Name
	}
	if pair.NewPattern != "" {
		return scoring.DisplayName(pair.NewPattern)
	}
	base := filepath.Base(pair.New)
	return scoring.DisplayName(strings.TrimSuffix(base, filepath.Ext(base)))
}
