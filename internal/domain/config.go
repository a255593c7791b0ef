package domain

import (
	"errors"
	"fmt"
)

// IncompleteRule decides when a matrix pair is treated as an incomplete audit.
type IncompleteRule string

const (
	// IncompleteZero skips a pair when best-practices or seo reads exactly 0.
	// A real score of 0 is indistinguishable from missing data under this rule.
	IncompleteZero IncompleteRule = "zero"
	// IncompleteMissing skips a pair when best-practices or seo is absent or null.
	IncompleteMissing IncompleteRule = "missing"
	// IncompleteOff never skips.
	IncompleteOff IncompleteRule = "off"
)

// ValidIncompleteRules enumerates all recognized incomplete rules.
var ValidIncompleteRules = []IncompleteRule{IncompleteZero, IncompleteMissing, IncompleteOff}

// Default thresholds.
const (
	DefaultStableThreshold      = 2.0
	DefaultSignificantThreshold = 5.0
)

var (
	ErrPlanNotFound     = errors.New("plan file not found")
	ErrNoCategories     = errors.New("report has no categories object")
	ErrUnknownEncoding  = errors.New("unknown text encoding")
	ErrNoEncodingWorked = errors.New("no encoding could decode the file")
)

// Thresholds are the static bands used by classification and verdicts.
type Thresholds struct {
	Stable      float64 `yaml:"stable"      json:"stable"`
	Significant float64 `yaml:"significant" json:"significant"`
}

// DefaultThresholds returns the +/-2 stable band and +/-5 significance band.
func DefaultThresholds() Thresholds {
	return Thresholds{Stable: DefaultStableThreshold, Significant: DefaultSignificantThreshold}
}

// Plan holds the comparison configuration loaded from .lhdiff.yaml.
type Plan struct {
	OldDir         string         `yaml:"old_dir,omitempty"         json:"old_dir,omitempty"`
	NewDir         string         `yaml:"new_dir,omitempty"         json:"new_dir,omitempty"`
	IncompleteRule IncompleteRule `yaml:"incomplete_rule,omitempty" json:"incomplete_rule,omitempty"`
	Thresholds     *Thresholds    `yaml:"thresholds,omitempty"      json:"thresholds,omitempty"`
	Pairs          []Pair         `yaml:"pairs"                     json:"pairs"`

	// BaseDir is the directory relative paths are resolved against.
	BaseDir string `yaml:"-" json:"base_dir,omitempty"`
}

// EffectiveThresholds returns the configured thresholds or the defaults.
func (p Plan) EffectiveThresholds() Thresholds {
	if p.Thresholds == nil {
		return DefaultThresholds()
	}
	return *p.Thresholds
}

// EffectiveIncompleteRule returns the configured rule, defaulting to IncompleteZero.
func (p Plan) EffectiveIncompleteRule() IncompleteRule {
	if p.IncompleteRule == "" {
		return IncompleteZero
	}
	return p.IncompleteRule
}

// DefaultPlan returns the starter plan written by `lhdiff init`.
func DefaultPlan() Plan {
	return Plan{
		OldDir:         "before",
		NewDir:         "after",
		IncompleteRule: IncompleteZero,
		Thresholds:     &Thresholds{Stable: DefaultStableThreshold, Significant: DefaultSignificantThreshold},
		Pairs: []Pair{
			{
				Name:       "Homepage",
				Old:        "before/homepage-mobile.json",
				New:        "after/homepage2.json",
				OldPattern: "homepage-mobile",
				NewPattern: "homepage2",
			},
			{
				Name:       "Dashboard",
				Old:        "before/dashboard-mobile.json",
				New:        "after/dashboard2.json",
				OldPattern: "dashboard-mobile",
				NewPattern: "dashboard2",
			},
		},
	}
}

// Validate checks the plan for invalid values and returns a descriptive error.
func (p Plan) Validate() error {
	if p.IncompleteRule != "" && !isValidIncompleteRule(p.IncompleteRule) {
		return fmt.Errorf("unknown incomplete_rule %q (valid: zero, missing, off)", p.IncompleteRule)
	}

	if p.Thresholds != nil {
		t := *p.Thresholds
		if t.Stable < 0 {
			return fmt.Errorf("thresholds.stable must be >= 0 (got %.2f)", t.Stable)
		}
		if t.Significant < t.Stable {
			return fmt.Errorf("thresholds.significant (%.2f) must be >= thresholds.stable (%.2f)", t.Significant, t.Stable)
		}
	}

	seen := make(map[string]bool, len(p.Pairs))
	for i, pair := range p.Pairs {
		hasPaths := pair.Old != "" && pair.New != ""
		hasPatterns := pair.OldPattern != "" && pair.NewPattern != ""
		if !hasPaths && !hasPatterns {
			return fmt.Errorf("pairs[%d] needs old/new paths or old_pattern/new_pattern", i)
		}
		if pair.Name == "" {
			continue
		}
		if seen[pair.Name] {
			return fmt.Errorf("duplicate pair name %q", pair.Name)
		}
		seen[pair.Name] = true
	}

	return nil
}

func isValidIncompleteRule(r IncompleteRule) bool {
	for _, v := range ValidIncompleteRules {
		if v == r {
			return true
		}
	}
	return false
}

// IsValidMode reports whether m is a known run mode.
func IsValidMode(m Mode) bool {
	for _, v := range ValidModes {
		if v == m {
			return true
		}
	}
	return false
}
