package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lhdiff/lhdiff/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the plan file looked up when a directory is given.
const FileName = ".lhdiff.yaml"

// YAMLLoader implements domain.PlanLoader by reading .lhdiff.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the plan at path. A directory path means path/.lhdiff.yaml.
// Relative pair paths and directories are later resolved against the
// plan file's directory.
func (l *YAMLLoader) Load(path string) (domain.Plan, error) {
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Plan{}, fmt.Errorf("%s: %w (run `lhdiff init` to create one)", path, domain.ErrPlanNotFound)
		}
		return domain.Plan{}, err
	}

	var plan domain.Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil && !errors.Is(err, io.EOF) {
		return domain.Plan{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	// Validate raw input before anything is derived from it.
	if err := plan.Validate(); err != nil {
		return domain.Plan{}, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	plan.BaseDir = filepath.Dir(absPath)

	return plan, nil
}

const header = `# lhdiff comparison plan
#
# pairs[].old / pairs[].new        explicit report paths (lhdiff compare)
# pairs[].old_pattern / new_pattern filename fragments matched as *<fragment>.json
#                                   inside old_dir / new_dir (lhdiff matrix)
# incomplete_rule                   zero | missing | off

`

// Marshal renders a plan as YAML with an explanatory header.
func Marshal(plan domain.Plan) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return nil, fmt.Errorf("encoding plan: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding plan: %w", err)
	}
	return buf.Bytes(), nil
}
