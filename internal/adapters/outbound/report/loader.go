package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lhdiff/lhdiff/internal/domain"
)

// FileLoader implements domain.ReportLoader by reading JSON report files.
type FileLoader struct{}

// New creates a FileLoader.
func New() *FileLoader { return &FileLoader{} }

// Load reads and decodes the report at path. A report without a
// categories object is rejected with domain.ErrNoCategories.
func (l *FileLoader) Load(path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc.Categories == nil {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNoCategories)
	}

	return &doc, nil
}
