package application

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/lhdiff/lhdiff/internal/domain"
	"go.uber.org/zap"
)

// DefaultEncodings is the fallback order used when none is configured.
var DefaultEncodings = []string{"utf-16", "utf-8"}

// DumpResult is the decoded content of a file and the encoding that worked.
type DumpResult struct {
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
	Text     string `json:"text"`
}

// DumpService reads generated text files whose encoding is not known up front.
type DumpService struct {
	decoder domain.TextDecoder
	logger  *zap.Logger
}

func NewDumpService(decoder domain.TextDecoder, logger *zap.Logger) *DumpService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DumpService{decoder: decoder, logger: logger}
}

// Dump decodes path with the first encoding that succeeds. When every
// encoding fails the error lists each failure.
func (s *DumpService) Dump(path string, encodings []string) (*DumpResult, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var failures []string
	for _, enc := range encodings {
		text, err := s.decoder.Decode(data, enc)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownEncoding) {
				return nil, err
			}
			s.logger.Debug("decode failed", zap.String("path", path), zap.String("encoding", enc), zap.Error(err))
			failures = append(failures, err.Error())
			continue
		}
		s.logger.Debug("decoded", zap.String("path", path), zap.String("encoding", enc))
		return &DumpResult{Path: path, Encoding: enc, Text: text}, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrNoEncodingWorked, strings.Join(failures, "; "))
}
