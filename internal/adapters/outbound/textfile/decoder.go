package textfile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lhdiff/lhdiff/internal/domain"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Decoder implements domain.TextDecoder on top of golang.org/x/text.
type Decoder struct{}

// New returns a Decoder.
func New() *Decoder {
	return &Decoder{}
}

var aliases = map[string]string{
	"utf8":       "utf-8",
	"utf16":      "utf-16",
	"utf-16-le":  "utf-16le",
	"utf-16-be":  "utf-16be",
	"cp1252":     "windows-1252",
	"latin1":     "latin-1",
	"iso-8859-1": "latin-1",
}

// SupportedEncodings lists the canonical encoding names accepted by Decode.
var SupportedEncodings = []string{"utf-8", "utf-16", "utf-16le", "utf-16be", "windows-1252", "latin-1"}

// Canonical normalizes an encoding name, returning "" when unknown.
func Canonical(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[n]; ok {
		n = a
	}
	for _, s := range SupportedEncodings {
		if s == n {
			return n
		}
	}
	return ""
}

// Decode converts data from the named encoding to a Go string.
// utf-16 requires a byte order mark; utf-8 rejects invalid sequences.
func (d *Decoder) Decode(data []byte, name string) (string, error) {
	enc := Canonical(name)
	if enc == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownEncoding, name)
	}

	if enc == "utf-8" {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("utf-8: invalid byte sequence")
		}
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("utf-8: %w", err)
		}
		return string(out), nil
	}

	if enc == "utf-16" || enc == "utf-16le" || enc == "utf-16be" {
		if len(data)%2 != 0 {
			return "", fmt.Errorf("%s: truncated data (odd byte count %d)", enc, len(data))
		}
	}

	out, err := encodingFor(enc).NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", enc, err)
	}
	return string(out), nil
}

func encodingFor(name string) encoding.Encoding {
	switch name {
	case "utf-16":
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case "utf-16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case "utf-16be":
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case "windows-1252":
		return charmap.Windows1252
	default:
		return charmap.ISO8859_1
	}
}
