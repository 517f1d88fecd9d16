package encoding

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	UTF8    = "utf8"
	Win1252 = "win1252"
)

// NewReader wraps r so that it yields UTF-8. Spreadsheet exports from legacy
// Windows tools are commonly Windows-1252.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "-", "")) {
	case "", UTF8:
		return r, nil
	case Win1252, "windows1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported input encoding: %s", name)
	}
}

// ToUTF8 converts a slice of bytes (WIN1252) to a UTF-8 string
func ToUTF8(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		// Fallback: return raw string if decoding fails
		return string(b)
	}

	return strings.TrimSpace(string(decoded))
}
