// Package records reads logical records from JSON and CSV exports.
package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/Guizzs26/go-sync-baserow/pkg/encoding"
	"github.com/bytedance/sonic"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Read dispatches on format
func Read(r io.Reader, format, inputEncoding string) ([]models.Record, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		return ReadJSON(r)
	case FormatCSV:
		return ReadCSV(r, inputEncoding)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// ReadJSON accepts a single array of objects or a stream of objects (NDJSON)
func ReadJSON(r io.Reader) ([]models.Record, error) {
	dec := sonic.ConfigDefault.NewDecoder(r)

	var out []models.Record
	for i := 0; ; i++ {
		var v any
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("invalid JSON input at value %d: %w", i, err)
		}

		switch val := v.(type) {
		case []any:
			for j, item := range val {
				obj, ok := item.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("element %d is %T, expected an object", j, item)
				}
				out = append(out, models.Record(obj))
			}
		case map[string]any:
			out = append(out, models.Record(val))
		default:
			return nil, fmt.Errorf("value %d is %T, expected an object or array", i, v)
		}
	}
}

// ReadCSV reads a header row followed by data rows. Empty cells are omitted.
func ReadCSV(r io.Reader, inputEncoding string) ([]models.Record, error) {
	decoded, err := encoding.NewReader(r, inputEncoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(decoded)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var out []models.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		rec := make(models.Record, len(header))
		for i, cell := range row {
			if i >= len(header) || cell == "" {
				continue
			}
			rec[header[i]] = cell
		}
		out = append(out, rec)
	}
}
