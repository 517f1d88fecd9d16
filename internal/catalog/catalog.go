// Package catalog builds SchemaCatalog snapshots from the remote table service
// and persists them so later runs can skip the schema fetch.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/Guizzs26/go-sync-baserow/pkg/metrics"
	"gopkg.in/yaml.v3"
)

// SchemaSource is the read side of the table service used to describe columns
type SchemaSource interface {
	FieldNames(ctx context.Context, table models.TableHandle) ([]string, error)
	FieldDefinition(ctx context.Context, table models.TableHandle, name string) (models.FieldDefinition, error)
}

// Fetch describes every column of table. Service failures are reported as
// *models.ConnectionError; structural problems as *models.SchemaError.
func Fetch(ctx context.Context, src SchemaSource, table models.TableHandle) (cat *models.SchemaCatalog, err error) {
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.SchemaFetches.WithLabelValues(status).Inc()
	}()

	names, err := src.FieldNames(ctx, table)
	if err != nil {
		return nil, asConnectionError(table, err)
	}

	fields := make([]models.FieldDefinition, 0, len(names))
	for _, name := range names {
		def, err := src.FieldDefinition(ctx, table, name)
		if err != nil {
			return nil, asConnectionError(table, fmt.Errorf("field %s: %w", name, err))
		}
		fields = append(fields, def)
	}

	return models.NewSchemaCatalog(table.ID, fields)
}

func asConnectionError(table models.TableHandle, err error) error {
	var ce *models.ConnectionError
	if errors.As(err, &ce) {
		return err
	}
	return &models.ConnectionError{TableID: table.ID, Err: err}
}

type snapshot struct {
	TableID   int                      `yaml:"table_id"`
	FetchedAt time.Time                `yaml:"fetched_at"`
	Fields    []models.FieldDefinition `yaml:"fields"`
}

// Save writes the catalog as YAML
func Save(w io.Writer, cat *models.SchemaCatalog) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	s := snapshot{
		TableID:   cat.TableID(),
		FetchedAt: time.Now().UTC().Truncate(time.Second),
		Fields:    cat.Fields(),
	}
	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("failed to encode schema snapshot: %w", err)
	}
	return enc.Close()
}

// SaveFile writes the catalog to path
func SaveFile(path string, cat *models.SchemaCatalog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create schema file: %w", err)
	}
	if err := Save(f, cat); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a snapshot written by Save and re-validates it
func Load(r io.Reader) (*models.SchemaCatalog, error) {
	var s snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode schema snapshot: %w", err)
	}
	return models.NewSchemaCatalog(s.TableID, s.Fields)
}

// LoadFile reads a snapshot from path
func LoadFile(path string) (*models.SchemaCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
