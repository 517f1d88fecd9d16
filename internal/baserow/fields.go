package baserow

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
)

type selectOptionDTO struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
	Color string `json:"color"`
}

type fieldDTO struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Type            string            `json:"type"`
	Primary         bool              `json:"primary"`
	ReadOnly        bool              `json:"read_only"`
	SelectOptions   []selectOptionDTO `json:"select_options"`
	DateFormat      string            `json:"date_format"`
	DateIncludeTime bool              `json:"date_include_time"`
}

// GetTable checks that the table exists and caches its field list
func (c *Client) GetTable(ctx context.Context, id int) (models.TableHandle, error) {
	table := models.TableHandle{ID: id}
	if _, err := c.loadFields(ctx, table, true); err != nil {
		return models.TableHandle{}, err
	}
	return table, nil
}

// FieldNames lists the columns in table order
func (c *Client) FieldNames(ctx context.Context, table models.TableHandle) ([]string, error) {
	fields, err := c.loadFields(ctx, table, false)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names, nil
}

// FieldDefinition describes one column
func (c *Client) FieldDefinition(ctx context.Context, table models.TableHandle, name string) (models.FieldDefinition, error) {
	fields, err := c.loadFields(ctx, table, false)
	if err != nil {
		return models.FieldDefinition{}, err
	}
	for _, f := range fields {
		if f.Name == name {
			return f.toDefinition(), nil
		}
	}
	return models.FieldDefinition{}, fmt.Errorf("field %q not found in table %d", name, table.ID)
}

func (c *Client) loadFields(ctx context.Context, table models.TableHandle, refresh bool) ([]fieldDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if fields, ok := c.fields[table.ID]; ok && !refresh {
		return fields, nil
	}

	var fields []fieldDTO
	path := fmt.Sprintf("/api/database/fields/table/%d/", table.ID)
	if err := c.do(ctx, "list_fields", http.MethodGet, path, nil, nil, &fields); err != nil {
		var se *models.ServiceError
		if errors.As(err, &se) || models.IsTransient(err) {
			return nil, &models.ConnectionError{TableID: table.ID, Err: err}
		}
		return nil, err
	}

	c.fields[table.ID] = fields
	c.logger.Debug("Fetched table fields", "table", table.ID, "count", len(fields))
	return fields, nil
}

func (f fieldDTO) toDefinition() models.FieldDefinition {
	def := models.FieldDefinition{
		Name:       f.Name,
		Type:       mapFieldType(f.Type),
		IsPrimary:  f.Primary,
		IsReadOnly: f.ReadOnly,
	}

	switch def.Type {
	case models.FieldSingleSelect, models.FieldMultipleSelect:
		opts := make([]string, 0, len(f.SelectOptions))
		for _, o := range f.SelectOptions {
			opts = append(opts, o.Value)
		}
		def.Select = &models.SelectMeta{Options: opts}
	case models.FieldDate:
		def.Date = &models.DateMeta{
			IncludeTime: f.DateIncludeTime,
			Format:      models.DateFormat(f.DateFormat),
		}
	}
	return def
}

func mapFieldType(t string) models.FieldType {
	switch t {
	case "text", "long_text", "url", "email", "phone_number":
		return models.FieldText
	case "number", "rating", "count", "autonumber":
		return models.FieldNumber
	case "boolean":
		return models.FieldBoolean
	case "date":
		return models.FieldDate
	case "single_select":
		return models.FieldSingleSelect
	case "multiple_select":
		return models.FieldMultipleSelect
	default:
		return models.FieldOther
	}
}
