package baserow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/bytedance/sonic"
)

const lookupPageSize = 100

type filterDTO struct {
	Type  string `json:"type"`
	Field string `json:"field"`
	Value string `json:"value"`
}

type filterTreeDTO struct {
	FilterType string      `json:"filter_type"`
	Filters    []filterDTO `json:"filters"`
}

type rowListDTO struct {
	Count   int              `json:"count"`
	Results []map[string]any `json:"results"`
}

type batchDTO struct {
	Items []map[string]any `json:"items"`
}

// QueryRows returns the rows whose columns equal every (or any) filter value
func (c *Client) QueryRows(ctx context.Context, table models.TableHandle, filters []models.Filter, mode models.FilterMode) ([]models.RemoteRow, error) {
	if mode == "" {
		mode = models.FilterAnd
	}

	tree := filterTreeDTO{FilterType: string(mode), Filters: make([]filterDTO, 0, len(filters))}
	for _, f := range filters {
		tree.Filters = append(tree.Filters, filterDTO{Type: "equal", Field: f.Field, Value: filterValue(f.Value)})
	}
	encoded, err := sonic.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("query_rows: failed to encode filters: %w", err)
	}

	query := url.Values{}
	query.Set("user_field_names", "true")
	query.Set("size", strconv.Itoa(lookupPageSize))
	query.Set("filters", string(encoded))

	var list rowListDTO
	path := fmt.Sprintf("/api/database/rows/table/%d/", table.ID)
	if err := c.do(ctx, "query_rows", http.MethodGet, path, query, nil, &list); err != nil {
		return nil, err
	}

	return toRemoteRows(list.Results)
}

// CreateRows inserts the payloads and returns the created rows in order
func (c *Client) CreateRows(ctx context.Context, table models.TableHandle, payloads []models.Payload) ([]models.RemoteRow, error) {
	var out batchDTO
	if err := c.do(ctx, "create_rows", http.MethodPost, batchPath(table), batchQuery(), toBatch(payloads), &out); err != nil {
		return nil, err
	}
	return toRemoteRows(out.Items)
}

// UpdateRows patches existing rows; every payload carries its "id"
func (c *Client) UpdateRows(ctx context.Context, table models.TableHandle, payloads []models.Payload) error {
	for i, p := range payloads {
		if _, ok := p["id"]; !ok {
			return fmt.Errorf("update_rows: payload %d has no row id", i)
		}
	}
	return c.do(ctx, "update_rows", http.MethodPatch, batchPath(table), batchQuery(), toBatch(payloads), nil)
}

func batchPath(table models.TableHandle) string {
	return fmt.Sprintf("/api/database/rows/table/%d/batch/", table.ID)
}

func batchQuery() url.Values {
	q := url.Values{}
	q.Set("user_field_names", "true")
	return q
}

func toBatch(payloads []models.Payload) batchDTO {
	items := make([]map[string]any, len(payloads))
	for i, p := range payloads {
		items[i] = p
	}
	return batchDTO{Items: items}
}

func toRemoteRows(items []map[string]any) ([]models.RemoteRow, error) {
	rows := make([]models.RemoteRow, 0, len(items))
	for _, item := range items {
		id, err := rowID(item["id"])
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.RemoteRow{ID: id, Fields: item})
	}
	return rows, nil
}

func rowID(v any) (int64, error) {
	switch id := v.(type) {
	case float64:
		return int64(id), nil
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case string:
		return strconv.ParseInt(id, 10, 64)
	default:
		return 0, fmt.Errorf("row without numeric id: %v", v)
	}
}

// filterValue renders a wire value as the string Baserow filters expect
func filterValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []string:
		return strings.Join(val, ",")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
