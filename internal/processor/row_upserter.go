package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/mapper"
	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/Guizzs26/go-sync-baserow/pkg/metrics"
	"github.com/google/uuid"
)

// TableService is the row-level contract of the remote table service
type TableService interface {
	QueryRows(ctx context.Context, table models.TableHandle, filters []models.Filter, mode models.FilterMode) ([]models.RemoteRow, error)
	CreateRows(ctx context.Context, table models.TableHandle, payloads []models.Payload) ([]models.RemoteRow, error)
	UpdateRows(ctx context.Context, table models.TableHandle, payloads []models.Payload) error
}

// Retrier wraps a remote call in the transient-failure policy
type Retrier interface {
	Do(ctx context.Context, op string, fn func(ctx context.Context) error) error
}

// RowUpserter reconciles logical records into one remote table.
// Calls are independent: two concurrent upserts of the same primary key may
// both miss the lookup and both insert. Callers serialize per key if needed.
type RowUpserter struct {
	svc     TableService
	table   models.TableHandle
	mapper  *mapper.PayloadBuilder
	retrier Retrier
	logger  *slog.Logger
}

// NewRowUpserter creates an upserter bound to one table
func NewRowUpserter(svc TableService, table models.TableHandle, mapper *mapper.PayloadBuilder, retrier Retrier, logger *slog.Logger) *RowUpserter {
	return &RowUpserter{
		svc:     svc,
		table:   table,
		mapper:  mapper,
		retrier: retrier,
		logger:  logger,
	}
}

// Upsert creates or updates the row matching the record's primary key and
// returns its id
func (u *RowUpserter) Upsert(ctx context.Context, record models.Record, catalog *models.SchemaCatalog) (int64, error) {
	res, err := u.UpsertDetailed(ctx, record, catalog)
	if err != nil {
		return 0, err
	}
	return res.RowID, nil
}

// UpsertDetailed is Upsert that also reports whether the row was created or updated
func (u *RowUpserter) UpsertDetailed(ctx context.Context, record models.Record, catalog *models.SchemaCatalog) (res models.UpsertResult, err error) {
	start := time.Now()
	tableLabel := strconv.Itoa(u.table.ID)

	defer func() {
		status := string(res.Action)
		if err != nil {
			status = errorStatus(err)
		}
		metrics.UpsertDuration.WithLabelValues(status, string(res.Action), tableLabel).Observe(time.Since(start).Seconds())
		metrics.UpsertsTotal.WithLabelValues(status, tableLabel).Inc()
	}()

	l := u.logger.With(
		"correlation_id", uuid.NewString(),
		"table", u.table.ID,
	)

	primaries, err := u.checkPrimaries(record, catalog)
	if err != nil {
		l.Error("Rejected record: primary key", "error", err)
		return res, err
	}

	payload, err := u.mapper.Build(record, catalog)
	if err != nil {
		l.Error("Rejected record: payload", "error", err)
		return res, err
	}

	filters := make([]models.Filter, 0, len(primaries))
	for _, p := range primaries {
		v, ok := payload[p.Name]
		if !ok {
			v = record[p.Name]
		}
		filters = append(filters, models.Filter{Field: p.Name, Value: v})
	}
	l = l.With("primary", filterValues(filters))

	rowID, found, err := u.findRow(ctx, filters)
	if err != nil {
		l.Error("Row lookup failed", "error", err)
		return res, err
	}

	if !found {
		rowID, err = u.create(ctx, payload)
		if err != nil {
			l.Error("Row creation failed", "error", err)
			return res, err
		}
		res = models.UpsertResult{RowID: rowID, Action: models.ActionCreated}
	} else {
		if err = u.update(ctx, rowID, payload); err != nil {
			l.Error("Row update failed", "row_id", rowID, "error", err)
			return res, err
		}
		res = models.UpsertResult{RowID: rowID, Action: models.ActionUpdated}
	}

	l.Info("Row synchronized to Baserow",
		"row_id", res.RowID,
		"action", res.Action,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// checkPrimaries validates the primary columns before any network call
func (u *RowUpserter) checkPrimaries(record models.Record, catalog *models.SchemaCatalog) ([]models.FieldDefinition, error) {
	if catalog == nil {
		return nil, models.NewSchemaError("no schema catalog")
	}
	if catalog.TableID() != 0 && catalog.TableID() != u.table.ID {
		return nil, models.NewSchemaError(fmt.Sprintf("catalog of table %d used for table %d", catalog.TableID(), u.table.ID))
	}

	primaries := catalog.Primaries()
	if len(primaries) == 0 {
		return nil, models.NewSchemaError("no primary column")
	}

	for _, p := range primaries {
		if p.IsReadOnly {
			return nil, models.NewSchemaError(fmt.Sprintf("read-only primary: %s", p.Name))
		}
		if _, ok := record[p.Name]; !ok {
			return nil, models.NewSchemaError(fmt.Sprintf("missing primary value: %s", p.Name))
		}
	}
	return primaries, nil
}

// findRow returns the id of the single row matching the filters
func (u *RowUpserter) findRow(ctx context.Context, filters []models.Filter) (int64, bool, error) {
	var rows []models.RemoteRow
	err := u.retrier.Do(ctx, "lookup", func(ctx context.Context) error {
		var err error
		rows, err = u.svc.QueryRows(ctx, u.table, filters, models.FilterAnd)
		return err
	})
	if err != nil {
		return 0, false, err
	}

	switch len(rows) {
	case 0:
		return 0, false, nil
	case 1:
		return rows[0].ID, true, nil
	default:
		return 0, false, &models.IntegrityError{Reason: "ambiguous primary match", Matches: len(rows)}
	}
}

func (u *RowUpserter) create(ctx context.Context, payload models.Payload) (int64, error) {
	var created []models.RemoteRow
	err := u.retrier.Do(ctx, "create", func(ctx context.Context) error {
		var err error
		created, err = u.svc.CreateRows(ctx, u.table, []models.Payload{payload})
		return err
	})
	if err != nil {
		return 0, err
	}
	if len(created) == 0 {
		return 0, fmt.Errorf("create returned no rows")
	}
	return created[0].ID, nil
}

func (u *RowUpserter) update(ctx context.Context, rowID int64, payload models.Payload) error {
	withID := make(models.Payload, len(payload)+1)
	for k, v := range payload {
		withID[k] = v
	}
	withID["id"] = rowID

	return u.retrier.Do(ctx, "update", func(ctx context.Context) error {
		return u.svc.UpdateRows(ctx, u.table, []models.Payload{withID})
	})
}

func filterValues(filters []models.Filter) map[string]any {
	out := make(map[string]any, len(filters))
	for _, f := range filters {
		out[f.Field] = f.Value
	}
	return out
}

// errorStatus maps an error to its metric label
func errorStatus(err error) string {
	var (
		se  *models.SchemaError
		ve  *models.ValidationError
		ie  *models.IntegrityError
		tse *models.TransientServiceError
	)
	switch {
	case errors.As(err, &se):
		return "schema_error"
	case errors.As(err, &ve):
		return "validation_error"
	case errors.As(err, &ie):
		return "integrity_error"
	case errors.As(err, &tse):
		return "transient_error"
	default:
		return "error"
	}
}
