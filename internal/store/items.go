package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/stockroom/internal/apperr"
	"github.com/erazemk/stockroom/internal/db"
	"github.com/erazemk/stockroom/internal/metrics"
	"github.com/erazemk/stockroom/internal/model"
)

const itemColumns = `id, name, description, sku, asset_tag, location, quantity,
	acquisition_date, status, assigned_to, notes, created_at, updated_at`

// Items mediates all reads and writes of the items table. Storage failures
// are classified here into apperr codes.
type Items struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// NewItems returns a repository backed by database. m may be nil.
func NewItems(database *sql.DB, m *metrics.Metrics) *Items {
	return &Items{db: database, metrics: m}
}

// List returns every item in id order.
func (s *Items) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id`)
	if err != nil {
		return nil, s.fail("list", fmt.Errorf("listing items: %w", err))
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, s.fail("list", fmt.Errorf("scanning item: %w", err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list", fmt.Errorf("listing items: %w", err))
	}

	s.metrics.IncItemOperation("list", metrics.ResultOK)
	return items, nil
}

// Get returns an item by ID.
func (s *Items) Get(ctx context.Context, id int64) (*model.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.fail("get", apperr.New(apperr.CodeNotFound, "item not found"))
	}
	if err != nil {
		return nil, s.fail("get", fmt.Errorf("getting item: %w", err))
	}

	s.metrics.IncItemOperation("get", metrics.ResultOK)
	return &item, nil
}

// Create inserts a new item and returns it with its assigned ID.
func (s *Items) Create(ctx context.Context, in model.ItemInput) (*model.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO items (name, description, sku, asset_tag, location, quantity,
		                    acquisition_date, status, assigned_to, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+itemColumns,
		in.Name, nullString(in.Description), in.SKU, nullString(in.AssetTag), in.Location, in.Quantity,
		nullString(in.AcquisitionDate), string(in.Status), nullString(in.AssignedTo), nullString(in.Notes),
	)
	item, err := scanItem(row)
	if err != nil {
		return nil, s.fail("create", classifyWrite(err, "creating item"))
	}

	s.metrics.IncItemOperation("create", metrics.ResultOK)
	return &item, nil
}

// Update replaces every mutable field of the item with the given ID.
func (s *Items) Update(ctx context.Context, id int64, in model.ItemInput) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, sku = ?, asset_tag = ?, location = ?,
		                  quantity = ?, acquisition_date = ?, status = ?, assigned_to = ?,
		                  notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Name, nullString(in.Description), in.SKU, nullString(in.AssetTag), in.Location,
		in.Quantity, nullString(in.AcquisitionDate), string(in.Status), nullString(in.AssignedTo),
		nullString(in.Notes), id,
	)
	if err != nil {
		return s.fail("update", classifyWrite(err, "updating item"))
	}

	if err := expectOneRow(result, "updating item"); err != nil {
		return s.fail("update", err)
	}

	s.metrics.IncItemOperation("update", metrics.ResultOK)
	return nil
}

// Delete removes the item with the given ID. Deleting a missing item is a
// NotFound error, including a repeated delete.
func (s *Items) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return s.fail("delete", apperr.Wrap(apperr.CodeStorage, err, "deleting item"))
	}

	if err := expectOneRow(result, "deleting item"); err != nil {
		return s.fail("delete", err)
	}

	s.metrics.IncItemOperation("delete", metrics.ResultOK)
	return nil
}

// Stats summarizes item counts and quantities per status.
func (s *Items) Stats(ctx context.Context) (model.ItemStats, error) {
	stats := model.ItemStats{ByStatus: make(map[model.ItemStatus]int64, len(model.ItemStatuses))}
	for _, status := range model.ItemStatuses {
		stats.ByStatus[status] = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*), COALESCE(SUM(quantity), 0) FROM items GROUP BY status`,
	)
	if err != nil {
		return model.ItemStats{}, s.fail("stats", fmt.Errorf("summarizing items: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count, quantity int64
		if err := rows.Scan(&status, &count, &quantity); err != nil {
			return model.ItemStats{}, s.fail("stats", fmt.Errorf("scanning item stats: %w", err))
		}
		stats.ByStatus[model.ItemStatus(status)] = count
		stats.Items += count
		stats.Quantity += quantity
	}
	if err := rows.Err(); err != nil {
		return model.ItemStats{}, s.fail("stats", fmt.Errorf("summarizing items: %w", err))
	}

	s.metrics.IncItemOperation("stats", metrics.ResultOK)
	return stats, nil
}

// fail classifies err, records the outcome and returns an *apperr.Error.
func (s *Items) fail(op string, err error) error {
	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Wrap(apperr.CodeStorage, err, op+" failed")
	}

	result := metrics.ResultError
	switch typed.Code() {
	case apperr.CodeConflict:
		result = metrics.ResultConflict
	case apperr.CodeNotFound:
		result = metrics.ResultNotFound
	}
	s.metrics.IncItemOperation(op, result)

	return typed
}

func classifyWrite(err error, action string) error {
	switch {
	case db.IsUniqueViolation(err, "items.sku"):
		return apperr.Wrap(apperr.CodeConflict, err, "an item with this SKU already exists")
	case db.IsUniqueViolation(err, "items.asset_tag"):
		return apperr.Wrap(apperr.CodeConflict, err, "an item with this asset tag already exists")
	case db.IsUniqueViolation(err, ""):
		return apperr.Wrap(apperr.CodeConflict, err, "duplicate SKU or asset tag")
	}
	return apperr.Wrap(apperr.CodeStorage, err, action)
}

func expectOneRow(result sql.Result, action string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.CodeStorage, err, action)
	}
	if n == 0 {
		return apperr.New(apperr.CodeNotFound, "item not found")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (model.Item, error) {
	var item model.Item
	var description, assetTag, acquisitionDate, assignedTo, notes sql.NullString
	var status string
	err := row.Scan(&item.ID, &item.Name, &description, &item.SKU, &assetTag, &item.Location,
		&item.Quantity, &acquisitionDate, &status, &assignedTo, &notes,
		timestamp{&item.CreatedAt}, timestamp{&item.UpdatedAt})
	if err != nil {
		return model.Item{}, err
	}
	item.Description = description.String
	item.AssetTag = assetTag.String
	item.AcquisitionDate = acquisitionDate.String
	item.Status = model.ItemStatus(status)
	item.AssignedTo = assignedTo.String
	item.Notes = notes.String
	return item, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// timestamp scans SQLite DATETIME values, which the driver returns as
// time.Time or as text depending on whether the column type is known.
type timestamp struct {
	t *time.Time
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
}

func (ts timestamp) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*ts.t = time.Time{}
		return nil
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	}
	return fmt.Errorf("unsupported timestamp type %T", value)
}

func (ts timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*ts.t = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("parsing timestamp %q", s)
}
