// Package store provides the SQLite-backed billing warehouse: the only
// component that touches cost data at rest.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Warehouse answers declarative data requests over billing records.
// Costs are stored as decimal text and parsed back through Money, so
// sums never pass through floats.
type Warehouse struct {
	db *sql.DB
}

// Open opens or creates the warehouse database at the given path.
func Open(dbPath string) (*Warehouse, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating warehouse dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening warehouse db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Warehouse{db: db}, nil
}

// Close closes the warehouse database.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// Insert upserts a batch of billing records in one transaction. A
// record re-imported for the same month/project/service replaces the
// previous row.
func (w *Warehouse) Insert(ctx context.Context, records []model.BillingRecord) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO billing_records
		(invoice_month, project, service, cost, currency)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.Month.Compact(), r.Project, r.Service, r.Cost.String(), r.Currency,
		); err != nil {
			return fmt.Errorf("inserting record %s/%s/%s: %w", r.Month, r.Project, r.Service, err)
		}
	}

	return tx.Commit()
}

// Execute serves one data request. Rows come back raw; the routines
// aggregate them. An empty result is valid data, a query failure wraps
// model.ErrDataUnavailable.
func (w *Warehouse) Execute(ctx context.Context, req model.DataRequest) ([]model.BillingRecord, error) {
	query, args := buildQuery(req)

	rows, err := w.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDataUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.BillingRecord
	for rows.Next() {
		var monthStr, project, service, costStr, currency string
		if err := rows.Scan(&monthStr, &project, &service, &costStr, &currency); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrDataUnavailable, err)
		}
		month, err := model.ParsePeriod(monthStr)
		if err != nil {
			return nil, fmt.Errorf("%w: bad month %q", model.ErrDataUnavailable, monthStr)
		}
		cost, err := model.NewMoney(costStr)
		if err != nil {
			return nil, fmt.Errorf("%w: bad cost %q", model.ErrDataUnavailable, costStr)
		}
		out = append(out, model.BillingRecord{
			Month:    month,
			Project:  project,
			Service:  service,
			Cost:     cost,
			Currency: currency,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDataUnavailable, err)
	}
	return out, nil
}

// Months returns the distinct invoice months present, oldest first.
func (w *Warehouse) Months(ctx context.Context) ([]model.Period, error) {
	rows, err := w.db.QueryContext(ctx,
		"SELECT DISTINCT invoice_month FROM billing_records ORDER BY invoice_month")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDataUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Period
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrDataUnavailable, err)
		}
		p, err := model.ParsePeriod(s)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// buildQuery compiles a DataRequest into SQL. No GROUP BY or SUM is
// emitted: costs are decimal text, so summation happens in Go where it
// stays exact. Grouped requests just blank the identity column the
// caller will not group on; project filters match ids exactly, service
// filters by case-insensitive substring ("storage" matches
// "Cloud Storage").
func buildQuery(req model.DataRequest) (string, []any) {
	var b strings.Builder
	var args []any

	groupCols := "invoice_month, project, service"
	switch req.GroupBy {
	case model.DimensionProject:
		groupCols = "invoice_month, project, '' AS service"
	case model.DimensionService:
		groupCols = "invoice_month, '' AS project, service"
	}

	b.WriteString("SELECT ")
	b.WriteString(groupCols)
	b.WriteString(", cost, currency FROM billing_records WHERE invoice_month >= ? AND invoice_month <= ?")
	args = append(args, req.Start.Compact(), req.End.Compact())

	if len(req.Projects) > 0 {
		b.WriteString(" AND project IN (" + placeholders(len(req.Projects)) + ")")
		for _, p := range req.Projects {
			args = append(args, p)
		}
	}
	if len(req.Services) > 0 {
		clauses := make([]string, len(req.Services))
		for i, s := range req.Services {
			clauses[i] = "instr(lower(service), ?) > 0"
			args = append(args, strings.ToLower(s))
		}
		b.WriteString(" AND (" + strings.Join(clauses, " OR ") + ")")
	}

	b.WriteString(" ORDER BY invoice_month")
	return b.String(), args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
