package productsync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"epos-sync/core/database"
	"epos-sync/feature/productsync/models"

	"gorm.io/gorm"
)

// ErrSchemaMismatch is returned when a table lacks columns the sync reads or writes.
var ErrSchemaMismatch = errors.New("database schema does not match")

// TableCheck is the preflight result of one table.
type TableCheck struct {
	Database string   `json:"database"`
	Table    string   `json:"table"`
	Missing  []string `json:"missing,omitempty"`
}

// SchemaReport lists the preflight result of every table the sync touches.
type SchemaReport struct {
	Tables []TableCheck `json:"tables"`
}

// OK reports whether no table is missing a column.
func (r *SchemaReport) OK() bool {
	for _, t := range r.Tables {
		if len(t.Missing) > 0 {
			return false
		}
	}
	return true
}

// Err returns ErrSchemaMismatch describing every missing column, or nil.
func (r *SchemaReport) Err() error {
	var problems []string
	for _, t := range r.Tables {
		if len(t.Missing) > 0 {
			problems = append(problems, fmt.Sprintf("%s.%s missing %s", t.Database, t.Table, strings.Join(t.Missing, ", ")))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.Join(problems, "; "))
}

// Preflight checks that the EPOS and storefront tables carry every column the sync uses.
// It returns an error only when a table cannot be inspected; missing columns are reported.
func Preflight(ctx context.Context, source, destination *gorm.DB) (*SchemaReport, error) {
	checks := []struct {
		db       *gorm.DB
		name     string
		table    string
		required []string
	}{
		{source, "source", models.SourceTable, models.SourceColumns},
		{destination, "destination", models.ProductTable, models.ProductColumns()},
		{destination, "destination", models.BrandTable, models.BrandColumns()},
		{destination, "destination", models.BrandLinkTable, models.BrandLinkColumns},
	}

	report := &SchemaReport{}
	for _, c := range checks {
		missing, err := database.MissingColumns(c.db.WithContext(ctx), c.table, c.required)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect %s table %s: %w", c.name, c.table, err)
		}
		report.Tables = append(report.Tables, TableCheck{
			Database: c.name,
			Table:    c.table,
			Missing:  missing,
		})
	}
	return report, nil
}
