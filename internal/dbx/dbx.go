// Package dbx wraps database/sql with the dialect knowledge the pipeline
// needs: identifier quoting, schema introspection, additive column DDL and
// the placeholder format for built statements. The pipeline itself never
// depends on a specific driver; drivers are blank-imported by the caller and
// selected by name at open time.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Column describes one column of a table.
type Column struct {
	Name       string
	DataType   string
	PrimaryKey bool
}

// Dialect abstracts the engine-specific parts of the pipeline's SQL surface.
type Dialect interface {
	Name() string
	QuoteIdent(name string) string
	Placeholders() sq.PlaceholderFormat
	// Tables lists table names matching the given prefix pattern.
	Tables(ctx context.Context, db *sql.DB, schema, pattern string) ([]string, error)
	// Columns lists a table's columns in ordinal order.
	Columns(ctx context.Context, db *sql.DB, schema, table string) ([]Column, error)
	// AddColumnSQL returns the additive nullable large-text DDL statement.
	AddColumnSQL(table, column string) string
}

var dialects = map[string]Dialect{
	"sqlite":   sqliteDialect{},
	"mysql":    mysqlDialect{},
	"postgres": postgresDialect{},
}

// SupportedDrivers returns the registered driver names, sorted.
func SupportedDrivers() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DB is a database handle paired with its dialect.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Open opens a connection for one of the supported drivers. The driver name
// doubles as the database/sql driver name; the corresponding driver package
// must have been imported by the caller.
func Open(driver, dsn string) (*DB, error) {
	dialect, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported driver %q (supported: %s)",
			driver, strings.Join(SupportedDrivers(), ", "))
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &DB{DB: db, dialect: dialect}, nil
}

func (d *DB) Dialect() Dialect { return d.dialect }

// Builder returns a squirrel statement builder using the dialect's
// placeholder format.
func (d *DB) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.dialect.Placeholders())
}

func (d *DB) Tables(ctx context.Context, schema, pattern string) ([]string, error) {
	return d.dialect.Tables(ctx, d.DB, schema, pattern)
}

func (d *DB) Columns(ctx context.Context, schema, table string) ([]Column, error) {
	return d.dialect.Columns(ctx, d.DB, schema, table)
}

// ColumnExists reports whether table has a column with the given name.
func (d *DB) ColumnExists(ctx context.Context, schema, table, column string) (bool, error) {
	cols, err := d.Columns(ctx, schema, table)
	if err != nil {
		return false, err
	}
	for _, c := range cols {
		if c.Name == column {
			return true, nil
		}
	}
	return false, nil
}

// PrimaryKey returns the table's declared primary-key column, falling back to
// the first column when none is declared. A table with no columns at all
// yields an error, since row identity cannot be established.
func (d *DB) PrimaryKey(ctx context.Context, schema, table string) (string, error) {
	cols, err := d.Columns(ctx, schema, table)
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("table %s has no columns", table)
	}
	for _, c := range cols {
		if c.PrimaryKey {
			return c.Name, nil
		}
	}
	return cols[0].Name, nil
}
