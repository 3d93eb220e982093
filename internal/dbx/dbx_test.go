package dbx

import (
	"context"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	if err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestDB_Columns(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE doc (id INTEGER PRIMARY KEY, title TEXT, body TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	cols, err := db.Columns(ctx, "", "doc")
	if err != nil {
		t.Fatalf("Columns failed: %v", err)
	}
	if len(cols) != 3 {
		t.Fatalf("expected 3 columns, got %d", len(cols))
	}
	if cols[0].Name != "id" || !cols[0].PrimaryKey {
		t.Errorf("expected id to be the primary key, got %+v", cols[0])
	}
	if cols[1].Name != "title" || cols[1].PrimaryKey {
		t.Errorf("unexpected second column: %+v", cols[1])
	}
}

func TestDB_PrimaryKey(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE doc (id INTEGER PRIMARY KEY, title TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	pk, err := db.PrimaryKey(ctx, "", "doc")
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if pk != "id" {
		t.Errorf("expected 'id', got %q", pk)
	}
}

func TestDB_PrimaryKey_FallbackToFirstColumn(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE nokey (code TEXT, title TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	pk, err := db.PrimaryKey(ctx, "", "nokey")
	if err != nil {
		t.Fatalf("PrimaryKey failed: %v", err)
	}
	if pk != "code" {
		t.Errorf("expected fallback to 'code', got %q", pk)
	}
}

func TestDB_PrimaryKey_MissingTable(t *testing.T) {
	db := newTestDB(t)

	_, err := db.PrimaryKey(context.Background(), "", "missing")
	if err == nil {
		t.Error("expected error for missing table")
	}
}

func TestDB_ColumnExists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE doc (id INTEGER PRIMARY KEY, title TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	exists, err := db.ColumnExists(ctx, "", "doc", "title")
	if err != nil {
		t.Fatalf("ColumnExists failed: %v", err)
	}
	if !exists {
		t.Error("expected title to exist")
	}

	exists, err = db.ColumnExists(ctx, "", "doc", "title_de")
	if err != nil {
		t.Fatalf("ColumnExists failed: %v", err)
	}
	if exists {
		t.Error("expected title_de to not exist")
	}
}

func TestDB_AddColumn(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE doc (id INTEGER PRIMARY KEY, title TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	if _, err := db.ExecContext(ctx, db.Dialect().AddColumnSQL("doc", "title_de")); err != nil {
		t.Fatalf("AddColumnSQL exec failed: %v", err)
	}

	exists, err := db.ColumnExists(ctx, "", "doc", "title_de")
	if err != nil {
		t.Fatalf("ColumnExists failed: %v", err)
	}
	if !exists {
		t.Error("expected title_de to exist after DDL")
	}
}

func TestDB_Tables(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, stmt := range []string{
		`CREATE TABLE fa_document (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE fa_document_extra (id INTEGER PRIMARY KEY)`,
		`CREATE TABLE unrelated (id INTEGER PRIMARY KEY)`,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to create table: %v", err)
		}
	}

	tables, err := db.Tables(ctx, "", "fa_document")
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("expected 2 tables, got %d: %v", len(tables), tables)
	}
	if tables[0] != "fa_document" || tables[1] != "fa_document_extra" {
		t.Errorf("unexpected tables: %v", tables)
	}
}

func TestQuoteIdent(t *testing.T) {
	cases := []struct {
		dialect Dialect
		in      string
		want    string
	}{
		{sqliteDialect{}, "title", `"title"`},
		{sqliteDialect{}, `we"ird`, `"we""ird"`},
		{mysqlDialect{}, "title", "`title`"},
		{mysqlDialect{}, "we`ird", "`we``ird`"},
		{postgresDialect{}, "title", `"title"`},
	}

	for _, tc := range cases {
		if got := tc.dialect.QuoteIdent(tc.in); got != tc.want {
			t.Errorf("%s.QuoteIdent(%q): expected %s, got %s", tc.dialect.Name(), tc.in, tc.want, got)
		}
	}
}

func TestAddColumnSQL(t *testing.T) {
	if got := (mysqlDialect{}).AddColumnSQL("doc", "title_de"); got != "ALTER TABLE `doc` ADD COLUMN `title_de` LONGTEXT NULL" {
		t.Errorf("unexpected mysql DDL: %s", got)
	}
	if got := (postgresDialect{}).AddColumnSQL("doc", "title_de"); got != `ALTER TABLE "doc" ADD COLUMN "title_de" TEXT NULL` {
		t.Errorf("unexpected postgres DDL: %s", got)
	}
}
