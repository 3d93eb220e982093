// Package updater walks the selected (table, column) pairs and translates
// every pending row, committing once per page so an interrupted run can be
// restarted without re-translating or corrupting finished rows. A row is
// pending while its source column has content and its destination column is
// still empty; a successful write removes it from that set, so the pending
// predicate itself is the resume point.
package updater

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Jiangshanshi5/TranslateMode/internal/dbx"
	"github.com/Jiangshanshi5/TranslateMode/internal/markup"
	"github.com/Jiangshanshi5/TranslateMode/internal/translator"
)

// DefaultPageSize is the number of rows fetched and committed together.
const DefaultPageSize = 10

// Stats counts the outcome of one (table, column) pass.
type Stats struct {
	Total int `json:"total"`
	OK    int `json:"ok"`
	Fail  int `json:"fail"`
}

// Summary maps table → column → outcome counters for one run. It is rebuilt
// from scratch every run and never persisted.
type Summary map[string]map[string]*Stats

// Options configure a run.
type Options struct {
	// Schema is the database/schema name for introspection; empty means the
	// connection's current one.
	Schema string
	// TargetLang is the destination language code; it also names the
	// destination column (<column>_<lang>).
	TargetLang string
	PageSize   int
	// OverwriteSource replaces the source column with the translated text in
	// the same statement that fills the destination column. When unset only
	// the destination column is written and the original text stays in place.
	OverwriteSource bool
	// Progress, when non-nil, is called after each committed page with the
	// number of rows handled so far and the total pending count.
	Progress func(table, column string, done, total int)
}

// Row is one pending row: its primary-key value and current source text.
type Row struct {
	Key    any
	Source string
}

// Updater runs the translation pass. It is single-threaded by design: one
// writer, sequential pages, no shared state between runs.
type Updater struct {
	db   *dbx.DB
	svc  translator.Batcher
	opts Options
}

func New(db *dbx.DB, svc translator.Batcher, opts Options) *Updater {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Updater{db: db, svc: svc, opts: opts}
}

// EnsureDestinationColumn adds the destination column if it does not exist
// yet. Safe to call on every run: when the column is present no DDL is issued.
func (u *Updater) EnsureDestinationColumn(ctx context.Context, table, destColumn string) error {
	exists, err := u.db.ColumnExists(ctx, u.opts.Schema, table, destColumn)
	if err != nil {
		return fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	if exists {
		return nil
	}

	if _, err := u.db.ExecContext(ctx, u.db.Dialect().AddColumnSQL(table, destColumn)); err != nil {
		return fmt.Errorf("failed to add column %s to table %s: %w", destColumn, table, err)
	}
	fmt.Fprintf(os.Stderr, "created column %s on table %s\n", destColumn, table)
	return nil
}

// pendingWhere is the filter shared by CountPending and FetchPendingPage:
// source has content, destination does not.
func (u *Updater) pendingWhere(column, destColumn string) sq.Sqlizer {
	q := u.db.Dialect().QuoteIdent
	return sq.And{
		sq.Expr(q(column) + " IS NOT NULL"),
		sq.Expr(q(column) + " <> ''"),
		sq.Or{
			sq.Expr(q(destColumn) + " IS NULL"),
			sq.Expr(q(destColumn) + " = ''"),
		},
	}
}

// CountPending returns the number of rows still needing translation for the
// given column pair. The count is authoritative for the run's ledger total
// and the pagination bound; there must be no concurrent writer.
func (u *Updater) CountPending(ctx context.Context, table, column, destColumn string) (int, error) {
	query, args, err := u.db.Builder().
		Select("COUNT(*)").
		From(u.db.Dialect().QuoteIdent(table)).
		Where(u.pendingWhere(column, destColumn)).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	if err := u.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// FetchPendingPage retrieves one page of pending rows.
func (u *Updater) FetchPendingPage(ctx context.Context, table, column, destColumn, pk string, limit, offset int) ([]Row, error) {
	q := u.db.Dialect().QuoteIdent
	query, args, err := u.db.Builder().
		Select(q(pk), q(column)).
		From(q(table)).
		Where(u.pendingWhere(column, destColumn)).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := u.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var src sql.NullString
		if err := rows.Scan(&r.Key, &src); err != nil {
			return nil, err
		}
		r.Source = src.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// translateRow picks HTML-aware or plain translation based on the source
// text. An empty return value means the row failed and must not be written.
func (u *Updater) translateRow(ctx context.Context, text string) string {
	if markup.IsHTML(text) {
		out, err := translator.TranslateHTML(ctx, u.svc, text, u.opts.TargetLang)
		if err != nil {
			fmt.Fprintf(os.Stderr, "html translation failed: %v\n", err)
			return ""
		}
		return out
	}

	res := u.svc.TranslateBatch(ctx, []string{text}, u.opts.TargetLang)
	if len(res) == 0 {
		return ""
	}
	return res[0]
}

// processPage translates and writes back one page inside a single
// transaction. Row-level failures (empty translation, write error) are
// counted and skipped; the commit at the end finalizes every successful row
// of the page together. Outcomes are folded into the ledger only after the
// commit succeeds, so a failed commit never reports rows that were rolled
// back. Only transaction begin/commit errors propagate.
func (u *Updater) processPage(ctx context.Context, table, column, destColumn, pk string, rows []Row, stats *Stats) error {
	q := u.db.Dialect().QuoteIdent

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	ok, fail := 0, 0
	for _, row := range rows {
		translated := u.translateRow(ctx, row.Source)
		if strings.TrimSpace(translated) == "" {
			fmt.Fprintf(os.Stderr, "translation failed, skipping row %v\n", row.Key)
			fail++
			continue
		}

		update := u.db.Builder().
			Update(q(table)).
			Set(q(destColumn), translated)
		if u.opts.OverwriteSource {
			update = update.Set(q(column), translated)
		}
		query, args, err := update.Where(sq.Eq{q(pk): row.Key}).ToSql()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build update for row %v: %v\n", row.Key, err)
			fail++
			continue
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			fmt.Fprintf(os.Stderr, "update failed for row %v: %v\n", row.Key, err)
			fail++
			continue
		}
		ok++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit page: %w", err)
	}
	stats.OK += ok
	stats.Fail += fail
	return nil
}

// Run executes the pipeline over every selected (table, column) pair and
// returns the per-column ledger. Tables without a resolvable primary key are
// skipped with a diagnostic; a destination-column DDL failure aborts the run
// since every later query assumes the column exists.
func (u *Updater) Run(ctx context.Context, selections map[string][]string) (Summary, error) {
	summary := make(Summary)

	tables := make([]string, 0, len(selections))
	for table := range selections {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		columns := selections[table]
		if len(columns) == 0 {
			continue
		}

		pk, err := u.db.PrimaryKey(ctx, u.opts.Schema, table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot determine primary key for table %s, skipping: %v\n", table, err)
			continue
		}

		summary[table] = make(map[string]*Stats)

		for _, column := range columns {
			destColumn := fmt.Sprintf("%s_%s", column, u.opts.TargetLang)

			if err := u.EnsureDestinationColumn(ctx, table, destColumn); err != nil {
				return summary, err
			}

			total, err := u.CountPending(ctx, table, column, destColumn)
			if err != nil {
				return summary, fmt.Errorf("failed to count pending rows for %s.%s: %w", table, column, err)
			}

			fmt.Fprintf(os.Stderr, "table %s column %s: %d rows to translate\n", table, column, total)
			stats := &Stats{Total: total}
			summary[table][column] = stats

			// The offset advances by a full page even when successes shrink
			// the pending set underneath it. Rows skipped by that shrinkage
			// still match the pending predicate and are picked up by the
			// next run, which recounts and re-pages from zero.
			for offset := 0; offset < total; offset += u.opts.PageSize {
				rows, err := u.FetchPendingPage(ctx, table, column, destColumn, pk, u.opts.PageSize, offset)
				if err != nil {
					return summary, fmt.Errorf("failed to fetch page for %s.%s: %w", table, column, err)
				}
				if len(rows) == 0 {
					break
				}

				if err := u.processPage(ctx, table, column, destColumn, pk, rows, stats); err != nil {
					return summary, err
				}

				if u.opts.Progress != nil {
					done := offset + u.opts.PageSize
					if done > total {
						done = total
					}
					u.opts.Progress(table, column, done, total)
				}
			}
		}
	}

	return summary, nil
}
