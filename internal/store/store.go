// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists papers in a local SQLite database keyed by
// abs-page URL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

const (
	dateFormat = "2006-01-02"
	timeFormat = "2006-01-02 15:04:05"
)

// ErrUnresolvedPaper reports an attempt to persist a paper whose
// announcement date was never assigned. This is a caller bug: papers must
// pass through announcement resolution before they reach the store.
var ErrUnresolvedPaper = errors.New("paper has no announcement date")

// ErrEmptyStore reports a query that needs at least one stored paper.
var ErrEmptyStore = errors.New("store contains no papers")

// Store manages the papers SQLite database. A single Store serializes all
// access for the process; batch writes are one transaction each.
type Store struct {
	db *sql.DB
}

// Open opens or creates the papers database at cfg.Path and ensures the
// schema exists.
func Open(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			url TEXT PRIMARY KEY,
			authors TEXT NOT NULL,
			title_translated TEXT,
			first_submitted_date DATE NOT NULL,
			first_announced_date DATE NOT NULL,
			update_time DATETIME NOT NULL,
			categories TEXT NOT NULL,
			title TEXT NOT NULL,
			comments TEXT NOT NULL,
			abstract TEXT NOT NULL,
			abstract_translated TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_announced ON papers(first_announced_date)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// paperColumns is the scan order shared by every SELECT that returns
// whole papers.
const paperColumns = `url, title, abstract, authors, categories, comments,
	first_submitted_date, first_announced_date, title_translated, abstract_translated`

// Upsert writes papers in one transaction, replacing any existing row with
// the same URL. Every paper must carry an announcement date; a violation
// returns ErrUnresolvedPaper before anything is written. update_time is
// set to the current UTC time for every written row.
func (s *Store) Upsert(ctx context.Context, papers []types.Paper) error {
	for _, p := range papers {
		if p.FirstAnnouncedDate.IsZero() {
			return fmt.Errorf("%w: %s", ErrUnresolvedPaper, p.URL)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO papers
		(url, title, abstract, authors, categories, comments,
		 first_submitted_date, first_announced_date,
		 title_translated, abstract_translated, update_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(timeFormat)
	for _, p := range papers {
		_, err := stmt.ExecContext(ctx,
			p.URL, p.Title, p.Abstract, p.Authors,
			strings.Join(p.Categories, ","), p.Comments,
			p.FirstSubmittedDate.Format(dateFormat),
			p.FirstAnnouncedDate.Format(dateFormat),
			nullable(p.TitleTranslated), nullable(p.AbstractTranslated),
			now,
		)
		if err != nil {
			return fmt.Errorf("inserting paper %s: %w", p.URL, err)
		}
	}

	return tx.Commit()
}

// CountNew walks papers in their given order and counts how many are
// absent from the store, stopping at the first URL already present. With
// newest-first input the count is the length of the unseen prefix, which
// is what the incremental walk uses to decide whether a page crossed into
// known territory.
func (s *Store) CountNew(ctx context.Context, papers []types.Paper) (int, error) {
	cnt := 0
	for _, p := range papers {
		var one int
		err := s.db.QueryRowContext(ctx,
			`SELECT 1 FROM papers WHERE url = ?`, p.URL,
		).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			cnt++
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("checking paper %s: %w", p.URL, err)
		}
		break
	}
	return cnt, nil
}

// PapersOn returns all papers announced on the given date.
func (s *Store) PapersOn(ctx context.Context, date time.Time) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE first_announced_date = ? ORDER BY url`,
		date.Format(dateFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("querying papers on %s: %w", date.Format(dateFormat), err)
	}
	defer rows.Close()
	return scanPapers(rows)
}

// All returns every stored paper.
func (s *Store) All(ctx context.Context) ([]types.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paperColumns+` FROM papers ORDER BY url DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying all papers: %w", err)
	}
	defer rows.Close()
	return scanPapers(rows)
}

// NewestUpdateTime returns the most recent crawl time among the papers
// carrying the newest announcement date. Older dates are ignored: backfill
// runs may touch past announcement days without moving the incremental
// anchor forward.
func (s *Store) NewestUpdateTime(ctx context.Context) (time.Time, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(update_time) FROM papers
		 WHERE first_announced_date = (SELECT MAX(first_announced_date) FROM papers)`,
	).Scan(&raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying newest update time: %w", err)
	}
	if !raw.Valid {
		return time.Time{}, ErrEmptyStore
	}

	// DATETIME affinity may carry a fractional part.
	value := raw.String
	if i := strings.IndexByte(value, '.'); i >= 0 {
		value = value[:i]
	}
	t, err := time.Parse(timeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing update time %q: %w", raw.String, err)
	}
	return t, nil
}

// DeleteRange removes all papers announced between from and until
// inclusive and returns how many rows were removed.
func (s *Store) DeleteRange(ctx context.Context, from, until time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM papers WHERE first_announced_date BETWEEN ? AND ?`,
		from.Format(dateFormat), until.Format(dateFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting papers: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted papers: %w", err)
	}
	return int(n), nil
}

func scanPapers(rows *sql.Rows) ([]types.Paper, error) {
	var papers []types.Paper
	for rows.Next() {
		var (
			p          types.Paper
			categories string
			titleTr    sql.NullString
			abstractTr sql.NullString
		)
		if err := rows.Scan(
			&p.URL, &p.Title, &p.Abstract, &p.Authors, &categories, &p.Comments,
			&p.FirstSubmittedDate, &p.FirstAnnouncedDate, &titleTr, &abstractTr,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if categories != "" {
			p.Categories = strings.Split(categories, ",")
		}
		p.TitleTranslated = titleTr.String
		p.AbstractTranslated = abstractTr.String
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// nullable maps the empty string to NULL so "never translated" stays
// distinguishable from an empty translation.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
