// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lyh1028/arxiv-tracker/internal/query"
	"github.com/lyh1028/arxiv-tracker/internal/translate"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// Search returns stored papers matching the keyword expression, newest
// announcement first. Keyword semantics mirror Expression.Match: every
// required keyword and one keyword per optional group must appear in the
// title or abstract (LIKE's default ASCII case folding keeps this
// case-insensitive). Zero from/until bounds are open; limit <= 0 means no
// limit.
func (s *Store) Search(ctx context.Context, expr query.Expression, from, until time.Time, limit int) ([]types.Paper, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT ` + paperColumns + ` FROM papers WHERE 1=1`)

	for _, kw := range expr.Required {
		qb.WriteString(` AND (title LIKE ? OR abstract LIKE ?)`)
		pattern := "%" + kw + "%"
		args = append(args, pattern, pattern)
	}

	for _, group := range expr.Optional {
		if len(group) == 0 {
			continue
		}
		conds := make([]string, 0, len(group))
		for _, kw := range group {
			conds = append(conds, `(title LIKE ? OR abstract LIKE ?)`)
			pattern := "%" + kw + "%"
			args = append(args, pattern, pattern)
		}
		qb.WriteString(` AND (` + strings.Join(conds, " OR ") + `)`)
	}

	if !from.IsZero() {
		qb.WriteString(` AND first_announced_date >= ?`)
		args = append(args, from.Format(dateFormat))
	}
	if !until.IsZero() {
		qb.WriteString(` AND first_announced_date <= ?`)
		args = append(args, until.Format(dateFormat))
	}

	qb.WriteString(` ORDER BY first_announced_date DESC`)

	if limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching papers: %w", err)
	}
	defer rows.Close()
	return scanPapers(rows)
}

// TranslateMissing backfills translations for papers that have none and
// returns how many rows were updated. Rows whose translation fails are
// left untouched for the next run; database errors abort the pass.
func (s *Store) TranslateMissing(ctx context.Context, tr translate.Translator, targetLang string) (int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, title, abstract FROM papers
		 WHERE title_translated IS NULL OR abstract_translated IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("querying untranslated papers: %w", err)
	}

	type pending struct {
		url, title, abstract string
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.url, &p.title, &p.abstract); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scanning row: %w", err)
		}
		todo = append(todo, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("reading untranslated papers: %w", err)
	}

	updated := 0
	for _, p := range todo {
		if ctx.Err() != nil {
			return updated, ctx.Err()
		}

		title, err := tr.Translate(ctx, p.title, targetLang)
		if err != nil {
			continue
		}
		abstract, err := tr.Translate(ctx, p.abstract, targetLang)
		if err != nil {
			continue
		}

		_, err = s.db.ExecContext(ctx,
			`UPDATE papers SET title_translated = ?, abstract_translated = ? WHERE url = ?`,
			title, abstract, p.url,
		)
		if err != nil {
			return updated, fmt.Errorf("updating paper %s: %w", p.url, err)
		}
		updated++
	}
	return updated, nil
}
