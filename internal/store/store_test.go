// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/lyh1028/arxiv-tracker/internal/query"
	"github.com/lyh1028/arxiv-tracker/internal/translate"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{Path: filepath.Join(t.TempDir(), "papers.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// samplePaper builds a distinct resolved paper; n keeps URLs unique.
func samplePaper(n int, announced time.Time) types.Paper {
	return types.Paper{
		URL:                fmt.Sprintf("https://arxiv.org/abs/2408.0%04d", n),
		Title:              fmt.Sprintf("Paper %d on agent planning", n),
		Abstract:           fmt.Sprintf("Abstract %d about large language model agents.", n),
		Authors:            "Ada One, Bo Two",
		Categories:         []string{"cs.AI", "cs.CL"},
		Comments:           "10 pages",
		FirstSubmittedDate: announced.AddDate(0, 0, -1),
		FirstAnnouncedDate: announced,
	}
}

func mustUpsert(t *testing.T, s *Store, papers ...types.Paper) {
	t.Helper()
	if err := s.Upsert(context.Background(), papers); err != nil {
		t.Fatal(err)
	}
}

// --- schema tests ---

func TestOpenCreatesSchema(t *testing.T) {
	s := testStore(t)

	var count int
	err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'papers'`,
	).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Error("papers table does not exist")
	}
}

// --- upsert tests ---

func TestUpsertRoundTrip(t *testing.T) {
	s := testStore(t)
	announced := day(2025, time.August, 12)

	p := samplePaper(1, announced)
	p.TitleTranslated = "标题"
	p.AbstractTranslated = "摘要"
	mustUpsert(t, s, p, samplePaper(2, announced))

	got, err := s.PapersOn(context.Background(), announced)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d papers, want 2", len(got))
	}

	first := got[0]
	if first.URL != p.URL {
		t.Errorf("URL = %q, want %q", first.URL, p.URL)
	}
	if first.Title != p.Title {
		t.Errorf("Title = %q, want %q", first.Title, p.Title)
	}
	if first.Authors != p.Authors {
		t.Errorf("Authors = %q, want %q", first.Authors, p.Authors)
	}
	if len(first.Categories) != 2 || first.Categories[0] != "cs.AI" || first.Categories[1] != "cs.CL" {
		t.Errorf("Categories = %v, want [cs.AI cs.CL]", first.Categories)
	}
	if !first.FirstSubmittedDate.Equal(p.FirstSubmittedDate) {
		t.Errorf("FirstSubmittedDate = %v, want %v", first.FirstSubmittedDate, p.FirstSubmittedDate)
	}
	if !first.FirstAnnouncedDate.Equal(announced) {
		t.Errorf("FirstAnnouncedDate = %v, want %v", first.FirstAnnouncedDate, announced)
	}
	if first.TitleTranslated != "标题" || first.AbstractTranslated != "摘要" {
		t.Errorf("translations = %q/%q, want 标题/摘要", first.TitleTranslated, first.AbstractTranslated)
	}
}

func TestUpsertRejectsUnresolved(t *testing.T) {
	s := testStore(t)

	p := samplePaper(1, day(2025, time.August, 12))
	p.FirstAnnouncedDate = time.Time{}

	err := s.Upsert(context.Background(), []types.Paper{p})
	if !errors.Is(err, ErrUnresolvedPaper) {
		t.Fatalf("err = %v, want ErrUnresolvedPaper", err)
	}

	all, err := s.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("got %d papers after rejected upsert, want 0", len(all))
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	s := testStore(t)
	announced := day(2025, time.August, 12)

	p := samplePaper(1, announced)
	mustUpsert(t, s, p)

	// Age the stored row so the refreshed timestamp is observable.
	if _, err := s.db.Exec(`UPDATE papers SET update_time = '2020-01-01 00:00:00'`); err != nil {
		t.Fatal(err)
	}

	p.Title = "Revised title"
	mustUpsert(t, s, p)

	all, err := s.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("got %d papers, want 1", len(all))
	}
	if all[0].Title != "Revised title" {
		t.Errorf("Title = %q, want %q", all[0].Title, "Revised title")
	}

	var updateTime time.Time
	if err := s.db.QueryRow(`SELECT update_time FROM papers WHERE url = ?`, p.URL).Scan(&updateTime); err != nil {
		t.Fatal(err)
	}
	if !updateTime.After(day(2024, time.January, 1)) {
		t.Errorf("update_time = %v, want refreshed past 2020 placeholder", updateTime)
	}
}

// --- count tests ---

func TestCountNew(t *testing.T) {
	s := testStore(t)
	announced := day(2025, time.August, 12)
	mustUpsert(t, s, samplePaper(4, announced), samplePaper(6, announced))

	tests := []struct {
		name   string
		papers []types.Paper
		want   int
	}{
		{
			"stops at first known URL",
			[]types.Paper{
				samplePaper(1, announced), samplePaper(2, announced), samplePaper(3, announced),
				samplePaper(4, announced), // present: boundary
				samplePaper(5, announced), // never reached
			},
			3,
		},
		{"all new", []types.Paper{samplePaper(7, announced), samplePaper(8, announced)}, 2},
		{"first already known", []types.Paper{samplePaper(6, announced), samplePaper(9, announced)}, 0},
		{"empty input", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.CountNew(context.Background(), tt.papers)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("CountNew = %d, want %d", got, tt.want)
			}
		})
	}
}

// --- anchor tests ---

func TestNewestUpdateTime(t *testing.T) {
	s := testStore(t)
	mustUpsert(t, s,
		samplePaper(1, day(2025, time.August, 11)),
		samplePaper(2, day(2025, time.August, 12)),
	)

	// Backfill runs may refresh older announcement days later than the
	// newest day was crawled; only the newest day's crawl time counts.
	if _, err := s.db.Exec(
		`UPDATE papers SET update_time = '2025-08-12 09:30:00' WHERE first_announced_date = '2025-08-12'`,
	); err != nil {
		t.Fatal(err)
	}
	if _, err := s.db.Exec(
		`UPDATE papers SET update_time = '2025-08-20 18:00:00' WHERE first_announced_date = '2025-08-11'`,
	); err != nil {
		t.Fatal(err)
	}

	got, err := s.NewestUpdateTime(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, time.August, 12, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("NewestUpdateTime = %v, want %v", got, want)
	}
}

func TestNewestUpdateTimeEmptyStore(t *testing.T) {
	s := testStore(t)

	_, err := s.NewestUpdateTime(context.Background())
	if !errors.Is(err, ErrEmptyStore) {
		t.Fatalf("err = %v, want ErrEmptyStore", err)
	}
}

// --- delete tests ---

func TestDeleteRange(t *testing.T) {
	s := testStore(t)
	mustUpsert(t, s,
		samplePaper(1, day(2025, time.August, 11)),
		samplePaper(2, day(2025, time.August, 12)),
		samplePaper(3, day(2025, time.August, 12)),
		samplePaper(4, day(2025, time.August, 13)),
	)

	n, err := s.DeleteRange(context.Background(), day(2025, time.August, 11), day(2025, time.August, 12))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("deleted %d papers, want 3", n)
	}

	all, err := s.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || !all[0].FirstAnnouncedDate.Equal(day(2025, time.August, 13)) {
		t.Errorf("remaining papers = %v, want only 2025-08-13", all)
	}
}

// --- search tests ---

func TestSearch(t *testing.T) {
	s := testStore(t)

	agents := samplePaper(1, day(2025, time.August, 12))
	agents.Title = "Planning with LLM Agents"
	agents.Abstract = "We study tool use."

	vision := samplePaper(2, day(2025, time.August, 11))
	vision.Title = "A Vision Benchmark"
	vision.Abstract = "Agents appear only here: agent evaluation for vision language models."

	boats := samplePaper(3, day(2025, time.August, 10))
	boats.Title = "Hull Design for Sailboats"
	boats.Abstract = "Nothing relevant."

	mustUpsert(t, s, agents, vision, boats)

	tests := []struct {
		name     string
		expr     query.Expression
		from     time.Time
		until    time.Time
		limit    int
		wantURLs []string
	}{
		{
			"required keyword in title or abstract, case-insensitive",
			query.Expression{Required: []string{"AGENT"}},
			time.Time{}, time.Time{}, 0,
			[]string{agents.URL, vision.URL},
		},
		{
			"optional group narrows",
			query.Expression{Required: []string{"agent"}, Optional: [][]string{{"tool use", "planning"}}},
			time.Time{}, time.Time{}, 0,
			[]string{agents.URL},
		},
		{
			"date range bounds are inclusive",
			query.Expression{Required: []string{"agent"}},
			day(2025, time.August, 11), day(2025, time.August, 11), 0,
			[]string{vision.URL},
		},
		{
			"limit keeps newest",
			query.Expression{Required: []string{"agent"}},
			time.Time{}, time.Time{}, 1,
			[]string{agents.URL},
		},
		{
			"empty expression returns everything",
			query.Expression{},
			time.Time{}, time.Time{}, 0,
			[]string{agents.URL, vision.URL, boats.URL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(context.Background(), tt.expr, tt.from, tt.until, tt.limit)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.wantURLs) {
				t.Fatalf("got %d papers, want %d", len(got), len(tt.wantURLs))
			}
			for i, want := range tt.wantURLs {
				if got[i].URL != want {
					t.Errorf("result[%d] = %s, want %s", i, got[i].URL, want)
				}
			}
		})
	}
}

// --- translation backfill tests ---

func TestTranslateMissing(t *testing.T) {
	s := testStore(t)
	announced := day(2025, time.August, 12)

	done := samplePaper(1, announced)
	done.TitleTranslated = "已翻译"
	done.AbstractTranslated = "已翻译"
	mustUpsert(t, s, done, samplePaper(2, announced), samplePaper(3, announced))

	var calls int
	tr := translate.Func(func(_ context.Context, text, lang string) (string, error) {
		calls++
		if lang != "zh-CN" {
			t.Errorf("targetLang = %q, want zh-CN", lang)
		}
		return "译:" + text, nil
	})

	updated, err := s.TranslateMissing(context.Background(), tr, "zh-CN")
	if err != nil {
		t.Fatal(err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2", updated)
	}
	if calls != 4 {
		t.Errorf("translator calls = %d, want 4 (title+abstract per paper)", calls)
	}

	got, err := s.PapersOn(context.Background(), announced)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got {
		if p.TitleTranslated == "" || p.AbstractTranslated == "" {
			t.Errorf("paper %s still untranslated", p.URL)
		}
	}

	// A second pass has nothing left to do.
	updated, err = s.TranslateMissing(context.Background(), tr, "zh-CN")
	if err != nil {
		t.Fatal(err)
	}
	if updated != 0 {
		t.Errorf("second pass updated = %d, want 0", updated)
	}
}

func TestTranslateMissingKeepsRowOnFailure(t *testing.T) {
	s := testStore(t)
	mustUpsert(t, s, samplePaper(1, day(2025, time.August, 12)))

	tr := translate.Func(func(context.Context, string, string) (string, error) {
		return "", errors.New("backend down")
	})

	updated, err := s.TranslateMissing(context.Background(), tr, "zh-CN")
	if err != nil {
		t.Fatal(err)
	}
	if updated != 0 {
		t.Errorf("updated = %d, want 0", updated)
	}

	all, err := s.All(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if all[0].TitleTranslated != "" {
		t.Errorf("TitleTranslated = %q, want empty after failed backfill", all[0].TitleTranslated)
	}
}
