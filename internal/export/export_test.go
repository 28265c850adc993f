// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lyh1028/arxiv-tracker/internal/store"
	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func samplePaper(id, title string, announced time.Time, cats ...string) types.Paper {
	return types.Paper{
		URL:                "https://arxiv.org/abs/" + id,
		Title:              title,
		Abstract:           "Agents doing research.",
		Authors:            "Ada One, Bo Two",
		Categories:         cats,
		Comments:           "10 pages",
		FirstSubmittedDate: announced.AddDate(0, 0, -1),
		FirstAnnouncedDate: announced,
	}
}

func testExporter(t *testing.T, whitelist, blacklist []string, papers []types.Paper) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(types.StoreConfig{Path: filepath.Join(dir, "papers.db")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	if len(papers) > 0 {
		if err := st.Upsert(context.Background(), papers); err != nil {
			t.Fatal(err)
		}
	}

	outDir := filepath.Join(dir, "output")
	cfg := types.ExportConfig{Dir: outDir, Whitelist: whitelist, Blacklist: blacklist}
	return New(st, cfg, zerolog.Nop()), outDir
}

// --- partition tests ---

func TestPartition(t *testing.T) {
	whitelist := []string{"cs.CV", "cs.AI"}
	blacklist := []string{"cs.CY"}
	papers := []types.Paper{
		samplePaper("2508.00001", "kept", day(2025, time.August, 12), "cs.AI", "cs.CL"),
		samplePaper("2508.00002", "off-list", day(2025, time.August, 12), "math.OC", "stat.ML"),
		samplePaper("2508.00003", "blacklisted", day(2025, time.August, 12), "cs.AI", "cs.CY"),
	}

	chosen, filtered := Partition(papers, whitelist, blacklist)

	if len(chosen) != 1 || chosen[0].Paper.Title != "kept" {
		t.Fatalf("chosen = %+v, want the cs.AI paper", chosen)
	}
	if !chosen[0].Chosen() || chosen[0].Reason != "-" {
		t.Errorf("chosen reason = %q, want \"-\"", chosen[0].Reason)
	}

	if len(filtered) != 2 {
		t.Fatalf("filtered = %d records, want 2", len(filtered))
	}
	if filtered[0].Reason != "none of math.OC,stat.ML in whitelist" {
		t.Errorf("whitelist reason = %q", filtered[0].Reason)
	}
	if filtered[1].Reason != "cat:cs.CY in blacklist" {
		t.Errorf("blacklist reason = %q", filtered[1].Reason)
	}
}

func TestPartitionEmptyWhitelist(t *testing.T) {
	papers := []types.Paper{
		samplePaper("2508.00001", "anything", day(2025, time.August, 12), "cs.AI"),
	}
	chosen, filtered := Partition(papers, nil, nil)
	if len(chosen) != 0 || len(filtered) != 1 {
		t.Fatalf("chosen = %d, filtered = %d; an empty whitelist keeps nothing", len(chosen), len(filtered))
	}
}

// --- markdown tests ---

func TestMarkdownExport(t *testing.T) {
	announced := day(2025, time.August, 12)
	papers := []types.Paper{
		samplePaper("2508.00001", "Vision transformers", announced, "cs.CV"),
		samplePaper("2508.00002", "Agents at work", announced, "cs.AI"),
		samplePaper("2508.00003", "Optics paper", announced, "physics.optics"),
	}
	papers[1].TitleTranslated = "工作中的智能体"
	papers[1].AbstractTranslated = "关于智能体的研究。"

	e, outDir := testExporter(t, []string{"cs.CV", "cs.AI"}, nil, papers)
	if err := e.Markdown(context.Background(), announced, announced); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "2025-08-12.md"))
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)

	for _, want := range []string{
		"# arXiv digest 2025-08-12",
		"2 papers in followed categories, 1 others",
		"## Artificial Intelligence (cs.AI)",
		"## Computer Vision and Pattern Recognition (cs.CV)",
		"### Agents at work",
		"[[arxiv](https://arxiv.org/abs/2508.00002)] [[cool](https://papers.cool/arxiv/2508.00002)] [[pdf](https://arxiv.org/pdf/2508.00002)]",
		"> **Authors**: Ada One, Bo Two",
		"> **First submission**: 2025-08-11",
		"> **First announcement**: 2025-08-12",
		"- **Title**: 工作中的智能体",
		"- **Abstract**: 关于智能体的研究。",
		"## Other papers",
		"- [Optics paper](https://arxiv.org/abs/2508.00003)",
		"  - **Filtered Reason**: none of physics.optics in whitelist",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("digest missing %q", want)
		}
	}

	// Category sections sort by code: cs.AI before cs.CV.
	if strings.Index(body, "## Artificial Intelligence") > strings.Index(body, "## Computer Vision") {
		t.Error("category sections out of order")
	}

	// Untranslated papers fall back to the English abstract.
	if !strings.Contains(body, "- **Abstract**: Agents doing research.") {
		t.Error("expected the untranslated abstract for the cs.CV paper")
	}
}

func TestMarkdownExportWritesEachDay(t *testing.T) {
	papers := []types.Paper{
		samplePaper("2508.00001", "Day one", day(2025, time.August, 11), "cs.AI"),
		samplePaper("2508.00002", "Day two", day(2025, time.August, 12), "cs.AI"),
	}
	e, outDir := testExporter(t, []string{"cs.AI"}, nil, papers)
	if err := e.Markdown(context.Background(), day(2025, time.August, 11), day(2025, time.August, 12)); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"2025-08-11.md", "2025-08-12.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(outDir, "2025-08-11.md"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Day two") {
		t.Error("day one digest contains day two's paper")
	}
}

// --- csv tests ---

func TestCSVExport(t *testing.T) {
	announced := day(2025, time.August, 12)
	papers := []types.Paper{
		samplePaper("2508.00001", "Agents, commas and \"quotes\"", announced, "cs.AI"),
		samplePaper("2508.00002", "Optics paper", announced, "physics.optics"),
	}
	e, outDir := testExporter(t, []string{"cs.AI"}, nil, papers)
	if err := e.CSV(context.Background(), announced, announced); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(outDir, "2025-08-12.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(rows))
	}
	if !reflect.DeepEqual(rows[0], csvHeader) {
		t.Errorf("header = %v", rows[0])
	}

	// Chosen rows come first; quoting survives the round trip.
	chosen := rows[1]
	if chosen[0] != "Agents, commas and \"quotes\"" {
		t.Errorf("title = %q", chosen[0])
	}
	if chosen[1] != "chosen" || chosen[12] != "-" {
		t.Errorf("interest = %q, note = %q", chosen[1], chosen[12])
	}
	if chosen[2] != "-" {
		t.Errorf("untranslated title = %q, want \"-\"", chosen[2])
	}
	if chosen[6] != "https://papers.cool/arxiv/2508.00001" {
		t.Errorf("papers.cool url = %q", chosen[6])
	}
	if chosen[8] != "2025-08-12" {
		t.Errorf("first announced = %q", chosen[8])
	}

	other := rows[2]
	if other[1] != "filtered" || other[12] != "none of physics.optics in whitelist" {
		t.Errorf("interest = %q, note = %q", other[1], other[12])
	}
}
