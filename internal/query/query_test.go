// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestExpressionEmpty(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want bool
	}{
		{"zero value", Expression{}, true},
		{"only empty groups", Expression{Optional: [][]string{{}, {}}}, true},
		{"required set", Expression{Required: []string{"agent"}}, false},
		{"group set", Expression{Optional: [][]string{{"LLM"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.Empty(); got != tt.want {
				t.Errorf("Empty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpressionMatch(t *testing.T) {
	expr := Expression{
		Required: []string{"agent"},
		Optional: [][]string{{"LLM", "language model"}},
	}

	tests := []struct {
		name     string
		title    string
		abstract string
		want     bool
	}{
		{"title carries both", "An LLM Agent Framework", "We study planning.", true},
		{"split across fields", "Tool-Using Agents", "Built on a large language model.", true},
		{"case folded", "an llm agent framework", "", true},
		{"missing required", "LLM Benchmarks", "GPT evaluation only.", false},
		{"missing group", "Agent Simulation", "Rule-based crowd models.", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expr.Match(tt.title, tt.abstract); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.title, tt.abstract, got, tt.want)
			}
		})
	}

	if !(Expression{}).Match("anything", "at all") {
		t.Error("empty expression should match everything")
	}
}

func TestSearchParams(t *testing.T) {
	expr := Expression{
		Required: []string{"agent"},
		Optional: [][]string{{"LLM", "language model"}},
	}
	from := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	got := SearchParams(expr, from, until, 50, 50)

	for _, want := range []string{
		"advanced=&terms-0-operator=AND&terms-0-term=agent&terms-0-field=all",
		"&terms-1-operator=AND&terms-1-term=LLM&terms-1-field=all",
		"&terms-2-operator=OR&terms-2-term=language+model&terms-2-field=all",
		"&classification-computer_science=y",
		"&classification-include_cross_list=include",
		"&date-from_date=2025-08&date-to_date=2025-09",
		"&date-date_type=announced_date_first",
		"&size=50&order=-announced_date_first&start=50",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("SearchParams missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "terms-3-") {
		t.Errorf("SearchParams emitted an extra term:\n%s", got)
	}
}

func TestAPIParams(t *testing.T) {
	expr := Expression{
		Required: []string{"agent"},
		Optional: [][]string{{"browse", "research"}},
	}

	got := APIParams(expr, 0, 50)

	want := "search_query=((ti:browse+OR+abs:browse)+OR+(ti:research+OR+abs:research))" +
		"+AND+(ti:agent+OR+abs:agent)&start=0&max_results=50&sortBy=submittedDate&sortOrder=descending"
	if got != want {
		t.Errorf("APIParams =\n%s\nwant\n%s", got, want)
	}
}

func TestAPIParamsEmptyExpression(t *testing.T) {
	got := APIParams(Expression{}, 100, 50)
	if !strings.HasPrefix(got, "search_query=ti:*+OR+abs:*&start=100") {
		t.Errorf("APIParams for an empty expression = %s", got)
	}
}

func TestAPIParamsMultiWordKeyword(t *testing.T) {
	got := APIParams(Expression{Required: []string{"language model"}}, 0, 50)
	if !strings.Contains(got, "(ti:language+model+OR+abs:language+model)") {
		t.Errorf("multi-word keyword not joined with '+': %s", got)
	}
}

func TestCheckWindow(t *testing.T) {
	day := 24 * time.Hour
	from := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)

	if err := CheckWindow(from, from.Add(31*day)); err != nil {
		t.Errorf("31-day window rejected: %v", err)
	}
	err := CheckWindow(from, from.Add(32*day))
	if !errors.Is(err, ErrWindowTooWide) {
		t.Errorf("32-day window: got %v, want ErrWindowTooWide", err)
	}
}
