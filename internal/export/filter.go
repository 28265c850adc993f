// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"strings"

	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// ChosenReason marks a record that passed the category filters.
const ChosenReason = "-"

// Record pairs a paper with the outcome of the category partition.
type Record struct {
	Paper  types.Paper
	Reason string
}

// Chosen reports whether the record passed the filters.
func (r Record) Chosen() bool { return r.Reason == ChosenReason }

// Partition splits papers into those matching the whitelist and those
// set aside, either for missing the whitelist entirely or for carrying a
// blacklisted category. Order within each half follows the input.
func Partition(papers []types.Paper, whitelist, blacklist []string) (chosen, filtered []Record) {
	white := toSet(whitelist)
	black := toSet(blacklist)

	for _, p := range papers {
		switch hits := intersection(p.Categories, black); {
		case !intersects(p.Categories, white):
			reason := fmt.Sprintf("none of %s in whitelist", strings.Join(p.Categories, ","))
			filtered = append(filtered, Record{Paper: p, Reason: reason})
		case len(hits) > 0:
			reason := fmt.Sprintf("cat:%s in blacklist", strings.Join(hits, ","))
			filtered = append(filtered, Record{Paper: p, Reason: reason})
		default:
			chosen = append(chosen, Record{Paper: p, Reason: ChosenReason})
		}
	}
	return chosen, filtered
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

func intersects(items []string, set map[string]bool) bool {
	for _, item := range items {
		if set[item] {
			return true
		}
	}
	return false
}

func intersection(items []string, set map[string]bool) []string {
	var hits []string
	for _, item := range items {
		if set[item] {
			hits = append(hits, item)
		}
	}
	return hits
}
