// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query builds arXiv queries from a boolean keyword expression, and
// defines the matcher those semantics are shared through: the same
// Expression drives the advanced-search URL, the Atom API query, and the
// store's SQL filter.
package query

import "strings"

// Expression is an AND of required keywords plus an AND of OR-groups. A
// keyword matches a paper when it occurs in the title or the abstract,
// case-insensitively. The zero Expression matches everything.
type Expression struct {
	// Required keywords must all match.
	Required []string

	// Optional is a list of groups; at least one keyword from every
	// non-empty group must match.
	Optional [][]string
}

// Empty reports whether the expression places no constraint at all.
func (e Expression) Empty() bool {
	if len(e.Required) > 0 {
		return false
	}
	for _, group := range e.Optional {
		if len(group) > 0 {
			return false
		}
	}
	return true
}

// Match evaluates the expression against a paper's title and abstract.
func (e Expression) Match(title, abstract string) bool {
	title = strings.ToLower(title)
	abstract = strings.ToLower(abstract)

	occurs := func(kw string) bool {
		kw = strings.ToLower(kw)
		return strings.Contains(title, kw) || strings.Contains(abstract, kw)
	}

	for _, kw := range e.Required {
		if !occurs(kw) {
			return false
		}
	}
	for _, group := range e.Optional {
		if len(group) == 0 {
			continue
		}
		matched := false
		for _, kw := range group {
			if occurs(kw) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
