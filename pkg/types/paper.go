// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-tracker pipeline.
package types

import (
	"strings"
	"time"
)

const (
	absPrefix        = "https://arxiv.org/abs"
	pdfPrefix        = "https://arxiv.org/pdf"
	papersCoolPrefix = "https://papers.cool/arxiv"
)

// Paper holds the metadata extracted for a single arXiv submission.
// The abs-page URL is the identity: two Papers with the same URL describe
// the same submission, and the store keeps exactly one row per URL.
type Paper struct {
	// URL is the arXiv abs-page URL (e.g. "https://arxiv.org/abs/2408.01234").
	URL string `json:"url" yaml:"url"`

	// Title is the paper title, whitespace-normalized to a single line.
	Title string `json:"title" yaml:"title"`

	// Abstract is the full abstract, whitespace-normalized.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors is the display string for the author list ("A. One, B. Two").
	Authors string `json:"authors" yaml:"authors"`

	// Categories lists the arXiv category tags in page order (e.g. "cs.CL").
	Categories []string `json:"categories" yaml:"categories"`

	// Comments is the free-text comment line, or a placeholder when absent.
	Comments string `json:"comments" yaml:"comments"`

	// FirstSubmittedDate is the date the v1 version was submitted.
	FirstSubmittedDate time.Time `json:"first_submitted_date" yaml:"first_submitted_date"`

	// FirstAnnouncedDate is the inferred announcement date. Zero until the
	// resolver has assigned it; papers are only persisted once it is set.
	FirstAnnouncedDate time.Time `json:"first_announced_date,omitempty" yaml:"first_announced_date,omitempty"`

	// TitleTranslated is the translated title, empty when not translated.
	TitleTranslated string `json:"title_translated,omitempty" yaml:"title_translated,omitempty"`

	// AbstractTranslated is the translated abstract, empty when not translated.
	AbstractTranslated string `json:"abstract_translated,omitempty" yaml:"abstract_translated,omitempty"`
}

// PDFURL returns the direct PDF link derived from the abs-page URL.
func (p *Paper) PDFURL() string {
	return strings.Replace(p.URL, absPrefix, pdfPrefix, 1)
}

// PapersCoolURL returns the papers.cool mirror link for the paper.
func (p *Paper) PapersCoolURL() string {
	return strings.Replace(p.URL, absPrefix, papersCoolPrefix, 1)
}
