// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lyh1028/arxiv-tracker/pkg/types"
)

// categoryNames maps cs archive categories to their display names.
// Papers outside cs can reach the store through the incremental walk;
// their headings fall back to the raw category code.
var categoryNames = map[string]string{
	"cs.AI": "Artificial Intelligence",
	"cs.AR": "Hardware Architecture",
	"cs.CC": "Computational Complexity",
	"cs.CE": "Computational Engineering",
	"cs.CG": "Computational Geometry",
	"cs.CL": "Computation and Language",
	"cs.CR": "Cryptography and Security",
	"cs.CV": "Computer Vision and Pattern Recognition",
	"cs.CY": "Computers and Society",
	"cs.DB": "Databases",
	"cs.DC": "Distributed and Cluster Computing",
	"cs.DL": "Digital Libraries",
	"cs.DM": "Discrete Mathematics",
	"cs.DS": "Data Structures and Algorithms",
	"cs.ET": "Emerging Technologies",
	"cs.FL": "Formal Languages and Automata Theory",
	"cs.GL": "General Literature",
	"cs.GR": "Graphics",
	"cs.GT": "Computer Science and Game Theory",
	"cs.HC": "Human-Computer Interaction",
	"cs.IR": "Information Retrieval",
	"cs.IT": "Information Theory",
	"cs.LG": "Machine Learning",
	"cs.LO": "Logic in Computer Science",
	"cs.MA": "Multiagent Systems",
	"cs.MM": "Multimedia",
	"cs.MS": "Mathematical Software",
	"cs.NA": "Numerical Analysis",
	"cs.NE": "Neural and Evolutionary Computing",
	"cs.NI": "Networking and Internet Architecture",
	"cs.OH": "Other Computer Science",
	"cs.OS": "Operating Systems",
	"cs.PF": "Performance",
	"cs.PL": "Programming Languages",
	"cs.RO": "Robotics",
	"cs.SC": "Symbolic Computation",
	"cs.SD": "Sound",
	"cs.SE": "Software Engineering",
	"cs.SI": "Social and Information Networks",
	"cs.SY": "Systems and Control",
}

func categoryHeading(cat string) string {
	if name, ok := categoryNames[cat]; ok {
		return fmt.Sprintf("%s (%s)", name, cat)
	}
	return cat
}

// markdownBody renders one day's digest. Chosen papers group under their
// primary category; filtered papers follow as a link list with reasons.
func (e *Exporter) markdownBody(day time.Time, chosen, filtered []Record) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# arXiv digest %s\n\n", day.Format("2006-01-02"))
	fmt.Fprintf(&b, "%d papers in followed categories, %d others\n\n", len(chosen), len(filtered))

	groups := make(map[string][]Record)
	for _, rec := range chosen {
		primary := ""
		if len(rec.Paper.Categories) > 0 {
			primary = rec.Paper.Categories[0]
		}
		groups[primary] = append(groups[primary], rec)
	}
	cats := make([]string, 0, len(groups))
	for cat := range groups {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		fmt.Fprintf(&b, "## %s\n\n", categoryHeading(cat))
		for _, rec := range groups[cat] {
			writePaperMarkdown(&b, rec.Paper)
		}
	}

	b.WriteString("## Other papers\n\n")
	for _, rec := range filtered {
		fmt.Fprintf(&b, "- [%s](%s)\n", rec.Paper.Title, rec.Paper.URL)
		fmt.Fprintf(&b, "  - **Title**: %s\n", orDash(rec.Paper.TitleTranslated))
		fmt.Fprintf(&b, "  - **Filtered Reason**: %s\n", rec.Reason)
	}
	return []byte(b.String()), nil
}

func writePaperMarkdown(b *strings.Builder, p types.Paper) {
	abstract := p.Abstract
	if p.AbstractTranslated != "" {
		abstract = p.AbstractTranslated
	}

	fmt.Fprintf(b, "### %s\n", p.Title)
	fmt.Fprintf(b, "[[arxiv](%s)] [[cool](%s)] [[pdf](%s)]\n", p.URL, p.PapersCoolURL(), p.PDFURL())
	fmt.Fprintf(b, "> **Authors**: %s\n", p.Authors)
	fmt.Fprintf(b, "> **First submission**: %s\n", p.FirstSubmittedDate.Format("2006-01-02"))
	fmt.Fprintf(b, "> **First announcement**: %s\n", p.FirstAnnouncedDate.Format("2006-01-02"))
	fmt.Fprintf(b, "> **comment**: %s\n", p.Comments)
	fmt.Fprintf(b, "- **Title**: %s\n", orDash(p.TitleTranslated))
	fmt.Fprintf(b, "- **Categories**: %s\n", strings.Join(p.Categories, ","))
	fmt.Fprintf(b, "- **Abstract**: %s\n\n", abstract)
}
