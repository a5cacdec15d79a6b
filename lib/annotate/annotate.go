// Package annotate orchestrates the furigana pipeline over one article:
// parse each section's annotations, resolve run levels against the
// table, and re-serialise as level-tagged markup. It is a pure in-memory
// transformation with no I/O; fetching happens before it and rendering
// after. Calls are independent, so callers may annotate articles in
// parallel against a shared table.
package annotate

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/yomiyasu/yomiyasu/lib/jptext"
	"github.com/yomiyasu/yomiyasu/lib/levels"
	"github.com/yomiyasu/yomiyasu/lib/ruby"
	"github.com/yomiyasu/yomiyasu/lib/tagger"
)

// ErrUndecodable marks input that is not valid UTF-8. It fails the whole
// article, and only the article: callers processing a batch skip it and
// carry on.
var ErrUndecodable = errors.New("annotate: input is not valid UTF-8")

// Document is one annotated article body: tagged markup per input
// section, in input order, plus the per-article kanji statistics the
// site shows in its "kanji by level" boxes. Documents are built in a
// single pass and never mutated; re-annotation means a new Document.
type Document struct {
	Sections []string   `json:"sections"`
	Stats    KanjiStats `json:"stats"`
}

// Body joins the tagged sections into one markup string, each section
// wrapped in a paragraph element.
func (d *Document) Body() string {
	var out string
	for _, section := range d.Sections {
		out += "<p>" + section + "</p>\n"
	}
	return out
}

// KanjiStats aggregates the distinct kanji of an article. Characters are
// counted individually here, unlike run resolution: the boxes answer
// "which kanji appear at which level", not "which runs need a gloss".
type KanjiStats struct {
	ByLevel map[int][]string `json:"by_level"`
	Unknown []string         `json:"unknown"`
}

// Annotator applies the pipeline with a fixed table and convention.
type Annotator struct {
	table levels.Table
	conv  ruby.Convention
}

// New fails fast on a missing table: every downstream tag would be
// meaningless without one.
func New(table levels.Table) (*Annotator, error) {
	if table == nil {
		return nil, levels.ErrNoTable
	}
	return &Annotator{table: table, conv: ruby.Paren}, nil
}

// WithConvention swaps the annotation syntax for sources that bracket
// readings differently.
func (a *Annotator) WithConvention(conv ruby.Convention) *Annotator {
	a.conv = conv
	return a
}

// Annotate processes one article's sections in order. Malformed
// annotations inside a section degrade to literal text during parsing
// and never surface here; the only per-article failure is undecodable
// input.
func (a *Annotator) Annotate(sections []string) (*Document, error) {
	doc := &Document{
		Sections: make([]string, 0, len(sections)),
		Stats:    KanjiStats{ByLevel: make(map[int][]string)},
	}
	seen := make(map[rune]struct{})

	for i, section := range sections {
		if !utf8.ValidString(section) {
			return nil, fmt.Errorf("section %d: %w", i, ErrUndecodable)
		}

		spans := ruby.ParseWith(section, a.conv)
		tagged := levels.ResolveAll(spans, a.table)
		doc.Sections = append(doc.Sections, tagger.Serialize(tagged))

		a.collectStats(doc, spans, seen)
	}

	for _, chars := range doc.Stats.ByLevel {
		sort.Strings(chars)
	}
	sort.Strings(doc.Stats.Unknown)
	return doc, nil
}

func (a *Annotator) collectStats(doc *Document, spans []ruby.Span, seen map[rune]struct{}) {
	for _, span := range spans {
		if span.Kind != ruby.Kanji {
			continue
		}
		for _, r := range jptext.Kanji(span.Text) {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}

			if n, known := a.table.Lookup(r).Value(); known {
				doc.Stats.ByLevel[n] = append(doc.Stats.ByLevel[n], string(r))
			} else {
				doc.Stats.Unknown = append(doc.Stats.Unknown, string(r))
			}
		}
	}
}
