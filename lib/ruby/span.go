// Package ruby parses inline furigana annotations into typed text spans.
//
// The input convention is the one NHK Easy uses in its list JSON and the
// one our section reader re-emits for article bodies: a kanji run followed
// immediately by its reading in brackets, e.g. 今日（きょう）. Spans are
// immutable once returned; re-parsing is the only way to re-derive them.
package ruby

import "github.com/yomiyasu/yomiyasu/lib/jptext"

// Kind classifies a span. Kana and plain runs are never glossed; only
// kanji runs can carry a reading.
type Kind int

const (
	Plain Kind = iota
	Kana
	Kanji
)

func (k Kind) String() string {
	switch k {
	case Kana:
		return "kana"
	case Kanji:
		return "kanji"
	default:
		return "plain"
	}
}

// Span is one run of text of a single kind. Reading is non-empty only on
// kanji runs for which the source supplied an annotation, and applies to
// exactly this run: the parser keeps the source's segmentation rather
// than merging adjacent kanji runs, because compounds are often annotated
// group by group.
type Span struct {
	Kind    Kind
	Text    string
	Reading string
}

// Annotated reports whether the span carries a furigana reading.
func (s Span) Annotated() bool {
	return s.Kind == Kanji && s.Reading != ""
}

func kindOf(r rune) Kind {
	switch jptext.Classify(r) {
	case jptext.ScriptKanji:
		return Kanji
	case jptext.ScriptKana:
		return Kana
	default:
		return Plain
	}
}
