package levels

import "github.com/yomiyasu/yomiyasu/lib/ruby"

// TaggedSpan is a parsed span plus its resolved level. Leveled is true
// only for annotated kanji runs; every other span passes through
// Resolve unchanged and is emitted as literal text downstream.
type TaggedSpan struct {
	ruby.Span
	Level   Level
	Leveled bool
}

// Resolve attributes a level to an annotated kanji run: the maximum
// across its characters, because the run is only known to a learner once
// every character in it is known. Non-kanji spans and kanji runs without
// a reading resolve to themselves. Resolve is deterministic and
// idempotent; the level is computed once here, never re-derived at
// render time.
func Resolve(span ruby.Span, table Table) TaggedSpan {
	if !span.Annotated() {
		return TaggedSpan{Span: span}
	}

	level := Known(0)
	for _, r := range span.Text {
		level = MaxLevel(level, table.Lookup(r))
	}
	return TaggedSpan{Span: span, Level: level, Leveled: true}
}

// ResolveAll resolves a parsed section in order.
func ResolveAll(spans []ruby.Span, table Table) []TaggedSpan {
	tagged := make([]TaggedSpan, len(spans))
	for i, span := range spans {
		tagged[i] = Resolve(span, table)
	}
	return tagged
}
