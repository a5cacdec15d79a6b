package ruby

import (
	"strings"

	"github.com/yomiyasu/yomiyasu/lib/jptext"
)

// Convention describes the inline annotation syntax of a source: which
// bracket opens a reading and which closes it. Sources that switch syntax
// only need a new Convention, not a new parser.
type Convention struct {
	Brackets map[rune]rune
}

// Paren is the NHK convention: fullwidth brackets in article text, with
// the ASCII pair tolerated because list JSON occasionally uses it.
var Paren = Convention{Brackets: map[rune]rune{
	'（': '）',
	'(': ')',
}}

// Parse splits raw into spans using the Paren convention.
func Parse(raw string) []Span {
	return ParseWith(raw, Paren)
}

// ParseWith walks raw rune by rune, accumulating runs of a single script
// and attaching bracketed readings to the kanji run they follow. The
// bracket pair is consumed only when its content is a plausible reading
// in a position a reading can occupy; in every other case, including an
// opener with no matching closer, the bracket characters are treated as
// literal text and parsing continues. No input aborts the parse.
func ParseWith(raw string, conv Convention) []Span {
	p := parser{conv: conv}
	runes := []rune(raw)

	for i := 0; i < len(runes); {
		r := runes[i]

		if closer, ok := conv.Brackets[r]; ok {
			if reading, next, found := scanReading(runes, i+1, closer); found && p.attach(reading) {
				i = next
				continue
			}
		}

		if k := kindOf(r); k != p.kind {
			p.flush()
			p.kind = k
		}
		p.run = append(p.run, r)
		i++
	}
	p.flush()
	return p.spans
}

type parser struct {
	conv  Convention
	spans []Span
	run   []rune
	kind  Kind
}

func (p *parser) flush() {
	if len(p.run) == 0 {
		return
	}
	p.spans = append(p.spans, Span{Kind: p.kind, Text: string(p.run)})
	p.run = p.run[:0]
}

// attach binds a bracketed reading to the kanji run it glosses, returning
// false when there is no such run and the brackets are ordinary prose.
//
// The common case is a reading directly after a kanji run. The other case
// the source produces is a reading after okurigana, e.g. 持って（もって）
// from a ruby element whose base mixes scripts. Only the pure-kanji
// sub-run is tagged: the okurigana suffix is stripped from the reading
// and the kana run itself is left untouched.
func (p *parser) attach(reading string) bool {
	if p.kind == Kanji && len(p.run) > 0 {
		p.spans = append(p.spans, Span{Kind: Kanji, Text: string(p.run), Reading: reading})
		p.run = p.run[:0]
		return true
	}

	if p.kind == Kana && len(p.run) > 0 && len(p.spans) > 0 {
		prev := &p.spans[len(p.spans)-1]
		tail := string(p.run)
		if prev.Kind == Kanji && !prev.Annotated() && strings.HasSuffix(reading, tail) {
			if stem := strings.TrimSuffix(reading, tail); jptext.IsReading(stem) {
				prev.Reading = stem
				return true
			}
		}
	}

	return false
}

// scanReading looks for the closing bracket and reports whether the
// enclosed text is usable as furigana.
func scanReading(runes []rune, start int, closer rune) (string, int, bool) {
	for i := start; i < len(runes); i++ {
		if runes[i] == closer {
			reading := string(runes[start:i])
			return reading, i + 1, jptext.IsReading(reading)
		}
	}
	return "", 0, false
}
