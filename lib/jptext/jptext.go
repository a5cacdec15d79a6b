// Package jptext holds script classification and normalisation helpers for
// Japanese text. Everything operates on runes so that multi-byte kanji are
// never split mid-character.
package jptext

import (
	"unicode"

	"github.com/blevesearch/segment"
	"golang.org/x/text/unicode/norm"
)

// Script is the writing system a rune belongs to, as far as furigana
// segmentation cares: kanji take readings, kana never do, everything else
// is passed through untouched.
type Script int

const (
	ScriptOther Script = iota
	ScriptKana
	ScriptKanji
)

// IsKanji reports whether r is a Han character. The Unicode Han script
// already covers the iteration mark 々 and the circled ideograph 〇, which
// NHK uses inside words.
func IsKanji(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// IsKana reports whether r is hiragana or katakana. The prolonged sound
// mark ー is script-neutral in Unicode but belongs to the kana run it
// extends, so it is included here.
func IsKana(r rune) bool {
	return unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || r == 'ー'
}

func Classify(r rune) Script {
	switch {
	case IsKanji(r):
		return ScriptKanji
	case IsKana(r):
		return ScriptKana
	default:
		return ScriptOther
	}
}

// IsReading reports whether s is a plausible furigana reading: non-empty
// and pure kana. Bracketed text failing this check is ordinary
// parenthesised prose, not an annotation.
func IsReading(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsKana(r) {
			return false
		}
	}
	return true
}

// Normalize applies NFKC so that fullwidth ASCII and halfwidth katakana
// from scraped pages compare equal to their canonical forms.
func Normalize(s string) string {
	return norm.NFKC.String(s)
}

// Kanji returns the distinct kanji runes of s in first-seen order.
func Kanji(s string) []rune {
	var out []rune
	seen := make(map[rune]struct{})
	for _, r := range s {
		if !IsKanji(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Segment type returned for punctuation and whitespace.
const nonWordSegment = 0

// Words segments s into words using UAX#29 rules, which treat each Han
// character as its own segment and keep kana runs together. Punctuation
// and whitespace segments are dropped.
func Words(s string) []string {
	segmenter := segment.NewWordSegmenterDirect([]byte(s))

	var words []string
	for segmenter.Segment() {
		if segmenter.Type() == nonWordSegment {
			continue
		}
		words = append(words, string(segmenter.Bytes()))
	}
	return words
}

// TruncateWords returns the first n words of s joined back together, for
// article previews. Japanese has no inter-word spaces, so the segments are
// concatenated without separators.
func TruncateWords(s string, n int) string {
	segmenter := segment.NewWordSegmenterDirect([]byte(s))

	var out []byte
	words := 0
	for segmenter.Segment() {
		if words >= n {
			break
		}
		out = append(out, segmenter.Bytes()...)
		if segmenter.Type() != nonWordSegment {
			words++
		}
	}
	return string(out)
}
