/*
 * Copyright 2026 the yomiyasu authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package tagger serialises resolved spans into the markup the site's
// client-side toggle consumes. Each annotated kanji run becomes a
// self-contained ruby element carrying its level as a data attribute, so
// the client can show or hide readings by comparing the attribute to the
// learner's threshold without re-parsing anything.
package tagger

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/yomiyasu/yomiyasu/lib/levels"
)

// Only characters that are structurally significant in HTML are escaped;
// the text is Japanese prose, not attacker-controlled input, and heavier
// escaping would break the round-trip property for no gain.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// Serialize emits the tagged markup for one section. Kana runs, plain
// runs and kanji runs without a reading are literal text; annotated
// kanji runs become <ruby data-level="N">base<rt>reading</rt></ruby>,
// with data-level="unknown" for runs containing untracked kanji.
func Serialize(spans []levels.TaggedSpan) string {
	var b strings.Builder
	for _, span := range spans {
		if !span.Leveled {
			b.WriteString(escaper.Replace(span.Text))
			continue
		}
		fmt.Fprintf(&b, `<ruby data-level="%s">%s<rt>%s</rt></ruby>`,
			span.Level.Attr(), escaper.Replace(span.Text), escaper.Replace(span.Reading))
	}
	return b.String()
}

// Strip removes all tagging from serialised markup and returns the
// visible base text. Reading text inside rt elements is a gloss, not
// part of the base text, so it is dropped along with the tags.
// Strip(Serialize(spans)) equals the concatenated span base text.
func Strip(markup string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(markup))

	var b strings.Builder
	rtDepth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "rt" || tag == "rp" {
				rtDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if tag := string(name); tag == "rt" || tag == "rp" {
				if rtDepth > 0 {
					rtDepth--
				}
			}
		case html.TextToken:
			if rtDepth == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}
