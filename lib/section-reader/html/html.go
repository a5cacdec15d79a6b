// Package html extracts annotatable sections from scraped article
// bodies. The source marks furigana with ruby elements; each one is
// folded back into the flat paren convention (base（reading）) while the
// document streams through, so the downstream parser sees the same
// shape it gets from the list JSON's ruby titles.
package html

import (
	"io"
	"strings"

	"golang.org/x/net/html"

	section_reader "github.com/yomiyasu/yomiyasu/lib/section-reader"
)

// Subtrees that never contribute article text.
var disallowedNodes = map[string]struct{}{
	"area":     {},
	"audio":    {},
	"link":     {},
	"meta":     {},
	"noscript": {},
	"script":   {},
	"source":   {},
	"style":    {},
	"input":    {},
	"textarea": {},
	"video":    {},
}

// Inline elements whose text belongs to the enclosing block rather than
// forming a section of their own.
var inlineNodes = map[string]struct{}{
	"a":      {},
	"b":      {},
	"big":    {},
	"del":    {},
	"em":     {},
	"i":      {},
	"ins":    {},
	"mark":   {},
	"q":      {},
	"s":      {},
	"small":  {},
	"span":   {},
	"strike": {},
	"strong": {},
	"sub":    {},
	"sup":    {},
	"time":   {},
	"u":      {},
}

// Elements with no closing tag; pushing them would wedge the stack.
var voidNodes = map[string]struct{}{
	"br":  {},
	"col": {},
	"hr":  {},
	"img": {},
	"wbr": {},
}

type SectionReader struct{}

func (SectionReader) ReadSections(r io.Reader) <-chan section_reader.Value {
	return ReadSections(r)
}

func (SectionReader) ReadSectionsWithCallback(r io.Reader, onSection func(string) error) error {
	return ReadSectionsWithCallback(r, onSection)
}

// ReadSections is a convenience function so the caller doesn't need to
// instantiate the channel.
func ReadSections(r io.Reader) <-chan section_reader.Value {
	sections := make(chan section_reader.Value)
	go htmlToSections(r, sections)
	return sections
}

func ReadSectionsWithCallback(r io.Reader, onSection func(string) error) error {
	return section_reader.ReadChannelWithCallback(ReadSections(r), onSection)
}

// htmlToSections walks sequential tokens, attributing text to the open
// tag chain. When a tag closes with accumulated text, that text is one
// section. The tokenizer reports io.EOF when the document ends, and
// that terminates the channel.
func htmlToSections(r io.Reader, sections chan section_reader.Value) {
	tokenizer := html.NewTokenizer(r)
	var stack htmlStack

	emit := func(tag *htmlTag) error {
		if section := strings.TrimSpace(string(tag.innerText)); section != "" {
			sections <- section_reader.Value{Section: section}
		}
		return nil
	}

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// Whatever text is still open when the document ends is the
			// last section; bare text with no markup at all lands here.
			for stack.List != nil && stack.Front() != nil {
				if err := stack.pop(emit); err != nil {
					break
				}
			}
			sections <- section_reader.Value{Err: tokenizer.Err()}
			return

		case html.TextToken:
			if !stack.disallowed {
				if stack.List == nil || stack.Front() == nil {
					stack.push(&htmlTag{name: "body"})
				}
				stack.collectText(tokenizer.Text())
			}

		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if tag == "br" {
				stack.collectText([]byte{'\n'})
			}
			if _, void := voidNodes[tag]; void {
				continue
			}
			stack.push(&htmlTag{name: tag})

		case html.EndTagToken:
			_ = stack.pop(emit)

		case html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if string(name) == "br" {
				stack.collectText([]byte{'\n'})
			}
		}
	}
}
