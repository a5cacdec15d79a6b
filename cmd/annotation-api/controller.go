package main

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/yomiyasu/yomiyasu/lib/annotate"
	"github.com/yomiyasu/yomiyasu/lib/levels"
	htmlreader "github.com/yomiyasu/yomiyasu/lib/section-reader/html"
	textreader "github.com/yomiyasu/yomiyasu/lib/section-reader/text"
	"github.com/yomiyasu/yomiyasu/lib/store"
)

type contentType int

const (
	contentTypePlain contentType = iota
	contentTypeHTML
)

var allowedContentTypeEnumMap = map[string]contentType{
	"text/html":  contentTypeHTML,
	"text/plain": contentTypePlain,
}

var errSearchDisabled = errors.New("search is not enabled on this instance")

type controller struct {
	annotator *annotate.Annotator
	table     levels.Table
	indexer   *store.Indexer
}

// Sections splits a request body into annotatable sections using the
// reader matching its content type.
func (c controller) Sections(reader io.Reader, ct contentType) ([]string, error) {
	var sections []string
	onSection := func(section string) error {
		sections = append(sections, section)
		return nil
	}

	var err error
	if ct == contentTypeHTML {
		err = htmlreader.ReadSectionsWithCallback(reader, onSection)
	} else {
		err = textreader.SectionReader{}.ReadSectionsWithCallback(reader, onSection)
	}
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// Annotate runs the full pipeline over a request body.
func (c controller) Annotate(reader io.Reader, ct contentType) (*annotate.Document, error) {
	sections, err := c.Sections(reader, ct)
	if err != nil {
		return nil, err
	}
	return c.annotator.Annotate(sections)
}

// LookupLevel resolves one kanji character against the table.
func (c controller) LookupLevel(char string) (levels.Level, bool) {
	r, size := utf8.DecodeRuneInString(char)
	if r == utf8.RuneError || size != len(char) {
		return levels.Unknown, false
	}
	return c.table.Lookup(r), true
}

// Search queries the article index, when one is configured.
func (c controller) Search(ctx context.Context, query string, size int) ([]store.Hit, error) {
	if c.indexer == nil {
		return nil, errSearchDisabled
	}
	return c.indexer.Search(ctx, query, size)
}
