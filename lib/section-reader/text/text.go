// Package text reads sections from plain annotated text, one section
// per paragraph. Paragraphs are separated by blank lines, the shape the
// scraper produces when it flattens an article body.
package text

import (
	"bufio"
	"io"
	"strings"

	section_reader "github.com/yomiyasu/yomiyasu/lib/section-reader"
)

type SectionReader struct{}

func (SectionReader) ReadSections(r io.Reader) <-chan section_reader.Value {
	return ReadSections(r)
}

func (SectionReader) ReadSectionsWithCallback(r io.Reader, onSection func(string) error) error {
	return section_reader.ReadChannelWithCallback(ReadSections(r), onSection)
}

func ReadSections(r io.Reader) <-chan section_reader.Value {
	sections := make(chan section_reader.Value)
	go textToSections(r, sections)
	return sections
}

func textToSections(r io.Reader, sections chan section_reader.Value) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var paragraph []string
	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		sections <- section_reader.Value{Section: strings.Join(paragraph, "\n")}
		paragraph = paragraph[:0]
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		paragraph = append(paragraph, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		sections <- section_reader.Value{Err: err}
		return
	}
	sections <- section_reader.Value{Err: io.EOF}
}
