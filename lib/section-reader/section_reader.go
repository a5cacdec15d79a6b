// Package section_reader streams annotatable text sections out of a raw
// article document. Implementations exist for the scraped HTML bodies
// and for plain text; both yield sections in the paren annotation
// convention so the ruby parser only ever sees one input shape.
package section_reader

import "io"

type Client interface {
	ReadSections(r io.Reader) <-chan Value
	ReadSectionsWithCallback(r io.Reader, onSection func(section string) error) error
}

type Value struct {
	Section string
	Err     error
}

// ReadChannelWithCallback drains a section channel into a callback,
// translating the terminating io.EOF into a clean stop.
func ReadChannelWithCallback(values <-chan Value, callback func(section string) error) error {
	for value := range values {
		if value.Err == io.EOF {
			break
		} else if value.Err != nil {
			return value.Err
		}
		if err := callback(value.Section); err != nil {
			return err
		}
	}
	return nil
}

// Collect drains a section channel into a slice, for callers that want
// the whole article at once.
func Collect(values <-chan Value) ([]string, error) {
	var sections []string
	err := ReadChannelWithCallback(values, func(section string) error {
		sections = append(sections, section)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sections, nil
}
