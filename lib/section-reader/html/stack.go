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

package html

import "container/list"

// htmlStack tracks the open-tag chain while tokenizing, so text can be
// attributed to the nearest block element and ruby annotations can be
// folded back into their surrounding text.
type htmlStack struct {
	*list.List
	disallowed      bool
	disallowedDepth int
	appendMode      bool
	appendModeTag   *htmlTag
	appendModeDepth int
	ruby            *rubyCapture
	rubyDepth       int
	rubyPart        string
	rubyPartDepth   int
}

type htmlTag struct {
	name      string
	innerText []byte
}

// rubyCapture accumulates the pieces of one ruby element: the base text
// that stays visible and the rt reading that becomes the bracketed
// annotation. rp fallback brackets are dropped, they exist only for
// browsers without ruby support.
type rubyCapture struct {
	base    []byte
	reading []byte
}

func (s *htmlStack) push(tag *htmlTag) {
	if s.List == nil {
		s.List = list.New()
	}
	s.PushFront(tag)

	if !s.disallowed {
		if _, ok := disallowedNodes[tag.name]; ok {
			s.disallowed = true
			s.disallowedDepth = s.Len()
		}
	}

	if s.ruby == nil && tag.name == "ruby" {
		s.ruby = &rubyCapture{}
		s.rubyDepth = s.Len()
	} else if s.ruby != nil && s.rubyPart == "" && (tag.name == "rt" || tag.name == "rp") {
		s.rubyPart = tag.name
		s.rubyPartDepth = s.Len()
	}

	if !s.appendMode {
		if _, ok := inlineNodes[tag.name]; ok && s.Len() > 1 {
			s.appendMode = true
			s.appendModeDepth = s.Len()
			s.appendModeTag = s.Front().Next().Value.(*htmlTag)
		}
	}
}

// collectText routes tokenizer text to the right accumulator: the ruby
// capture when inside a ruby element, otherwise the innerText of the
// tag a section will be emitted for.
func (s *htmlStack) collectText(text []byte) {
	if s.List == nil || s.Front() == nil {
		return
	}

	if s.ruby != nil {
		switch s.rubyPart {
		case "rt":
			s.ruby.reading = append(s.ruby.reading, text...)
		case "rp":
			// fallback brackets, dropped
		default:
			s.ruby.base = append(s.ruby.base, text...)
		}
		return
	}

	var tag *htmlTag
	if s.appendMode {
		tag = s.appendModeTag
	} else {
		tag = s.Front().Value.(*htmlTag)
	}
	tag.innerText = append(tag.innerText, text...)
}

func (s *htmlStack) pop(callback func(tag *htmlTag) error) error {
	if s.List == nil {
		return nil
	}
	e := s.Front()
	if e == nil {
		return nil
	}

	if s.disallowed && s.Len() == s.disallowedDepth {
		s.disallowed = false
		s.disallowedDepth = 0
	}
	if s.rubyPart != "" && s.Len() == s.rubyPartDepth {
		s.rubyPart = ""
		s.rubyPartDepth = 0
	}
	if s.appendMode && s.Len() == s.appendModeDepth {
		s.appendMode = false
		s.appendModeDepth = 0
		s.appendModeTag = nil
	}

	tag := e.Value.(*htmlTag)
	s.Remove(e)

	if s.ruby != nil && s.Len() == s.rubyDepth-1 && tag.name == "ruby" {
		flushed := s.ruby.flush()
		s.ruby = nil
		s.rubyDepth = 0
		if s.Front() == nil {
			// Bare ruby fragment with no enclosing block, as in list
			// JSON titles. The flushed text still needs a home.
			s.push(&htmlTag{name: "body"})
		}
		s.collectText(flushed)
	}

	return callback(tag)
}

// flush renders the capture in the paren convention. A ruby element
// without a usable reading degrades to its base text.
func (c *rubyCapture) flush() []byte {
	if len(c.reading) == 0 {
		return c.base
	}
	out := make([]byte, 0, len(c.base)+len(c.reading)+6)
	out = append(out, c.base...)
	out = append(out, "（"...)
	out = append(out, c.reading...)
	out = append(out, "）"...)
	return out
}
