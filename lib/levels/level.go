// Package levels resolves the proficiency level of kanji runs against a
// level table. Tables are read-only after construction and safe for
// concurrent readers, so articles can be annotated in parallel against a
// shared table.
package levels

import "strconv"

// Level is the proficiency tier of a kanji. It is an explicit variant
// rather than a bare integer so that "not in the table" cannot collide
// with a real level value: Unknown sorts above every known level and is
// therefore never hidden by any learner threshold.
type Level struct {
	n     int
	known bool
}

// Unknown is the sentinel for kanji absent from the table.
var Unknown = Level{}

// Known returns the level for a kanji the table tracks.
func Known(n int) Level {
	return Level{n: n, known: true}
}

// Value returns the numeric level and whether it is known.
func (l Level) Value() (int, bool) {
	return l.n, l.known
}

// Before reports whether l orders strictly below other. Unknown orders
// above every known level.
func (l Level) Before(other Level) bool {
	switch {
	case !l.known:
		return false
	case !other.known:
		return true
	default:
		return l.n < other.n
	}
}

// MaxLevel returns the harder of a and b.
func MaxLevel(a, b Level) Level {
	if a.Before(b) {
		return b
	}
	return a
}

// Hidden reports whether a reading at this level should be hidden from a
// learner at the given threshold. Unknown is never hidden: a learner
// cannot have learned a kanji the table does not track.
func (l Level) Hidden(threshold int) bool {
	return l.known && l.n <= threshold
}

// Attr is the machine-readable form used in markup data attributes and
// read back by the client-side toggle.
func (l Level) Attr() string {
	if !l.known {
		return "unknown"
	}
	return strconv.Itoa(l.n)
}

func (l Level) String() string {
	return l.Attr()
}
