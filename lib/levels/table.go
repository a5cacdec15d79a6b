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

package levels

import "errors"

// ErrNoTable is returned when a pipeline is started without a level
// table. All downstream tagging is meaningless without one, so callers
// fail fast instead of annotating with every kanji Unknown.
var ErrNoTable = errors.New("levels: no level table configured")

// Table maps a single kanji rune to its level. Lookup must be O(1)
// amortised and must answer Unknown, never an error, for runes outside
// the dataset: scraped text routinely contains untracked kanji.
// Implementations are immutable after construction.
type Table interface {
	Lookup(r rune) Level
}

// MapTable is the in-memory Table. The map is never written after New
// returns, which is what makes concurrent reads safe.
type MapTable struct {
	m map[rune]int
}

// NewMapTable copies entries into a fresh table.
func NewMapTable(entries map[rune]int) *MapTable {
	m := make(map[rune]int, len(entries))
	for r, n := range entries {
		m[r] = n
	}
	return &MapTable{m: m}
}

func (t *MapTable) Lookup(r rune) Level {
	if n, ok := t.m[r]; ok {
		return Known(n)
	}
	return Unknown
}

// Len returns the number of tracked kanji.
func (t *MapTable) Len() int {
	return len(t.m)
}

// Each calls fn for every tracked kanji, in no particular order.
func (t *MapTable) Each(fn func(r rune, level int)) {
	for r, n := range t.m {
		fn(r, n)
	}
}
