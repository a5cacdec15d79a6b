package levels

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// LoadJSON reads a level dataset in the WaniKani export shape: a JSON
// object of kanji character to level, e.g. {"今": 5, "日": 5}. Keys that
// are not a single kanji and negative levels are skipped with a warning
// rather than failing the load, since the export is regenerated from an
// external API and drifts occasionally.
func LoadJSON(r io.Reader) (*MapTable, error) {
	var raw map[string]int
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("levels: decoding dataset: %w", err)
	}

	entries := make(map[rune]int, len(raw))
	for key, n := range raw {
		char, size := utf8.DecodeRuneInString(key)
		if char == utf8.RuneError || size != len(key) {
			log.Warn().Str("key", key).Msg("skipping dataset entry: not a single character")
			continue
		}
		if n < 0 {
			log.Warn().Str("key", key).Int("level", n).Msg("skipping dataset entry: negative level")
			continue
		}
		entries[char] = n
	}
	return NewMapTable(entries), nil
}

// LoadFile opens and loads a dataset file. A missing file is the
// fail-fast case: without a table the whole pipeline is pointless.
func LoadFile(path string) (*MapTable, error) {
	if path == "" {
		return nil, ErrNoTable
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("levels: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}
