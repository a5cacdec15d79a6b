package site

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomiyasu/yomiyasu/lib/annotate"
	"github.com/yomiyasu/yomiyasu/lib/fetch"
	"github.com/yomiyasu/yomiyasu/lib/store"
)

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	generator, err := New(Config{
		OutputDir: dir,
		Title:     "よみやす",
	})
	require.NoError(t, err)

	articles := []*store.Article{
		{
			Entry: fetch.Entry{
				NewsID: "k10014000001000",
				Title:  "台風が来る",
				Date:   "2026-08-25",
			},
			TitleTagged: `<ruby data-level="unknown">台風<rt>たいふう</rt></ruby>が来る`,
			Document: &annotate.Document{
				Sections: []string{`<ruby data-level="5">今日<rt>きょう</rt></ruby>は雨`},
				Stats: annotate.KanjiStats{
					ByLevel: map[int][]string{5: {"今", "日"}},
					Unknown: []string{"台", "風"},
				},
			},
		},
	}
	require.NoError(t, generator.Generate(articles))

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "よみやす")
	assert.Contains(t, string(index), `data-level="unknown"`)
	assert.Contains(t, string(index), "article-014000001000.html")

	article, err := os.ReadFile(filepath.Join(dir, "article-014000001000.html"))
	require.NoError(t, err)
	assert.Contains(t, string(article), `<ruby data-level="5">今日<rt>きょう</rt></ruby>`)
	assert.Contains(t, string(article), "台")

	for _, asset := range []string{"script.js", "style.css"} {
		_, err := os.Stat(filepath.Join(dir, asset))
		assert.NoError(t, err, asset)
	}
}

func TestGenerateEmpty(t *testing.T) {
	dir := t.TempDir()
	generator, err := New(Config{OutputDir: dir, Title: "test"})
	require.NoError(t, err)

	require.NoError(t, generator.Generate(nil))
	_, err = os.Stat(filepath.Join(dir, "index.html"))
	assert.NoError(t, err)
}

func TestNewCardPreview(t *testing.T) {
	c := newCard(&store.Article{
		Entry: fetch.Entry{NewsID: "k1", Title: "title"},
		Document: &annotate.Document{
			Sections: []string{`<ruby data-level="5">今日<rt>きょう</rt></ruby>は晴れです。`},
		},
	})

	// Tags and readings are stripped from the teaser.
	assert.Equal(t, "今日は晴れです。", string(c.PreviewHTML))
}

func TestNewCardPreviewTruncates(t *testing.T) {
	long := strings.Repeat("長い文章がつづく。", 30)
	c := newCard(&store.Article{
		Entry:    fetch.Entry{NewsID: "k1", Title: "title"},
		Document: &annotate.Document{Sections: []string{long}},
	})

	assert.Less(t, len([]rune(string(c.PreviewHTML))), len([]rune(long)))
	assert.NotEmpty(t, c.PreviewHTML)
}

func TestNewCardFallsBackToEscapedTitle(t *testing.T) {
	c := newCard(&store.Article{
		Entry: fetch.Entry{NewsID: "k1", Title: "a < b"},
	})
	assert.Equal(t, "a &lt; b", string(c.TitleHTML))
}
