package fetch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleList = `[
  {
    "2026-08-24": [
      {
        "news_id": "k10014000001000",
        "title": "古い記事",
        "title_with_ruby": "<ruby>古<rt>ふる</rt></ruby>い記事",
        "news_publication_time": "2026-08-24T11:30:00+09:00",
        "has_news_easy_voice": true,
        "has_news_easy_image": false,
        "news_easy_image_uri": "",
        "news_web_image_uri": "https://example.test/web.jpg",
        "news_easy_voice_uri": "voice1.m4a",
        "news_web_url": "https://example.test/news/1"
      }
    ],
    "2026-08-25": [
      {
        "news_id": "k10014000002000",
        "title": "新しい記事",
        "title_with_ruby": "<ruby>新<rt>あたら</rt></ruby>しい記事",
        "news_publication_time": "2026-08-25T18:00:00+09:00",
        "has_news_easy_voice": false,
        "has_news_easy_image": true,
        "news_easy_image_uri": "https://example.test/easy.jpg",
        "news_web_image_uri": "https://example.test/web2.jpg",
        "news_easy_voice_uri": "",
        "news_web_url": "https://example.test/news/2"
      },
      {
        "news_id": "",
        "title": "placeholder row"
      }
    ]
  }
]`

func TestParseNewsList(t *testing.T) {
	entries, err := ParseNewsList(strings.NewReader(sampleList), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest date first.
	assert.Equal(t, "k10014000002000", entries[0].NewsID)
	assert.Equal(t, "2026-08-25", entries[0].Date)
	assert.Equal(t, "k10014000001000", entries[1].NewsID)

	// The easy image is preferred, the web image is the fallback.
	assert.Equal(t, "https://example.test/easy.jpg", entries[0].ImageURL)
	assert.Equal(t, "easy", entries[0].ImageSource)
	assert.Equal(t, "https://example.test/web.jpg", entries[1].ImageURL)
	assert.Equal(t, "web", entries[1].ImageSource)

	assert.True(t, entries[1].HasVoice)
	assert.Equal(t, "<ruby>新<rt>あたら</rt></ruby>しい記事", entries[0].TitleWithRuby)
}

func TestParseNewsListCap(t *testing.T) {
	entries, err := ParseNewsList(strings.NewReader(sampleList), 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k10014000002000", entries[0].NewsID)
}

func TestParseNewsListBadJSON(t *testing.T) {
	_, err := ParseNewsList(strings.NewReader(`{"not": "a list"}`), 0)
	assert.Error(t, err)
}
