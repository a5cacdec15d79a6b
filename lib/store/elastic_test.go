package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHits(t *testing.T) {
	body := `{
		"hits": {
			"total": {"value": 2},
			"hits": [
				{"_id": "k1", "_source": {"news_id": "k1", "title": "台風", "date": "2026-08-25"}},
				{"_id": "k2", "_source": {"news_id": "k2", "title": "選挙", "date": "2026-08-24"}}
			]
		}
	}`
	hits, err := decodeHits(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, Hit{NewsID: "k1", Title: "台風", Date: "2026-08-25"}, hits[0])
}

func TestDecodeHitsEmpty(t *testing.T) {
	hits, err := decodeHits(strings.NewReader(`{"hits": {"hits": []}}`))
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDecodeHitsMalformed(t *testing.T) {
	_, err := decodeHits(strings.NewReader("not json"))
	assert.Error(t, err)
}
