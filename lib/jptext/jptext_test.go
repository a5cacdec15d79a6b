package jptext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want Script
	}{
		{"common kanji", '今', ScriptKanji},
		{"iteration mark", '々', ScriptKanji},
		{"hiragana", 'き', ScriptKana},
		{"katakana", 'カ', ScriptKana},
		{"prolonged sound mark", 'ー', ScriptKana},
		{"fullwidth punctuation", '。', ScriptOther},
		{"latin", 'a', ScriptOther},
		{"digit", '3', ScriptOther},
		{"fullwidth bracket", '（', ScriptOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.r))
		})
	}
}

func TestIsReading(t *testing.T) {
	assert.True(t, IsReading("きょう"))
	assert.True(t, IsReading("コーヒー"))
	assert.False(t, IsReading(""))
	assert.False(t, IsReading("きょu"))
	assert.False(t, IsReading("今日"))
	assert.False(t, IsReading("きょ う"))
}

func TestNormalize(t *testing.T) {
	// Fullwidth ASCII and halfwidth katakana fold to canonical forms.
	assert.Equal(t, "NHK", Normalize("ＮＨＫ"))
	assert.Equal(t, "ガンバレ", Normalize("ｶﾞﾝﾊﾞﾚ"))
}

func TestKanji(t *testing.T) {
	assert.Equal(t, []rune{'今', '日', '学'}, Kanji("今日は今、学ぶ"))
	assert.Nil(t, Kanji("ひらがなだけ"))
}

func TestWords(t *testing.T) {
	// UAX#29 gives each Han character its own segment and keeps kana
	// runs together; punctuation is dropped.
	assert.Equal(t, []string{"今", "日", "は", "hello"}, Words("今日は hello。"))
	assert.Empty(t, Words("、。  "))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "今日", TruncateWords("今日は晴れ", 2))
	assert.Equal(t, "今日は晴れ", TruncateWords("今日は晴れ", 100))
	assert.Equal(t, "", TruncateWords("今日", 0))
}
