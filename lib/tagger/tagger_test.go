package tagger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yomiyasu/yomiyasu/lib/levels"
	"github.com/yomiyasu/yomiyasu/lib/ruby"
)

func TestSerialize(t *testing.T) {
	table := levels.NewMapTable(map[rune]int{
		'今': 5, '日': 5, '学': 10, '校': 15, '行': 20,
	})

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "annotated sentence",
			raw:  "今日（きょう）は学校（がっこう）へ行（い）きます。",
			want: `<ruby data-level="5">今日<rt>きょう</rt></ruby>は` +
				`<ruby data-level="15">学校<rt>がっこう</rt></ruby>へ` +
				`<ruby data-level="20">行<rt>い</rt></ruby>きます。`,
		},
		{
			name: "untracked kanji gets the unknown attribute",
			raw:  "鬱（うつ）",
			want: `<ruby data-level="unknown">鬱<rt>うつ</rt></ruby>`,
		},
		{
			name: "unannotated text is literal",
			raw:  "漢字とかな",
			want: "漢字とかな",
		},
		{
			name: "empty section",
			raw:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tagged := levels.ResolveAll(ruby.Parse(tt.raw), table)
			assert.Equal(t, tt.want, Serialize(tagged))
		})
	}
}

func TestSerializeEscapesMarkup(t *testing.T) {
	spans := []levels.TaggedSpan{
		{Span: ruby.Span{Kind: ruby.Plain, Text: `1 < 2 & "x"`}},
		{
			Span:    ruby.Span{Kind: ruby.Kanji, Text: "<今>", Reading: "き&ょ"},
			Level:   levels.Known(5),
			Leveled: true,
		},
	}
	got := Serialize(spans)
	assert.Equal(t,
		`1 &lt; 2 &amp; "x"<ruby data-level="5">&lt;今&gt;<rt>き&amp;ょ</rt></ruby>`,
		got)
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name: "readings and tags are dropped",
			markup: `<ruby data-level="5">今日<rt>きょう</rt></ruby>は` +
				`<ruby data-level="unknown">鬱<rt>うつ</rt></ruby>。`,
			want: "今日は鬱。",
		},
		{
			name:   "plain text untouched",
			markup: "きのう雨がふりました。",
			want:   "きのう雨がふりました。",
		},
		{
			name:   "rp fallbacks are dropped too",
			markup: "<ruby>今<rp>（</rp><rt>いま</rt><rp>）</rp></ruby>",
			want:   "今",
		},
		{
			name:   "entities are decoded",
			markup: "1 &lt; 2",
			want:   "1 < 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.markup))
		})
	}
}

func TestStripSerializeRoundTrip(t *testing.T) {
	table := levels.NewMapTable(map[rune]int{'今': 5, '日': 5})
	raw := "今日（きょう）はいい天気（てんき）です。"

	tagged := levels.ResolveAll(ruby.Parse(raw), table)
	var base string
	for _, span := range tagged {
		base += span.Text
	}
	assert.Equal(t, base, Strip(Serialize(tagged)))
}
