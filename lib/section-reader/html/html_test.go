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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	section_reader "github.com/yomiyasu/yomiyasu/lib/section-reader"
)

func TestReadSections(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "empty body",
			body: "",
			want: nil,
		},
		{
			name: "one section per block",
			body: "<div><p>きのう雨がふりました。</p><p>きょうは晴れです。</p></div>",
			want: []string{"きのう雨がふりました。", "きょうは晴れです。"},
		},
		{
			name: "ruby folds to the paren convention",
			body: "<p>今日は<ruby>学校<rt>がっこう</rt></ruby>へ行きます。</p>",
			want: []string{"今日は学校（がっこう）へ行きます。"},
		},
		{
			name: "rp fallback brackets are dropped",
			body: "<p><ruby>今<rp>（</rp><rt>いま</rt><rp>）</rp></ruby>です</p>",
			want: []string{"今（いま）です"},
		},
		{
			name: "ruby without a reading degrades to base text",
			body: "<p><ruby>漢字</ruby>のれんしゅう</p>",
			want: []string{"漢字のれんしゅう"},
		},
		{
			name: "bare ruby fragment",
			body: "<ruby>被害<rt>ひがい</rt></ruby>が出た",
			want: []string{"被害（ひがい）が出た"},
		},
		{
			name: "inline elements stay in the enclosing block",
			body: "<p>あの<span>とても</span>大きい</p>",
			want: []string{"あのとても大きい"},
		},
		{
			name: "script content is skipped",
			body: "<p>ほんぶん</p><script>var x = 1;</script><p>つづき</p>",
			want: []string{"ほんぶん", "つづき"},
		},
		{
			name: "br becomes a newline inside the section",
			body: "<p>一行目<br>二行目</p>",
			want: []string{"一行目\n二行目"},
		},
		{
			name: "whitespace only sections are dropped",
			body: "<p>  </p><p>text</p>",
			want: []string{"text"},
		},
		{
			name: "bare text with no markup",
			body: "こんにちは",
			want: []string{"こんにちは"},
		},
		{
			name: "unclosed block is flushed at end of document",
			body: "<p>とちゅうで切れた",
			want: []string{"とちゅうで切れた"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := section_reader.Collect(ReadSections(strings.NewReader(tt.body)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadSectionsWithCallbackStopsOnError(t *testing.T) {
	body := "<p>一</p><p>二</p><p>三</p>"
	var seen []string
	err := ReadSectionsWithCallback(strings.NewReader(body), func(section string) error {
		seen = append(seen, section)
		if len(seen) == 2 {
			return assert.AnError
		}
		return nil
	})
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, []string{"一", "二"}, seen)
}
