package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yomiyasu/yomiyasu/lib/annotate"
	"github.com/yomiyasu/yomiyasu/lib/levels"
)

func testServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	table := levels.NewMapTable(map[rune]int{
		'今': 5, '日': 5, '学': 10, '校': 15, '行': 20,
	})
	annotator, err := annotate.New(table)
	require.NoError(t, err)

	r := gin.New()
	server{controller: controller{annotator: annotator, table: table}}.RegisterRoutes(r)
	return r
}

func do(r *gin.Engine, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnnotateEndpoint(t *testing.T) {
	r := testServer(t)

	w := do(r, http.MethodPost, "/annotate", "text/plain",
		"今日（きょう）は学校（がっこう）へ行（い）きます。")
	require.Equal(t, 200, w.Code)

	var doc annotate.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Sections, 1)
	assert.Contains(t, doc.Sections[0], `<ruby data-level="15">学校<rt>がっこう</rt></ruby>`)
	assert.Equal(t, []string{"学"}, doc.Stats.ByLevel[10])
}

func TestAnnotateEndpointHTML(t *testing.T) {
	r := testServer(t)

	w := do(r, http.MethodPost, "/annotate", "text/html",
		"<p>今日は<ruby>学校<rt>がっこう</rt></ruby>へ行きます。</p>")
	require.Equal(t, 200, w.Code)

	var doc annotate.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	require.Len(t, doc.Sections, 1)
	assert.Contains(t, doc.Sections[0], `<ruby data-level="15">学校<rt>がっこう</rt></ruby>`)
}

func TestAnnotateEndpointBadContentType(t *testing.T) {
	r := testServer(t)
	w := do(r, http.MethodPost, "/annotate", "application/json", `{"x": 1}`)
	assert.Equal(t, 400, w.Code)
}

func TestAnnotateEndpointEmptyBody(t *testing.T) {
	r := testServer(t)
	w := do(r, http.MethodPost, "/annotate", "text/plain", "")
	assert.Equal(t, 400, w.Code)
}

func TestSectionsEndpoint(t *testing.T) {
	r := testServer(t)

	w := do(r, http.MethodPost, "/sections", "text/html",
		"<p>ひとつ</p><p>ふたつ</p>")
	require.Equal(t, 200, w.Code)

	var resp struct {
		Sections []string `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"ひとつ", "ふたつ"}, resp.Sections)
}

func TestLookupLevelEndpoint(t *testing.T) {
	r := testServer(t)

	tests := []struct {
		name  string
		path  string
		code  int
		level string
	}{
		{"tracked kanji", "/levels/学", 200, "10"},
		{"untracked kanji", "/levels/鬱", 200, "unknown"},
		{"multiple characters", "/levels/学校", 400, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, "", "")
			assert.Equal(t, tt.code, w.Code)
			if tt.code == 200 {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.level, resp["level"])
			}
		})
	}
}

func TestSearchEndpointDisabled(t *testing.T) {
	r := testServer(t)
	w := do(r, http.MethodGet, "/search?q=台風", "", "")
	assert.Equal(t, 404, w.Code)
}

func TestSearchEndpointMissingQuery(t *testing.T) {
	r := testServer(t)
	w := do(r, http.MethodGet, "/search", "", "")
	assert.Equal(t, 400, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := testServer(t)
	w := do(r, http.MethodGet, "/health", "", "")
	assert.Equal(t, 200, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}
