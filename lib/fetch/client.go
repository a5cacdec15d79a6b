package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/yomiyasu/yomiyasu/lib/jptext"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// ErrNoBody is returned when an article page has none of the known
// body containers. The page layout changes occasionally; the selectors
// below are tried in order.
var ErrNoBody = errors.New("fetch: no article body found")

var bodyIDs = []string{"js-article-body", "news_body"}
var bodyClasses = []string{"article-main__body", "article-body", "content-body"}
var titleIDs = []string{"news_title"}
var titleClasses = []string{"article-main__title", "news-title"}

type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	ListURL     string        `mapstructure:"list_url"`
	MaxArticles int           `mapstructure:"max_articles"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// Article is one fetched article: its list entry plus the raw annotated
// body HTML, ruby markup intact.
type Article struct {
	Entry
	URL      string
	Title    string
	BodyHTML string
}

type Client struct {
	cfg   Config
	http  *http.Client
	token string
}

func NewClient(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// SetToken attaches the z_at auth cookie to subsequent requests. The
// client works without one until the source starts rejecting
// unauthenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: "z_at", Value: c.token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch: GET %s: status %d", url, resp.StatusCode)
	}
	return resp, nil
}

// List fetches and parses the news list.
func (c *Client) List(ctx context.Context) ([]Entry, error) {
	resp, err := c.get(ctx, c.cfg.ListURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	entries, err := ParseNewsList(resp.Body, c.cfg.MaxArticles)
	if err != nil {
		return nil, err
	}
	log.Info().Int("entries", len(entries)).Msg("news list fetched")
	return entries, nil
}

// ArticleURL builds the canonical article page URL for an entry.
func (c *Client) ArticleURL(entry Entry) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/%s/%s.html", base, entry.NewsID, entry.NewsID)
}

// Article fetches one article page and extracts its title and annotated
// body HTML.
func (c *Client) Article(ctx context.Context, entry Entry) (*Article, error) {
	url := c.ArticleURL(entry)
	resp, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: parsing %s: %w", url, err)
	}

	bodyNode := findNode(doc, bodyIDs, bodyClasses)
	if bodyNode == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoBody, url)
	}

	// Page titles carry fullwidth ASCII and the occasional halfwidth
	// katakana; NFKC folds both before anything downstream sees them.
	title := jptext.Normalize(entry.Title)
	if titleNode := findNode(doc, titleIDs, titleClasses); titleNode != nil {
		if t := strings.TrimSpace(nodeText(titleNode)); t != "" {
			title = jptext.Normalize(t)
		}
	}

	return &Article{
		Entry:    entry,
		URL:      url,
		Title:    title,
		BodyHTML: innerHTML(bodyNode),
	}, nil
}

// DownloadImage stores the entry's image under destDir and returns the
// path relative to destDir's parent, the form article pages link to.
// Returns "" without error when the entry has no image.
func (c *Client) DownloadImage(ctx context.Context, entry Entry, destDir string) (string, error) {
	if entry.ImageURL == "" {
		return "", nil
	}

	filename := entry.ImageURL[strings.LastIndex(entry.ImageURL, "/")+1:]
	if filename == "" || !strings.Contains(filename, ".") {
		return "", nil
	}
	safeName := fmt.Sprintf("%s_%s", entry.NewsID, filename)
	localPath := filepath.Join(destDir, safeName)

	if _, err := os.Stat(localPath); err == nil {
		return filepath.Join(filepath.Base(destDir), safeName), nil
	}

	resp, err := c.get(ctx, entry.ImageURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return "", err
	}

	log.Debug().Str("image", safeName).Int("bytes", len(data)).Msg("image downloaded")
	return filepath.Join(filepath.Base(destDir), safeName), nil
}

// findNode walks the parse tree for the first element matching any of
// the given ids, then any of the given classes.
func findNode(root *html.Node, ids, classes []string) *html.Node {
	for _, id := range ids {
		if n := matchAttr(root, "id", id); n != nil {
			return n
		}
	}
	for _, class := range classes {
		if n := matchAttr(root, "class", class); n != nil {
			return n
		}
	}
	return nil
}

func matchAttr(n *html.Node, key, want string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key != key {
				continue
			}
			if key == "class" {
				for _, c := range strings.Fields(attr.Val) {
					if c == want {
						return n
					}
				}
			} else if attr.Val == want {
				return n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := matchAttr(child, key, want); found != nil {
			return found
		}
	}
	return nil
}

func innerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		_ = html.Render(&buf, child)
	}
	return buf.String()
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(nodeText(child))
	}
	return b.String()
}
