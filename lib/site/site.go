// Package site renders the static site: an index of article cards and
// one page per article, plus the stylesheet and the client script that
// toggles furigana visibility against the learner's level. Templates
// and assets are embedded so the binary is self-contained.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yomiyasu/yomiyasu/lib/jptext"
	"github.com/yomiyasu/yomiyasu/lib/store"
	"github.com/yomiyasu/yomiyasu/lib/tagger"
)

// Word budget for index-page card previews.
const previewWords = 40

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets/*
var assetFS embed.FS

type Config struct {
	OutputDir       string `mapstructure:"output_dir"`
	Title           string `mapstructure:"title"`
	Description     string `mapstructure:"description"`
	GoatcounterCode string `mapstructure:"goatcounter_code"`
}

type Generator struct {
	cfg  Config
	tmpl *template.Template
}

// page is the data handed to both templates.
type page struct {
	SiteTitle       string
	SiteDescription string
	GoatcounterCode string
	GeneratedAt     string
	Articles        []*card
	Article         *card
}

// card is one article prepared for rendering. Tagged markup fields are
// template.HTML: they are produced by our own serializer, not by the
// source site.
type card struct {
	Slug        string
	Title       string
	TitleHTML   template.HTML
	Date        string
	URL         string
	ImagePath   string
	BodyHTML    template.HTML
	PreviewHTML template.HTML
	Unknown     []string
}

func New(cfg Config) (*Generator, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("site: parsing templates: %w", err)
	}
	return &Generator{cfg: cfg, tmpl: tmpl}, nil
}

// Generate writes the whole site. Existing pages are overwritten;
// nothing else in the output directory is touched, so scraped images
// survive regeneration.
func (g *Generator) Generate(articles []*store.Article) error {
	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("site: %w", err)
	}

	cards := make([]*card, 0, len(articles))
	for _, a := range articles {
		cards = append(cards, newCard(a))
	}

	if err := g.render("index.html", "index.html.tmpl", page{
		SiteTitle:       g.cfg.Title,
		SiteDescription: g.cfg.Description,
		GoatcounterCode: g.cfg.GoatcounterCode,
		GeneratedAt:     time.Now().Format("2006年01月02日 15:04"),
		Articles:        cards,
	}); err != nil {
		return err
	}

	for _, c := range cards {
		if err := g.render(c.Slug+".html", "article.html.tmpl", page{
			SiteTitle:       g.cfg.Title,
			GoatcounterCode: g.cfg.GoatcounterCode,
			Article:         c,
		}); err != nil {
			return err
		}
	}

	if err := g.copyAssets(); err != nil {
		return err
	}

	log.Info().Int("articles", len(cards)).Str("dir", g.cfg.OutputDir).Msg("site generated")
	return nil
}

func newCard(a *store.Article) *card {
	c := &card{
		Slug:      Slug(a.Title, a.NewsID),
		Title:     a.Title,
		TitleHTML: template.HTML(a.TitleTagged),
		Date:      a.Date,
		URL:       a.URL,
		ImagePath: a.ImagePath,
	}
	if c.TitleHTML == "" {
		c.TitleHTML = template.HTML(template.HTMLEscapeString(a.Title))
	}
	if a.Document != nil {
		c.BodyHTML = template.HTML(a.Document.Body())
		c.Unknown = a.Document.Stats.Unknown
		if len(a.Document.Sections) > 0 {
			// Cards show a plain-text teaser; readings and tags belong
			// to the article page.
			preview := jptext.TruncateWords(tagger.Strip(a.Document.Sections[0]), previewWords)
			c.PreviewHTML = template.HTML(template.HTMLEscapeString(preview))
		}
	}
	return c
}

func (g *Generator) render(filename, tmplName string, data page) error {
	f, err := os.Create(filepath.Join(g.cfg.OutputDir, filename))
	if err != nil {
		return fmt.Errorf("site: %w", err)
	}
	defer f.Close()

	if err := g.tmpl.ExecuteTemplate(f, tmplName, data); err != nil {
		return fmt.Errorf("site: rendering %s: %w", filename, err)
	}
	return nil
}

func (g *Generator) copyAssets() error {
	entries, err := assetFS.ReadDir("assets")
	if err != nil {
		return fmt.Errorf("site: %w", err)
	}
	for _, entry := range entries {
		data, err := assetFS.ReadFile("assets/" + entry.Name())
		if err != nil {
			return fmt.Errorf("site: %w", err)
		}
		dest := filepath.Join(g.cfg.OutputDir, entry.Name())
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("site: %w", err)
		}
	}
	return nil
}
