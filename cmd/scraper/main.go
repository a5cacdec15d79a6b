package main

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yomiyasu/yomiyasu/lib"
	"github.com/yomiyasu/yomiyasu/lib/annotate"
	"github.com/yomiyasu/yomiyasu/lib/fetch"
	"github.com/yomiyasu/yomiyasu/lib/levels"
	htmlreader "github.com/yomiyasu/yomiyasu/lib/section-reader/html"
	"github.com/yomiyasu/yomiyasu/lib/store"
)

type scraperConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Scraper        fetch.Config  `mapstructure:"scraper"`
	Delay          time.Duration `mapstructure:"delay"`
	Auth           struct {
		Enabled bool `mapstructure:"enabled"`
		fetch.AuthConfig `mapstructure:",squash"`
	}
	Levels struct {
		Source string
		File   string
		Redis  levels.RedisConfig
	}
	Store struct {
		Path      string
		ImagesDir string `mapstructure:"images_dir"`
	}
	Elasticsearch store.ElasticConfig
}

var config scraperConfig

func initConfig() {
	err := lib.InitializeConfig("./config/scraper.yml", map[string]interface{}{
		"log_level": "info",
		"delay":     "1s",
		"scraper": map[string]interface{}{
			"base_url":     "https://news.web.nhk/news/easy",
			"list_url":     "https://news.web.nhk/news/easy/news-list.json",
			"max_articles": 30,
			"timeout":      "30s",
		},
		"auth": map[string]interface{}{
			"enabled":   true,
			"terms_url": "https://news.web.nhk/news/easy/",
			"headless":  true,
		},
		"levels": map[string]interface{}{
			"source": "file",
			"file":   "./data/wanikani-levels.json",
		},
		"store": map[string]interface{}{
			"path":       "./data/articles.db",
			"images_dir": "./docs/images",
		},
	}, &config)
	if err != nil {
		panic(err)
	}
}

func loadTable() (levels.Table, error) {
	switch config.Levels.Source {
	case "redis":
		return levels.LoadRedis(config.Levels.Redis)
	default:
		return levels.LoadFile(config.Levels.File)
	}
}

func main() {
	initConfig()
	ctx := context.Background()

	table, err := loadTable()
	if err != nil {
		log.Fatal().Err(err).Msg("loading level table")
	}
	annotator, err := annotate.New(table)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	db, err := store.Open(config.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer db.Close()

	var indexer *store.Indexer
	if config.Elasticsearch.Enabled {
		if indexer, err = store.NewIndexer(config.Elasticsearch); err != nil {
			log.Fatal().Err(err).Msg("connecting to elasticsearch")
		}
	}

	client := fetch.NewClient(config.Scraper)
	if config.Auth.Enabled {
		token, err := fetch.NewAuthenticator(config.Auth.AuthConfig).Token(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("auth token acquisition failed, proceeding unauthenticated")
		} else {
			client.SetToken(token)
		}
	}

	entries, err := client.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("fetching news list")
	}

	scraped := 0
	for i, entry := range entries {
		if err := processEntry(ctx, client, annotator, db, indexer, entry); err != nil {
			// One bad article never stops the batch.
			log.Error().Err(err).Str("news_id", entry.NewsID).Msg("skipping article")
		} else {
			scraped++
		}
		if i < len(entries)-1 {
			time.Sleep(config.Delay)
		}
	}
	log.Info().Int("scraped", scraped).Int("total", len(entries)).Msg("scrape complete")
}

func processEntry(
	ctx context.Context,
	client *fetch.Client,
	annotator *annotate.Annotator,
	db *store.Store,
	indexer *store.Indexer,
	entry fetch.Entry,
) error {
	article, err := client.Article(ctx, entry)
	if err != nil {
		return err
	}

	var sections []string
	err = htmlreader.ReadSectionsWithCallback(strings.NewReader(article.BodyHTML), func(section string) error {
		sections = append(sections, section)
		return nil
	})
	if err != nil {
		return err
	}

	doc, err := annotator.Annotate(sections)
	if err != nil {
		return err
	}

	imagePath := ""
	if entry.ImageURL != "" {
		if imagePath, err = client.DownloadImage(ctx, entry, config.Store.ImagesDir); err != nil {
			log.Warn().Err(err).Str("news_id", entry.NewsID).Msg("image download failed")
			imagePath = ""
		}
	}

	record := store.Article{
		Entry:       entry,
		URL:         article.URL,
		TitleTagged: tagTitle(annotator, entry, article.Title),
		ImagePath:   filepath.ToSlash(imagePath),
		BodyHTML:    article.BodyHTML,
		Document:    doc,
		ScrapedAt:   time.Now(),
	}
	if err := db.Upsert(ctx, record); err != nil {
		return err
	}

	if indexer != nil {
		if err := indexer.Index(ctx, record); err != nil {
			// The index is derived data; sqlite already has the article.
			log.Warn().Err(err).Str("news_id", entry.NewsID).Msg("indexing failed")
		}
	}

	log.Info().Str("news_id", entry.NewsID).Str("title", article.Title).Msg("article scraped")
	return nil
}

// tagTitle annotates the ruby title from the list JSON. The list carries
// <ruby> markup, so it goes through the same reader as article bodies.
func tagTitle(annotator *annotate.Annotator, entry fetch.Entry, fallback string) string {
	source := entry.TitleWithRuby
	if source == "" {
		source = fallback
	}
	var sections []string
	err := htmlreader.ReadSectionsWithCallback(strings.NewReader(source), func(section string) error {
		sections = append(sections, section)
		return nil
	})
	if err != nil || len(sections) == 0 {
		return ""
	}
	doc, err := annotator.Annotate(sections[:1])
	if err != nil || len(doc.Sections) == 0 {
		return ""
	}
	return doc.Sections[0]
}
