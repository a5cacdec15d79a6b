package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/yomiyasu/yomiyasu/lib"
	"github.com/yomiyasu/yomiyasu/lib/site"
	"github.com/yomiyasu/yomiyasu/lib/store"
)

type siteConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Store          struct {
		Path string
	}
	Site        site.Config `mapstructure:"site"`
	MaxArticles int         `mapstructure:"max_articles"`
}

var config siteConfig

func initConfig() {
	err := lib.InitializeConfig("./config/site.yml", map[string]interface{}{
		"log_level":    "info",
		"max_articles": 100,
		"store": map[string]interface{}{
			"path": "./data/articles.db",
		},
		"site": map[string]interface{}{
			"output_dir":  "./docs",
			"title":       "よみやす",
			"description": "NHK Easy News with level-aware furigana",
		},
	}, &config)
	if err != nil {
		panic(err)
	}
}

func main() {
	initConfig()
	ctx := context.Background()

	db, err := store.Open(config.Store.Path)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer db.Close()

	articles, err := db.Recent(ctx, config.MaxArticles)
	if err != nil {
		log.Fatal().Err(err).Msg("reading articles")
	}
	if len(articles) == 0 {
		log.Warn().Msg("no articles in store, generating empty site")
	}

	generator, err := site.New(config.Site)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	if err := generator.Generate(articles); err != nil {
		log.Fatal().Err(err).Msg("generating site")
	}
	log.Info().Int("articles", len(articles)).Str("output", config.Site.OutputDir).Msg("site generated")
}
