package main

import (
	"github.com/rs/zerolog/log"

	"github.com/yomiyasu/yomiyasu/lib"
	"github.com/yomiyasu/yomiyasu/lib/levels"
)

type levelImporterConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Dataset        string `mapstructure:"dataset"`
	PipelineSize   int    `mapstructure:"pipeline_size"`
	Redis          levels.RedisConfig
}

var config levelImporterConfig

func initConfig() {
	err := lib.InitializeConfig("./config/level-importer.yml", map[string]interface{}{
		"log_level":     "info",
		"dataset":       "./data/wanikani-levels.json",
		"pipeline_size": 1000,
		"redis": map[string]interface{}{
			"host": "localhost",
			"port": 6379,
		},
	}, &config)
	if err != nil {
		panic(err)
	}
}

func main() {
	initConfig()

	table, err := levels.LoadFile(config.Dataset)
	if err != nil {
		log.Fatal().Err(err).Str("dataset", config.Dataset).Msg("loading dataset")
	}

	writer, err := levels.NewRedisWriter(config.Redis)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	defer writer.Close()

	imported := 0
	var flushErr error
	table.Each(func(r rune, level int) {
		if flushErr != nil {
			return
		}
		writer.Put(r, level)
		imported++
		if writer.Size() >= config.PipelineSize {
			flushErr = writer.Flush()
		}
	})
	if flushErr == nil {
		flushErr = writer.Flush()
	}
	if flushErr != nil {
		log.Fatal().Err(flushErr).Msg("writing levels to redis")
	}

	log.Info().Int("kanji", imported).Msg("level dataset imported")
}
