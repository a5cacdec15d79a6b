package main

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/yomiyasu/yomiyasu/lib"
	"github.com/yomiyasu/yomiyasu/lib/annotate"
	"github.com/yomiyasu/yomiyasu/lib/levels"
	"github.com/yomiyasu/yomiyasu/lib/store"
)

type annotationAPIConfig struct {
	lib.BaseConfig `mapstructure:",squash"`
	Server         struct {
		HttpPort int `mapstructure:"http_port"`
	}
	Levels struct {
		Source string // file or redis
		File   string
		Redis  levels.RedisConfig
	}
	Elasticsearch store.ElasticConfig
}

var config annotationAPIConfig

func initConfig() {
	err := lib.InitializeConfig("./config/annotation-api.yml", map[string]interface{}{
		"log_level": "info",
		"server": map[string]interface{}{
			"http_port": 8080,
		},
		"levels": map[string]interface{}{
			"source": "file",
			"file":   "./data/wanikani-levels.json",
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

	// The table is loaded before the server accepts anything: without
	// it every response would be wrong, so this is the fail-fast point.
	table, err := loadTable()
	if err != nil {
		log.Fatal().Err(err).Msg("loading level table")
	}

	annotator, err := annotate.New(table)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	var indexer *store.Indexer
	if config.Elasticsearch.Enabled {
		indexer, err = store.NewIndexer(config.Elasticsearch)
		if err != nil {
			log.Fatal().Err(err).Msg("connecting to elasticsearch")
		}
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery(), cors.Default())

	c := controller{annotator: annotator, table: table, indexer: indexer}
	s := server{controller: c}
	s.RegisterRoutes(r)

	if err := r.Run(fmt.Sprintf(":%d", config.Server.HttpPort)); err != nil {
		log.Fatal().Err(err).Send()
	}
}
