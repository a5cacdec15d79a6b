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

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v7"

	"github.com/yomiyasu/yomiyasu/lib/tagger"
)

// ElasticConfig enables the optional full-text index. The annotated
// site works without it; the search endpoint just answers 404s.
type ElasticConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Index   string `mapstructure:"index"`
}

type Indexer struct {
	es    *elasticsearch.Client
	index string
}

type esDoc struct {
	NewsID string `json:"news_id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

// Hit is one search result.
type Hit struct {
	NewsID string `json:"news_id"`
	Title  string `json:"title"`
	Date   string `json:"date"`
}

func NewIndexer(cfg ElasticConfig) (*Indexer, error) {
	if cfg.Index == "" {
		cfg.Index = "articles"
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port)},
	})
	if err != nil {
		return nil, fmt.Errorf("store: elasticsearch client: %w", err)
	}
	return &Indexer{es: es, index: cfg.Index}, nil
}

// Index stores one article's searchable text, stripped of all tagging
// so readings don't pollute term matches.
func (ix *Indexer) Index(ctx context.Context, a Article) error {
	var text bytes.Buffer
	if a.Document != nil {
		for _, section := range a.Document.Sections {
			text.WriteString(tagger.Strip(section))
			text.WriteByte('\n')
		}
	}

	body, err := json.Marshal(esDoc{
		NewsID: a.NewsID,
		Title:  a.Title,
		Date:   a.Date,
		Text:   text.String(),
	})
	if err != nil {
		return err
	}

	res, err := ix.es.Index(ix.index, bytes.NewReader(body),
		ix.es.Index.WithDocumentID(a.NewsID),
		ix.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("store: indexing %s: %w", a.NewsID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("store: indexing %s: %s", a.NewsID, res.String())
	}
	return nil
}

// Search runs a match query over titles and body text.
func (ix *Indexer) Search(ctx context.Context, query string, size int) ([]Hit, error) {
	if size <= 0 {
		size = 20
	}
	body, err := json.Marshal(map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^2", "text"},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	res, err := ix.es.Search(
		ix.es.Search.WithContext(ctx),
		ix.es.Search.WithIndex(ix.index),
		ix.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("store: search: %s", res.String())
	}

	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) ([]Hit, error) {
	var envelope struct {
		Hits struct {
			Hits []struct {
				Source Hit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("store: decoding search response: %w", err)
	}

	hits := make([]Hit, 0, len(envelope.Hits.Hits))
	for _, h := range envelope.Hits.Hits {
		hits = append(hits, h.Source)
	}
	return hits, nil
}
