// Package store persists scraped articles and their annotated bodies.
// SQLite is the system of record; the elasticsearch index is a derived,
// optional search surface.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yomiyasu/yomiyasu/lib/annotate"
	"github.com/yomiyasu/yomiyasu/lib/fetch"
)

// ErrNotFound is returned by Get for an unknown news id.
var ErrNotFound = errors.New("store: article not found")

// Article is one scraped article with its annotation output. The raw
// body is kept so articles can be re-annotated against a new level
// table without re-fetching.
type Article struct {
	fetch.Entry
	URL         string
	TitleTagged string
	ImagePath   string
	BodyHTML    string
	Document    *annotate.Document
	ScrapedAt   time.Time
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS articles (
	news_id          TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	title_with_ruby  TEXT NOT NULL DEFAULT '',
	title_tagged     TEXT NOT NULL DEFAULT '',
	url              TEXT NOT NULL,
	date             TEXT NOT NULL DEFAULT '',
	publication_time TEXT NOT NULL DEFAULT '',
	image_path       TEXT NOT NULL DEFAULT '',
	body_html        TEXT NOT NULL,
	document_json    TEXT NOT NULL DEFAULT '',
	scraped_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS articles_date ON articles (date DESC, publication_time DESC);
`

// Open opens or creates the article database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Upsert inserts or replaces an article by news id.
func (s *Store) Upsert(ctx context.Context, a Article) error {
	docJSON := ""
	if a.Document != nil {
		b, err := json.Marshal(a.Document)
		if err != nil {
			return fmt.Errorf("store: marshalling document: %w", err)
		}
		docJSON = string(b)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (
			news_id, title, title_with_ruby, title_tagged, url, date,
			publication_time, image_path, body_html, document_json, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (news_id) DO UPDATE SET
			title = excluded.title,
			title_with_ruby = excluded.title_with_ruby,
			title_tagged = excluded.title_tagged,
			url = excluded.url,
			date = excluded.date,
			publication_time = excluded.publication_time,
			image_path = excluded.image_path,
			body_html = excluded.body_html,
			document_json = excluded.document_json,
			scraped_at = excluded.scraped_at`,
		a.NewsID, a.Title, a.TitleWithRuby, a.TitleTagged, a.URL, a.Date,
		a.PublicationTime, a.ImagePath, a.BodyHTML, docJSON, a.ScrapedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("store: upserting %s: %w", a.NewsID, err)
	}
	return nil
}

const selectColumns = `news_id, title, title_with_ruby, title_tagged, url, date,
	publication_time, image_path, body_html, document_json, scraped_at`

// Get returns one article by news id.
func (s *Store) Get(ctx context.Context, newsID string) (*Article, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM articles WHERE news_id = ?`, newsID)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, newsID)
	}
	return a, err
}

// Recent returns up to limit articles, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Article, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM articles
		 ORDER BY date DESC, publication_time DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: listing articles: %w", err)
	}
	defer rows.Close()

	var articles []*Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row scanner) (*Article, error) {
	var a Article
	var docJSON string
	err := row.Scan(
		&a.NewsID, &a.Title, &a.TitleWithRuby, &a.TitleTagged, &a.URL, &a.Date,
		&a.PublicationTime, &a.ImagePath, &a.BodyHTML, &docJSON, &a.ScrapedAt,
	)
	if err != nil {
		return nil, err
	}
	if docJSON != "" {
		a.Document = &annotate.Document{}
		if err := json.Unmarshal([]byte(docJSON), a.Document); err != nil {
			return nil, fmt.Errorf("store: unmarshalling document for %s: %w", a.NewsID, err)
		}
	}
	return &a, nil
}
