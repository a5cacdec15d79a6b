// Package fetch is the article fetcher: NHK Easy list JSON, article
// bodies and images. It hands raw annotated HTML to the annotation
// pipeline and knows nothing about levels or tagging.
package fetch

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Entry is one article from the news list, with the metadata the site
// keeps alongside the annotated body.
type Entry struct {
	NewsID          string `json:"news_id"`
	Title           string `json:"title"`
	TitleWithRuby   string `json:"title_with_ruby"`
	Date            string `json:"date"`
	PublicationTime string `json:"publication_time"`
	HasVoice        bool   `json:"has_voice"`
	HasImage        bool   `json:"has_image"`
	ImageURL        string `json:"image_url"`
	ImageSource     string `json:"image_source"`
	VoiceURI        string `json:"voice_uri"`
	WebURL          string `json:"original_web_url"`
}

// The list endpoint returns an array of objects keyed by date, each
// date holding that day's articles.
type newsList []map[string][]listItem

type listItem struct {
	Title           string `json:"title"`
	NewsID          string `json:"news_id"`
	TitleWithRuby   string `json:"title_with_ruby"`
	PublicationTime string `json:"news_publication_time"`
	HasVoice        bool   `json:"has_news_easy_voice"`
	HasImage        bool   `json:"has_news_easy_image"`
	EasyImageURI    string `json:"news_easy_image_uri"`
	WebImageURI     string `json:"news_web_image_uri"`
	VoiceURI        string `json:"news_easy_voice_uri"`
	WebURL          string `json:"news_web_url"`
}

// ParseNewsList decodes the list JSON into entries, newest date first,
// capped at max when max > 0. Items without a title or news id are
// skipped; the feed occasionally carries placeholder rows.
func ParseNewsList(r io.Reader, max int) ([]Entry, error) {
	var list newsList
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("fetch: decoding news list: %w", err)
	}

	var entries []Entry
	for _, byDate := range list {
		dates := make([]string, 0, len(byDate))
		for date := range byDate {
			dates = append(dates, date)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(dates)))

		for _, date := range dates {
			for _, item := range byDate[date] {
				if item.Title == "" || item.NewsID == "" {
					continue
				}
				entries = append(entries, item.entry(date))
				if max > 0 && len(entries) >= max {
					return entries, nil
				}
			}
		}
	}
	return entries, nil
}

func (item listItem) entry(date string) Entry {
	imageURL, imageSource := item.EasyImageURI, "easy"
	if imageURL == "" {
		imageURL, imageSource = item.WebImageURI, "web"
	}
	if imageURL == "" {
		imageSource = "none"
	}

	return Entry{
		NewsID:          item.NewsID,
		Title:           item.Title,
		TitleWithRuby:   item.TitleWithRuby,
		Date:            date,
		PublicationTime: item.PublicationTime,
		HasVoice:        item.HasVoice,
		HasImage:        item.HasImage,
		ImageURL:        imageURL,
		ImageSource:     imageSource,
		VoiceURI:        item.VoiceURI,
		WebURL:          item.WebURL,
	}
}
