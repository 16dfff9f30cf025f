package domain

import "time"

type Article struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt,omitempty"`
	ContentHTML string    `json:"contentHtml,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Image       *Image    `json:"image,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	BlogHandle  string    `json:"blogHandle"`
}

type Blog struct {
	Handle   string    `json:"handle"`
	Title    string    `json:"title"`
	Articles []Article `json:"articles"`
}
