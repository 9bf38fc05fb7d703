package search

import "time"

// Result is one hit. Title and PublishDate are empty when the engine has none.
type Result struct {
	Title       string   `json:"title,omitempty"`
	URL         string   `json:"url"`
	PublishDate string   `json:"publish_date,omitempty"`
	Excerpts    []string `json:"excerpts"`
	Score       float64  `json:"score,omitempty"`
}

type Response struct {
	SearchID  string        `json:"search_id"`
	Objective string        `json:"objective"`
	Queries   []string      `json:"queries,omitempty"`
	Mode      Mode          `json:"mode"`
	Results   []Result      `json:"results"`
	Engine    string        `json:"engine"`
	Duration  time.Duration `json:"duration"`
}
