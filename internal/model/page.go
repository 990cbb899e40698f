package model

// CrawledPage is a fetched web page.
type CrawledPage struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	StatusCode int    `json:"status_code"`
}
