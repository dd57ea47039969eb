package domain

// NewsItem одна новость из RSS/Atom ленты.
type NewsItem struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Date  string `json:"date,omitempty"`
}

// FeedResult результат загрузки одной ленты. Ошибка ленты не валит весь
// запрос: возвращается запись с Success=false.
type FeedResult struct {
	Items      []NewsItem `json:"items"`
	SourceName string     `json:"sourceName"`
	SourceURL  string     `json:"sourceUrl"`
	Success    bool       `json:"success"`
	Error      string     `json:"error,omitempty"`
}
