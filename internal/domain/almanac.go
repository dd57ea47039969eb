package domain

// Источники событий «в этот день».
const (
	OnThisDayBaike     = "baike"
	OnThisDayWikipedia = "wikipedia"
)

// OnThisDayEvent историческое событие текущей даты.
type OnThisDayEvent struct {
	Year string `json:"year"`
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
	Lang string `json:"lang,omitempty"`
}

// OnThisDayResult набор событий на день с указанием источника.
type OnThisDayResult struct {
	MM     string           `json:"mm"`
	DD     string           `json:"dd"`
	Events []OnThisDayEvent `json:"events"`
	Source string           `json:"source"`
}
