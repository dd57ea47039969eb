package domain

// Источники обоев, выбираемые настройкой wallpaperSource.
const (
	SourceLocal          = ProviderLocal
	SourceUploaded       = ProviderUploaded
	SourceDailyPhoto     = ProviderDailyPhoto
	SourceDailyPhotoOnce = ProviderDailyPhotoOnce
	SourceCollection     = ProviderCollection
)

// Режимы обновления фона.
const (
	RefreshDaily  = "daily"
	RefreshAlways = "always"
)

// RSSFeed одна лента новостей в настройках.
type RSSFeed struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Settings пользовательские настройки дашборда.
type Settings struct {
	UILang               string    `json:"uiLang"`
	EventsLang           string    `json:"eventsLang"`
	BgRefresh            string    `json:"bgRefresh"`
	WallpaperSource      string    `json:"wallpaperSource"`
	UnsplashAccessKey    string    `json:"unsplashAccessKey"`
	UnsplashCollectionID string    `json:"unsplashCollectionId"`
	RSSFeeds             []RSSFeed `json:"rssFeeds"`
	TimeZone             string    `json:"timeZone"`
	OnThisDaySource      string    `json:"onThisDaySource"`
	WeatherEnabled       bool      `json:"weatherEnabled"`
	WeatherLocMethod     string    `json:"weatherLocMethod"`
	WeatherCity          string    `json:"weatherCity"`
	WeatherLat           string    `json:"weatherLat"`
	WeatherLon           string    `json:"weatherLon"`
}

// DefaultSettings настройки по умолчанию, поверх которых мержится сохранённое.
func DefaultSettings() Settings {
	return Settings{
		UILang:          "en",
		EventsLang:      "en",
		BgRefresh:       RefreshAlways,
		WallpaperSource: SourceDailyPhoto,
		RSSFeeds: []RSSFeed{
			{Title: "中新网", URL: "https://www.chinanews.com.cn/rss/scroll-news.xml"},
			{Title: "VOA", URL: "https://www.voachinese.com/rssfeeds"},
			{Title: "36Kr", URL: "https://36kr.com/feed"},
		},
		TimeZone:         "Asia/Shanghai",
		OnThisDaySource:  "baike",
		WeatherEnabled:   false,
		WeatherLocMethod: "auto",
	}
}

// KnownSource проверяет, что источник обоев из числа выбираемых.
func KnownSource(s string) bool {
	switch s {
	case SourceLocal, SourceUploaded, SourceDailyPhoto, SourceDailyPhotoOnce, SourceCollection:
		return true
	}
	return false
}
