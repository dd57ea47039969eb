package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<item>
  <title>  Первая новость </title>
  <link>https://news.example/1</link>
  <pubDate>Sat, 14 Mar 2026 08:30:00 +0000</pubDate>
</item>
<item>
  <title>Без ссылки</title>
</item>
<item>
  <title>Склеенный хост</title>
  <link>https://www.chinanews.com.cnhttps://www.chinanews.com.cn/gn/2026/03-14/1.shtml</link>
  <pubDate>Sat, 14 Mar 2026 09:00:00 +0800</pubDate>
</item>
</channel>
</rss>`

const atomBody = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Feed</title>
  <entry>
    <title>Atom запись</title>
    <link href="https://atom.example/1"/>
    <updated>2026-03-14T10:00:00Z</updated>
  </entry>
</feed>`

func TestFetchRSS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssBody))
	}))
	defer srv.Close()

	f := NewFetcher(0)
	res, err := f.Fetch(context.Background(), srv.URL, "Asia/Shanghai")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !res.Success {
		t.Fatalf("ожидали успешную загрузку")
	}
	if res.SourceName != "Test Feed" {
		t.Fatalf("ожидали имя из ленты, получили %q", res.SourceName)
	}
	if len(res.Items) != 2 {
		t.Fatalf("запись без ссылки отбрасывается, получили %d записей", len(res.Items))
	}
	if res.Items[0].Title != "Первая новость" {
		t.Fatalf("заголовок должен быть обрезан, получили %q", res.Items[0].Title)
	}
	// 08:30 UTC это 16:30 в Шанхае.
	if res.Items[0].Date != "2026-03-14 16:30:00" {
		t.Fatalf("дата должна приводиться к зоне настроек, получили %q", res.Items[0].Date)
	}
	if res.Items[1].Link != "https://www.chinanews.com.cn/gn/2026/03-14/1.shtml" {
		t.Fatalf("удвоенный хост должен чиниться, получили %q", res.Items[1].Link)
	}
}

func TestFetchAtom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomBody))
	}))
	defer srv.Close()

	f := NewFetcher(0)
	res, err := f.Fetch(context.Background(), srv.URL, "UTC")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("ожидали одну запись, получили %d", len(res.Items))
	}
	if res.Items[0].Date != "2026-03-14 10:00:00" {
		t.Fatalf("для Atom берётся updated, получили %q", res.Items[0].Date)
	}
}

func TestFetchErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewFetcher(0)
	if _, err := f.Fetch(context.Background(), srv.URL, "UTC"); err == nil {
		t.Fatalf("ожидали ошибку загрузки")
	}
}

func TestFetchEmptyURL(t *testing.T) {
	f := NewFetcher(0)
	if _, err := f.Fetch(context.Background(), "   ", "UTC"); err == nil {
		t.Fatalf("ожидали ошибку на пустом URL")
	}
}

func TestFixDoubledHost(t *testing.T) {
	cases := map[string]string{
		"https://www.chinanews.com.cnhttps://www.chinanews.com.cn/x": "https://www.chinanews.com.cn/x",
		"https://www.chinanews.com.cn/x":                             "https://www.chinanews.com.cn/x",
		"https://other.example/y":                                    "https://other.example/y",
	}
	for in, want := range cases {
		if got := fixDoubledHost(in); got != want {
			t.Fatalf("fixDoubledHost(%q) = %q, ожидали %q", in, got, want)
		}
	}
}
