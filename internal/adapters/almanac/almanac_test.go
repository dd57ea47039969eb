package almanac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBaikeEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cms/home/eventsOnHistory/03.json" {
			t.Fatalf("неожиданный путь %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"03":{"0314":[
			{"year":"1879","title":"<a href=\"#\">爱因斯坦</a>  出生","link":"https://baike.baidu.com/item/x"},
			{"year":"2000","title":"<b></b>","link":""}
		]}}`))
	}))
	defer srv.Close()

	b := NewBaike(srv.Client(), srv.URL)
	got, err := b.Events(context.Background(), "03", "14", "zh")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("пустой после чистки текст отбрасывается, получили %d событий", len(got.Events))
	}
	if got.Events[0].Text != "爱因斯坦 出生" {
		t.Fatalf("HTML должен вычищаться, получили %q", got.Events[0].Text)
	}
	if got.Events[0].Year != "1879" {
		t.Fatalf("неожиданный год %q", got.Events[0].Year)
	}
	if got.Source != "百度百科（历史上的今天）" {
		t.Fatalf("неожиданный источник %q", got.Source)
	}
}

func TestBaikeUnpaddedMonthKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"3":{"0314":[{"year":"1990","title":"событие","link":""}]}}`))
	}))
	defer srv.Close()

	b := NewBaike(srv.Client(), srv.URL)
	got, err := b.Events(context.Background(), "03", "14", "zh")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("месяц без ведущего нуля тоже должен находиться, получили %d", len(got.Events))
	}
}

func TestWikipediaEventsSkipsYearPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/en/api/rest_v1/feed/onthisday/events/03/14" {
			t.Fatalf("неожиданный путь %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"events":[{
			"year":1879,
			"text":"Albert Einstein is born.",
			"pages":[
				{"title":"1879","content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/1879"}}},
				{"title":"Albert Einstein","content_urls":{"desktop":{"page":"https://en.wikipedia.org/wiki/Albert_Einstein"}}}
			]
		}]}`))
	}))
	defer srv.Close()

	w := NewWikipedia(srv.Client(), srv.URL+"/%s")
	got, err := w.Events(context.Background(), "03", "14", "en")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got.Events) != 1 {
		t.Fatalf("ожидали одно событие, получили %d", len(got.Events))
	}
	if got.Events[0].URL != "https://en.wikipedia.org/wiki/Albert_Einstein" {
		t.Fatalf("страница года должна пропускаться, получили %q", got.Events[0].URL)
	}
	if got.Events[0].Year != "1879" {
		t.Fatalf("неожиданный год %q", got.Events[0].Year)
	}
}

func TestWikipediaConstructsPageURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"events":[{
			"year":2004,
			"text":"Что-то случилось.",
			"pages":[{"title":"Некое событие","lang":"zh"}]
		}]}`))
	}))
	defer srv.Close()

	w := NewWikipedia(srv.Client(), srv.URL+"/%s")
	got, err := w.Events(context.Background(), "03", "14", "zh")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if !strings.Contains(got.Events[0].URL, "/zh/wiki/") {
		t.Fatalf("ссылка должна конструироваться с языком страницы, получили %q", got.Events[0].URL)
	}
	if got.Source != "Wikipedia (zh)" {
		t.Fatalf("неожиданный источник %q", got.Source)
	}
}

func TestStripHTML(t *testing.T) {
	if got := stripHTML("<p>a  <b>b</b>\n c</p>"); got != "a b c" {
		t.Fatalf("stripHTML вернул %q", got)
	}
}
