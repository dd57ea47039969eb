package almanac

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"dayboard/internal/domain"
)

type stubSettings struct {
	settings domain.Settings
}

func (s *stubSettings) Get(context.Context) (domain.Settings, error) { return s.settings, nil }
func (s *stubSettings) Update(context.Context, map[string]any) (domain.Settings, error) {
	return s.settings, nil
}

type stubFetcher struct {
	byLang map[string]domain.OnThisDayResult
	err    error
	calls  []string
}

func (f *stubFetcher) Events(_ context.Context, mm, dd, lang string) (domain.OnThisDayResult, error) {
	f.calls = append(f.calls, lang)
	if f.err != nil {
		return domain.OnThisDayResult{}, f.err
	}
	return f.byLang[lang], nil
}

type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Set(key string, value []byte, _ time.Duration) error {
	m.data[key] = value
	return nil
}
func (m *memKV) Get(key string) ([]byte, error) {
	if raw, ok := m.data[key]; ok {
		return raw, nil
	}
	return nil, errors.New("нет значения")
}

func settingsWith(source, lang string) domain.Settings {
	s := domain.DefaultSettings()
	s.OnThisDaySource = source
	s.EventsLang = lang
	return s
}

func event(text string) domain.OnThisDayResult {
	return domain.OnThisDayResult{Events: []domain.OnThisDayEvent{{Year: "1879", Text: text}}}
}

func TestTodayUsesBaikeByDefault(t *testing.T) {
	baike := &stubFetcher{byLang: map[string]domain.OnThisDayResult{"zh": event("事件")}}
	wiki := &stubFetcher{}
	svc := NewService(&stubSettings{settings: settingsWith("baike", "zh")}, baike, wiki, newMemKV(), zerolog.Nop())

	got, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got.Events) != 1 || got.Events[0].Text != "事件" {
		t.Fatalf("ожидали события Baike, получили %+v", got)
	}
	if len(wiki.calls) != 0 {
		t.Fatalf("Википедия не должна была вызываться")
	}
}

func TestTodayWikipediaFallsBackToEnglish(t *testing.T) {
	wiki := &stubFetcher{byLang: map[string]domain.OnThisDayResult{
		"zh": {},
		"en": event("Einstein born"),
	}}
	svc := NewService(&stubSettings{settings: settingsWith("wikipedia", "zh")}, &stubFetcher{}, wiki, newMemKV(), zerolog.Nop())

	got, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got.Events) != 1 || got.Events[0].Text != "Einstein born" {
		t.Fatalf("при пустом ответе ожидали английский, получили %+v", got)
	}
	want := []string{"zh", "en"}
	if len(wiki.calls) != 2 || wiki.calls[0] != want[0] || wiki.calls[1] != want[1] {
		t.Fatalf("ожидали вызовы %v, получили %v", want, wiki.calls)
	}
}

func TestTodayWikipediaEnglishNoDoubleCall(t *testing.T) {
	wiki := &stubFetcher{byLang: map[string]domain.OnThisDayResult{"en": {}}}
	svc := NewService(&stubSettings{settings: settingsWith("wikipedia", "en")}, &stubFetcher{}, wiki, newMemKV(), zerolog.Nop())

	if _, err := svc.Today(context.Background()); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(wiki.calls) != 1 {
		t.Fatalf("для английского второго вызова нет, получили %v", wiki.calls)
	}
}

func TestTodayCachesResult(t *testing.T) {
	baike := &stubFetcher{byLang: map[string]domain.OnThisDayResult{"zh": event("事件")}}
	svc := NewService(&stubSettings{settings: settingsWith("baike", "zh")}, baike, &stubFetcher{}, newMemKV(), zerolog.Nop())

	if _, err := svc.Today(context.Background()); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if _, err := svc.Today(context.Background()); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(baike.calls) != 1 {
		t.Fatalf("повтор должен идти из кэша, вызовов: %d", len(baike.calls))
	}
}

func TestTodayPropagatesSourceError(t *testing.T) {
	baike := &stubFetcher{err: errors.New("сеть недоступна")}
	svc := NewService(&stubSettings{settings: settingsWith("baike", "zh")}, baike, &stubFetcher{}, newMemKV(), zerolog.Nop())

	if _, err := svc.Today(context.Background()); err == nil {
		t.Fatalf("ожидали ошибку источника")
	}
}
