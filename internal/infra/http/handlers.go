package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"dayboard/internal/domain"
	"dayboard/internal/lunar"
	weatherusecase "dayboard/internal/usecase/weather"
)

// NewsService отдаёт заголовки настроенных лент.
type NewsService interface {
	Headlines(ctx context.Context) ([]domain.FeedResult, error)
}

// AlmanacService отдаёт события "в этот день".
type AlmanacService interface {
	Today(ctx context.Context) (domain.OnThisDayResult, error)
}

// WeatherService отдаёт погоду и геокодирование городов.
type WeatherService interface {
	Current(ctx context.Context, lat, lon *float64) (domain.WeatherReport, error)
	Geocode(ctx context.Context, city string) ([]domain.GeoCandidate, error)
}

// Handlers собирает зависимости API в один узел маршрутизации.
type Handlers struct {
	Wallpaper domain.WallpaperService
	Settings  domain.SettingsRepo
	Cache     domain.WallpaperCache
	Exclusion domain.ExclusionStore
	Assets    domain.AssetRepo
	News      NewsService
	Almanac   AlmanacService
	Weather   WeatherService
	ImagesDir string
	Now       func() time.Time
	Log       zerolog.Logger
}

// Mount вешает маршруты API на роутер сервера.
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/wallpaper", h.getWallpaper)
		api.Post("/wallpaper/reject", h.rejectWallpaper)

		api.Get("/settings", h.getSettings)
		api.Patch("/settings", h.patchSettings)

		api.Post("/cache/clear", h.clearCache)
		api.Post("/exclusions/clear", h.clearExclusions)

		api.Get("/assets", h.listAssets)
		api.Post("/assets", h.saveAsset)
		api.Delete("/assets/{id}", h.deleteAsset)
		api.Delete("/assets", h.clearAssets)

		api.Get("/news", h.getNews)
		api.Get("/onthisday", h.getOnThisDay)
		api.Get("/weather", h.getWeather)
		api.Get("/weather/geocode", h.geocode)
		api.Get("/lunar", h.getLunar)
	})

	if h.ImagesDir != "" {
		fs := http.StripPrefix("/img/", http.FileServer(http.Dir(h.ImagesDir)))
		r.Get("/img/*", fs.ServeHTTP)
	}
}

func (h *Handlers) getWallpaper(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "1"
	writeJSON(w, h.Wallpaper.Resolve(r.Context(), force))
}

func (h *Handlers) rejectWallpaper(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var item domain.WallpaperItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, h.Wallpaper.Reject(r.Context(), item))
}

func (h *Handlers) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("api: чтение настроек")
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	writeJSON(w, settings)
}

func (h *Handlers) patchSettings(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	settings, err := h.Settings.Update(r.Context(), patch)
	if err != nil {
		h.Log.Error().Err(err).Msg("api: обновление настроек")
		writeError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}
	writeJSON(w, settings)
}

func (h *Handlers) clearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.Cache.Clear(r.Context()); err != nil {
		h.Log.Error().Err(err).Msg("api: очистка кэша обоев")
		writeError(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handlers) clearExclusions(w http.ResponseWriter, r *http.Request) {
	if err := h.Exclusion.Clear(r.Context()); err != nil {
		h.Log.Error().Err(err).Msg("api: очистка чёрного списка")
		writeError(w, http.StatusInternalServerError, "failed to clear exclusions")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handlers) listAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Assets.ListAll(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("api: список загруженных изображений")
		writeError(w, http.StatusInternalServerError, "failed to list assets")
		return
	}
	if assets == nil {
		assets = []domain.UploadedAsset{}
	}
	writeJSON(w, assets)
}

type saveAssetRequest struct {
	Name    string `json:"name"`
	Mime    string `json:"mime"`
	Size    int64  `json:"size"`
	DataURL string `json:"dataUrl"`
}

func (h *Handlers) saveAsset(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req saveAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || !strings.HasPrefix(req.DataURL, "data:") {
		writeError(w, http.StatusBadRequest, "name and dataUrl are required")
		return
	}
	asset, err := h.Assets.Save(r.Context(), domain.UploadedAsset{
		Name:    req.Name,
		Mime:    req.Mime,
		Size:    req.Size,
		DataURL: req.DataURL,
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("api: сохранение изображения")
		writeError(w, http.StatusInternalServerError, "failed to save asset")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(asset)
}

func (h *Handlers) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Assets.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		h.Log.Error().Err(err).Msg("api: удаление изображения")
		writeError(w, http.StatusInternalServerError, "failed to delete asset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) clearAssets(w http.ResponseWriter, r *http.Request) {
	if err := h.Assets.Clear(r.Context()); err != nil {
		h.Log.Error().Err(err).Msg("api: очистка изображений")
		writeError(w, http.StatusInternalServerError, "failed to clear assets")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) getNews(w http.ResponseWriter, r *http.Request) {
	feeds, err := h.News.Headlines(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("api: новости")
		writeError(w, http.StatusInternalServerError, "failed to load news")
		return
	}
	writeJSON(w, map[string]any{"feeds": feeds})
}

func (h *Handlers) getOnThisDay(w http.ResponseWriter, r *http.Request) {
	result, err := h.Almanac.Today(r.Context())
	if err != nil {
		h.Log.Error().Err(err).Msg("api: история дня")
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}
	writeJSON(w, result)
}

func (h *Handlers) getWeather(w http.ResponseWriter, r *http.Request) {
	var lat, lon *float64
	if raw := r.URL.Query().Get("lat"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			lat = &v
		}
	}
	if raw := r.URL.Query().Get("lon"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			lon = &v
		}
	}
	report, err := h.Weather.Current(r.Context(), lat, lon)
	if err != nil {
		switch {
		case errors.Is(err, weatherusecase.ErrDisabled):
			writeError(w, http.StatusConflict, "weather is disabled")
		case errors.Is(err, weatherusecase.ErrNoLocation):
			writeError(w, http.StatusBadRequest, "location is not configured")
		default:
			h.Log.Error().Err(err).Msg("api: погода")
			writeError(w, http.StatusBadGateway, "failed to load weather")
		}
		return
	}
	writeJSON(w, report)
}

func (h *Handlers) geocode(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeError(w, http.StatusBadRequest, "city is required")
		return
	}
	candidates, err := h.Weather.Geocode(r.Context(), city)
	if err != nil {
		h.Log.Error().Err(err).Msg("api: геокодирование")
		writeError(w, http.StatusBadGateway, "failed to geocode city")
		return
	}
	if candidates == nil {
		candidates = []domain.GeoCandidate{}
	}
	writeJSON(w, candidates)
}

func (h *Handlers) getLunar(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Settings.Get(r.Context())
	if err != nil {
		settings = domain.DefaultSettings()
	}

	var date lunar.Date
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date, err = lunar.FromDate(parsed.Year(), int(parsed.Month()), parsed.Day())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		date, err = lunar.FromTime(h.Now(), settings.TimeZone)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, date)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
