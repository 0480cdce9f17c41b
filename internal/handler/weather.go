package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/otion-app/otion/internal/model"
)

// WeatherProvider returns current conditions at a coordinate.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*model.Conditions, error)
}

type WeatherHandler struct {
	weather WeatherProvider
}

func NewWeatherHandler(weather WeatherProvider) *WeatherHandler {
	return &WeatherHandler{
		weather: weather,
	}
}

// Current serves ?lat=&lon=. Upstream failures degrade to {"available": false} with 200.
func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		renderError(w, r, model.NewValidationError("위치 정보가 올바르지 않습니다."))
		return
	}

	conditions, err := h.weather.Current(r.Context(), lat, lon)
	if err != nil {
		slog.Warn("weather unavailable", "error", err)
		renderJSON(w, http.StatusOK, map[string]any{
			"ok":        true,
			"available": false,
			"message":   "날씨 정보를 불러올 수 없습니다.",
		})
		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"available": true,
		"weather":   conditions,
	})
}
