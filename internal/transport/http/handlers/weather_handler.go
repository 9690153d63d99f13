package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/farmnet/backend/internal/service"
)

type WeatherHandler struct {
	weatherService *service.WeatherService
	logger         *zap.Logger
}

func NewWeatherHandler(weatherService *service.WeatherService, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService, logger: logger}
}

func (h *WeatherHandler) Hourly(w http.ResponseWriter, r *http.Request) {
	lat := r.URL.Query().Get("lat")
	lon := r.URL.Query().Get("lon")
	if lat == "" || lon == "" {
		writeError(w, http.StatusBadRequest, "lat and lon query parameters are required")
		return
	}

	forecast, err := h.weatherService.Hourly(r.Context(), lat, lon)
	if err != nil {
		h.logger.Error("weather lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, forecast)
}
