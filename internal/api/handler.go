package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexivanou/calendar-core/internal/jdn"
	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/alexivanou/calendar-core/internal/service"
	"github.com/alexivanou/calendar-core/internal/shiftwork"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// maxScheduleBody bounds a PUT /shift/schedule body
const maxScheduleBody = 64 << 10

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// ListCities handles GET /api/v1/cities
func (h *Handler) ListCities(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.ListCities(r.Context(), r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, "Error listing cities", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, response)
}

// ReloadCities handles POST /api/v1/cities/reload
func (h *Handler) ReloadCities(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ReloadDirectory(r.Context()); err != nil {
		h.fail(w, "Error reloading city directory", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FindNearestCity handles GET /api/v1/city/nearest
func (h *Handler) FindNearestCity(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	if latStr == "" || lonStr == "" {
		http.Error(w, "parameters 'lat' and 'lon' are required", http.StatusBadRequest)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		http.Error(w, "invalid lat parameter", http.StatusBadRequest)
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		http.Error(w, "invalid lon parameter", http.StatusBadRequest)
		return
	}

	response, err := h.service.FindNearestCity(r.Context(), lat, lon, r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, "Error finding nearest city", err)
		return
	}

	if response == nil {
		http.Error(w, "no cities found", http.StatusNotFound)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, response)
}

// GetCity handles GET /api/v1/city/{key}
func (h *Handler) GetCity(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if key == "" {
		http.Error(w, "city key is required", http.StatusBadRequest)
		return
	}

	city, err := h.service.GetCity(r.Context(), key, r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, "Error getting city", err)
		return
	}

	if city == nil {
		http.Error(w, "city not found", http.StatusNotFound)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, city)
}

// ListCountries handles GET /api/v1/countries
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.ListCountries(r.Context(), r.URL.Query().Get("lang"))
	if err != nil {
		h.fail(w, "Error listing countries", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, response)
}

// GetAvailableLanguages handles GET /api/v1/languages
func (h *Handler) GetAvailableLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.service.GetAvailableLanguages(r.Context())
	if err != nil {
		h.fail(w, "Error getting available languages", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"languages": languages,
		"count":     len(languages),
	})
}

// ShiftDay handles GET /api/v1/shift/day?jdn=N or ?date=YYYY-MM-DD
func (h *Handler) ShiftDay(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var raw string
	switch {
	case q.Get("jdn") != "":
		raw = q.Get("jdn")
	case q.Get("date") != "":
		raw = q.Get("date")
	default:
		http.Error(w, "parameter 'jdn' or 'date' is required", http.StatusBadRequest)
		return
	}

	day, err := parseDay(raw)
	if err != nil {
		http.Error(w, "invalid day: "+raw, http.StatusBadRequest)
		return
	}

	response, err := h.service.ShiftDay(r.Context(), model.ShiftDayRequest{
		JDN:         day,
		Abbreviated: parseFlag(q.Get("abbreviated")),
		Lang:        q.Get("lang"),
	})
	if err != nil {
		h.fail(w, "Error resolving shift day", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, response)
}

// ShiftRange handles GET /api/v1/shift/range?from=&to=
func (h *Handler) ShiftRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	fromStr, toStr := q.Get("from"), q.Get("to")
	if fromStr == "" || toStr == "" {
		http.Error(w, "parameters 'from' and 'to' are required", http.StatusBadRequest)
		return
	}

	from, err := parseDay(fromStr)
	if err != nil {
		http.Error(w, "invalid from parameter", http.StatusBadRequest)
		return
	}
	to, err := parseDay(toStr)
	if err != nil {
		http.Error(w, "invalid to parameter", http.StatusBadRequest)
		return
	}

	response, err := h.service.ShiftRange(r.Context(), model.ShiftRangeRequest{
		From:        from,
		To:          to,
		Abbreviated: parseFlag(q.Get("abbreviated")),
		Lang:        q.Get("lang"),
	})
	if err != nil {
		h.fail(w, "Error resolving shift range", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, response)
}

// GetSchedule handles GET /api/v1/shift/schedule
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	response, err := h.service.GetSchedule(r.Context())
	if err != nil {
		h.fail(w, "Error describing schedule", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, response)
}

// ReplaceSchedule handles PUT /api/v1/shift/schedule
func (h *Handler) ReplaceSchedule(w http.ResponseWriter, r *http.Request) {
	var req model.ShiftScheduleRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScheduleBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	response, err := h.service.ReplaceSchedule(r.Context(), req)
	if err != nil {
		h.fail(w, "Error replacing schedule", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, response)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", zap.Error(err))
	}
}

// fail maps service errors to status codes. Client mistakes are not logged.
func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, shiftwork.ErrInvalidSegment), errors.Is(err, shiftwork.ErrInvalidStart):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(msg, zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// parseDay accepts a JDN or a YYYY-MM-DD date.
func parseDay(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, nil
	}
	return jdn.Parse(raw)
}

func parseFlag(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
