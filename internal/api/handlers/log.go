package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nutrilog/nutrilog/internal/api"
	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/service"
)

type LogService interface {
	LogFood(ctx context.Context, input service.LogFoodInput) (*domain.LogEntry, error)
	DeleteEntry(ctx context.Context, id int64) error
	DailyLogFor(ctx context.Context, date string) (*service.DailyLog, error)
	Today() string
}

type LogHandler struct {
	svc LogService
}

func NewLogHandler(svc LogService) *LogHandler {
	return &LogHandler{svc: svc}
}

// looseFloat accepts a JSON number, a numeric string, or null. Values that
// fail to parse absorb to 0 instead of rejecting the request.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = looseFloat(v)
	return nil
}

// optionalFloat records whether the field appeared in the request body at
// all. An explicit null parses to 0 like any other unparseable value; only
// a truly absent quantity takes the one-serving default.
type optionalFloat struct {
	value looseFloat
	set   bool
}

func (f *optionalFloat) UnmarshalJSON(data []byte) error {
	f.set = true
	return f.value.UnmarshalJSON(data)
}

type LogFoodRequest struct {
	Name     string        `json:"name"`
	Quantity optionalFloat `json:"quantity"`
	LogDate  string        `json:"log_date"`
	Calories looseFloat    `json:"calories"`
	Protein  looseFloat    `json:"protein"`
	Fat      looseFloat    `json:"fat"`
	Carbs    looseFloat    `json:"carbs"`
}

// Create handles POST /api/log.
func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LogFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		api.Error(w, http.StatusBadRequest, "missing name")
		return
	}

	input := service.LogFoodInput{
		Name:     req.Name,
		LogDate:  req.LogDate,
		Calories: float64(req.Calories),
		Protein:  float64(req.Protein),
		Fat:      float64(req.Fat),
		Carbs:    float64(req.Carbs),
	}
	if req.Quantity.set {
		quantity := float64(req.Quantity.value)
		input.Quantity = &quantity
	}

	if _, err := h.svc.LogFood(r.Context(), input); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/logs/{id}. Deleting a nonexistent id reports
// success.
func (h *LogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.svc.DeleteEntry(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "id": id})
}
