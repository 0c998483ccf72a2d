package handlers

import (
	"context"
	"net/http"

	"github.com/nutrilog/nutrilog/internal/api"
	"github.com/nutrilog/nutrilog/internal/service"
)

type ReportService interface {
	Aggregate(ctx context.Context, mode string) ([]service.PeriodTotal, error)
	Export(ctx context.Context, path string) ([]byte, error)
}

// ReportHandler serves the retrieval surfaces: by-date, today, periodic
// aggregate and CSV export.
type ReportHandler struct {
	logs       LogService
	reports    ReportService
	exportPath string
}

func NewReportHandler(logs LogService, reports ReportService, exportPath string) *ReportHandler {
	return &ReportHandler{logs: logs, reports: reports, exportPath: exportPath}
}

type LogEntryResponse struct {
	ID        int64   `json:"id"`
	UserID    string  `json:"user_id"`
	LogDate   string  `json:"log_date"`
	FoodName  string  `json:"food_name"`
	Quantity  float64 `json:"quantity"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Fat       float64 `json:"fat"`
	Carbs     float64 `json:"carbs"`
	TCalories float64 `json:"t_calories"`
	TProtein  float64 `json:"t_protein"`
	TFat      float64 `json:"t_fat"`
	TCarbs    float64 `json:"t_carbs"`
}

type TotalsResponse struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
}

type DailyLogResponse struct {
	Date    string             `json:"date"`
	Entries []LogEntryResponse `json:"entries"`
	Totals  TotalsResponse     `json:"totals"`
}

type PeriodTotalResponse struct {
	LogDate   string  `json:"log_date"`
	TCalories float64 `json:"t_calories"`
}

func dailyLogToResponse(daily *service.DailyLog) DailyLogResponse {
	entries := make([]LogEntryResponse, len(daily.Entries))
	for i, e := range daily.Entries {
		entries[i] = LogEntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			LogDate:   e.LogDate,
			FoodName:  e.FoodName,
			Quantity:  e.Quantity,
			Calories:  e.Calories,
			Protein:   e.Protein,
			Fat:       e.Fat,
			Carbs:     e.Carbs,
			TCalories: e.TCalories,
			TProtein:  e.TProtein,
			TFat:      e.TFat,
			TCarbs:    e.TCarbs,
		}
	}
	return DailyLogResponse{
		Date:    daily.Date,
		Entries: entries,
		Totals: TotalsResponse{
			Calories: daily.Totals.Calories,
			Protein:  daily.Totals.Protein,
			Fat:      daily.Totals.Fat,
			Carbs:    daily.Totals.Carbs,
		},
	}
}

// ByDate handles GET /api/logs/by-date?date=.
func (h *ReportHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		api.Error(w, http.StatusBadRequest, "missing date")
		return
	}

	h.writeDailyLog(w, r, date)
}

// Today handles GET /api/logs/today.
func (h *ReportHandler) Today(w http.ResponseWriter, r *http.Request) {
	h.writeDailyLog(w, r, h.logs.Today())
}

func (h *ReportHandler) writeDailyLog(w http.ResponseWriter, r *http.Request, date string) {
	daily, err := h.logs.DailyLogFor(r.Context(), date)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, dailyLogToResponse(daily))
}

// Aggregate handles GET /api/logs/aggregate?mode=. Mode defaults to week;
// an empty log set yields an empty JSON array.
func (h *ReportHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = service.ModeWeek
	}

	groups, err := h.reports.Aggregate(r.Context(), mode)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	response := make([]PeriodTotalResponse, len(groups))
	for i, g := range groups {
		response[i] = PeriodTotalResponse{LogDate: g.LogDate, TCalories: g.TCalories}
	}

	api.JSON(w, http.StatusOK, response)
}

// Export handles GET /api/logs/export: the full relation as a downloadable
// CSV attachment. An empty relation is a client error and no file is
// produced.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.reports.Export(r.Context(), h.exportPath)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="logs_export.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
