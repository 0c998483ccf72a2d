package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/telemetry"
)

// Aggregation modes. Week groups by exact calendar date, month by calendar
// year-month.
const (
	ModeWeek  = "week"
	ModeMonth = "month"
)

// NutrientTotals holds summed extended nutrient values.
type NutrientTotals struct {
	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64
}

// ExtendedEntry is a log entry together with its extended values
// (per-unit nutrient times logged quantity).
type ExtendedEntry struct {
	*domain.LogEntry
	TCalories float64
	TProtein  float64
	TFat      float64
	TCarbs    float64
}

// PeriodTotal is one group of the periodic aggregate, labeled with the
// group's date or year-month string.
type PeriodTotal struct {
	LogDate   string
	TCalories float64
}

// ExtendEntry computes the extended nutrient values for one entry.
func ExtendEntry(e *domain.LogEntry) ExtendedEntry {
	return ExtendedEntry{
		LogEntry:  e,
		TCalories: e.Calories * e.Quantity,
		TProtein:  e.Protein * e.Quantity,
		TFat:      e.Fat * e.Quantity,
		TCarbs:    e.Carbs * e.Quantity,
	}
}

// DailyTotals extends every entry and sums the extended values. An empty
// entry set yields an empty list and all-zero totals, never an error.
func DailyTotals(entries []*domain.LogEntry) ([]ExtendedEntry, NutrientTotals) {
	extended := make([]ExtendedEntry, 0, len(entries))
	var totals NutrientTotals
	for _, e := range entries {
		ext := ExtendEntry(e)
		extended = append(extended, ext)
		totals.Calories += ext.TCalories
		totals.Protein += ext.TProtein
		totals.Fat += ext.TFat
		totals.Carbs += ext.TCarbs
	}
	return extended, totals
}

// AggregateByPeriod partitions entries by grouping key and sums extended
// calories per group, sorted ascending by label. Every entry lands in
// exactly one group. An empty log set yields an empty result list.
func AggregateByPeriod(entries []*domain.LogEntry, mode string) []PeriodTotal {
	sums := make(map[string]float64)
	for _, e := range entries {
		key := periodKey(e.LogDate, mode)
		sums[key] += e.Calories * e.Quantity
	}

	result := make([]PeriodTotal, 0, len(sums))
	for label, calories := range sums {
		result = append(result, PeriodTotal{LogDate: label, TCalories: calories})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LogDate < result[j].LogDate })
	return result
}

// periodKey maps a stored date string to its grouping label. Dates that do
// not parse as YYYY-MM-DD group under their raw value (week) or a
// best-effort truncation (month).
func periodKey(date, mode string) string {
	if mode != ModeMonth {
		return date
	}
	if t, err := time.Parse(domain.DateLayout, date); err == nil {
		return t.Format("2006-01")
	}
	if len(date) >= 7 {
		return date[:7]
	}
	return date
}

// csvHeader mirrors the logs relation column order.
var csvHeader = []string{"id", "user_id", "log_date", "food_name", "quantity", "calories", "protein", "fat", "carbs"}

// BuildCSV serializes the full log relation, all columns, header first.
func BuildCSV(entries []*domain.LogEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.UserID,
			e.LogDate,
			e.FoodName,
			formatFloat(e.Quantity),
			formatFloat(e.Calories),
			formatFloat(e.Protein),
			formatFloat(e.Fat),
			formatFloat(e.Carbs),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ExportUploader pushes export artifacts to object storage.
type ExportUploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
}

// ExportObjectKey is where the CSV artifact lands in the bucket when S3 is
// configured.
const ExportObjectKey = "exports/logs_export.csv"

// ReportService computes periodic aggregates and produces the CSV export
// artifact.
type ReportService struct {
	repo     LogEntryRepositoryInterface
	userID   string
	uploader ExportUploader
}

// NewReportService creates a ReportService. uploader may be nil; exports
// then stay local only.
func NewReportService(repo LogEntryRepositoryInterface, userID string, uploader ExportUploader) *ReportService {
	return &ReportService{repo: repo, userID: userID, uploader: uploader}
}

// Aggregate returns the periodic calorie aggregate over the user's full log.
// Unknown modes fall back to week grouping.
func (s *ReportService) Aggregate(ctx context.Context, mode string) ([]PeriodTotal, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.Aggregate", telemetry.SpanAttributes{
		UserID:    s.userID,
		Operation: mode,
	})
	defer span.End()

	entries, err := s.repo.ListAll(ctx, s.userID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return AggregateByPeriod(entries, mode), nil
}

// Export writes the full log relation as CSV to path, overwriting any
// previous artifact, and returns the serialized bytes. A bucket copy is
// uploaded when an uploader is configured; upload failures are logged, not
// fatal. An empty relation is rejected with domain.ErrNoLogEntries and no
// file is produced.
func (s *ReportService) Export(ctx context.Context, path string) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.Export", telemetry.SpanAttributes{
		UserID:    s.userID,
		Operation: "export",
	})
	defer span.End()

	entries, err := s.repo.ListAll(ctx, s.userID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrNoLogEntries
	}

	data, err := BuildCSV(entries)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		span.SetError(err)
		return nil, err
	}

	if s.uploader != nil {
		if err := s.uploader.Upload(ctx, ExportObjectKey, data, "text/csv"); err != nil {
			log.Printf("export: S3 upload failed: %v", err)
			telemetry.CaptureError(ctx, err)
		}
	}

	return data, nil
}
