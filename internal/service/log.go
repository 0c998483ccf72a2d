package service

import (
	"context"
	"strings"
	"time"

	"github.com/nutrilog/nutrilog/internal/domain"
	"github.com/nutrilog/nutrilog/internal/telemetry"
)

// LogEntryRepositoryInterface defines the repository interface for log
// entry persistence
type LogEntryRepositoryInterface interface {
	Insert(ctx context.Context, e *domain.LogEntry) error
	Delete(ctx context.Context, id int64) error
	ListByDate(ctx context.Context, userID, date string) ([]*domain.LogEntry, error)
	ListAll(ctx context.Context, userID string) ([]*domain.LogEntry, error)
}

// LogService handles recording, deleting and retrieving consumption events
// for one user.
type LogService struct {
	repo   LogEntryRepositoryInterface
	userID string
	now    func() time.Time
}

// NewLogService creates a new LogService instance
func NewLogService(repo LogEntryRepositoryInterface, userID string) *LogService {
	return &LogService{repo: repo, userID: userID, now: time.Now}
}

// NewLogServiceWithClock creates a LogService with a custom clock (for testing)
func NewLogServiceWithClock(repo LogEntryRepositoryInterface, userID string, now func() time.Time) *LogService {
	return &LogService{repo: repo, userID: userID, now: now}
}

// LogFoodInput represents the input for recording a consumed food. Quantity
// is a pointer so an omitted quantity (defaults to 1.0) is distinguishable
// from an explicit zero.
type LogFoodInput struct {
	Name     string
	Quantity *float64
	LogDate  string
	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64
}

// DailyLog is the result of a by-date query: the date's entries, most
// recent first, with their extended values and summed totals.
type DailyLog struct {
	Date    string
	Entries []ExtendedEntry
	Totals  NutrientTotals
}

// LogFood validates and records one consumption event. The date defaults to
// today when absent; the id is assigned by the store.
func (s *LogService) LogFood(ctx context.Context, input LogFoodInput) (*domain.LogEntry, error) {
	logDate := input.LogDate
	if logDate == "" {
		logDate = s.Today()
	}

	quantity := domain.DefaultQuantity
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	entry := domain.NewLogEntry(
		s.userID, logDate, strings.TrimSpace(input.Name),
		quantity, input.Calories, input.Protein, input.Fat, input.Carbs,
	)
	if err := domain.ValidateLogEntry(entry); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "LogService.LogFood", telemetry.SpanAttributes{
		UserID:  s.userID,
		LogDate: logDate,
	})
	defer span.End()

	if err := s.repo.Insert(ctx, entry); err != nil {
		span.SetError(err)
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes one entry by id. Absence of a matching row is not an
// error; deletion is idempotent.
func (s *LogService) DeleteEntry(ctx context.Context, id int64) error {
	ctx, span := telemetry.StartSpan(ctx, "LogService.DeleteEntry", telemetry.SpanAttributes{
		UserID: s.userID,
	})
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// DailyLogFor returns the entries and extended totals for one date. A date
// with no entries yields an empty list and zero totals.
func (s *LogService) DailyLogFor(ctx context.Context, date string) (*DailyLog, error) {
	ctx, span := telemetry.StartSpan(ctx, "LogService.DailyLogFor", telemetry.SpanAttributes{
		UserID:  s.userID,
		LogDate: date,
	})
	defer span.End()

	entries, err := s.repo.ListByDate(ctx, s.userID, date)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	extended, totals := DailyTotals(entries)
	return &DailyLog{Date: date, Entries: extended, Totals: totals}, nil
}

// Today returns the current local date in the canonical layout.
func (s *LogService) Today() string {
	return s.now().Format(domain.DateLayout)
}
