package domain

import "strings"

const (
	// DateLayout is the canonical format for log dates.
	DateLayout = "2006-01-02"

	// DefaultQuantity is applied when a log request omits the quantity.
	DefaultQuantity = 1.0
)

// LogEntry is one recorded instance of a food consumed at a quantity on a
// date. Nutrient fields are per single unit; extended values are computed by
// the report engine, never stored.
type LogEntry struct {
	ID       int64
	UserID   string
	LogDate  string
	FoodName string
	Quantity float64
	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64
}

// FoodCandidate is a per-serving nutrient profile returned by the lookup
// client for a searched food name. It exists only within a single search
// response and is never persisted.
type FoodCandidate struct {
	FoodName string
	Calories float64
	Protein  float64
	Fat      float64
	Carbs    float64
}

// NewLogEntry creates a LogEntry without an ID; the repository assigns one
// on insert.
func NewLogEntry(userID, logDate, foodName string, quantity, calories, protein, fat, carbs float64) *LogEntry {
	return &LogEntry{
		UserID:   userID,
		LogDate:  logDate,
		FoodName: foodName,
		Quantity: quantity,
		Calories: calories,
		Protein:  protein,
		Fat:      fat,
		Carbs:    carbs,
	}
}

// ValidateLogEntry validates a LogEntry before insert.
func ValidateLogEntry(e *LogEntry) error {
	if e == nil {
		return ErrMissingFoodName
	}

	if strings.TrimSpace(e.FoodName) == "" {
		return ErrMissingFoodName
	}

	if e.UserID == "" {
		return ErrMissingUserID
	}

	if e.LogDate == "" {
		return ErrMissingLogDate
	}

	return nil
}
