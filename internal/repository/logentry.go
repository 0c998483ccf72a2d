package repository

import (
	"context"
	"database/sql"

	"github.com/nutrilog/nutrilog/internal/domain"
)

// LogEntryRepository persists consumption events in the logs relation.
// Every operation acquires a connection from the pool, runs its statement
// and releases it; there are no cross-request transactions.
type LogEntryRepository struct {
	db *sql.DB
}

func NewLogEntryRepository(db *sql.DB) *LogEntryRepository {
	return &LogEntryRepository{db: db}
}

const logEntryColumns = `id, user_id, log_date, food_name, quantity, calories, protein, fat, carbs`

// Insert persists a new entry and assigns its id. The id is immutable once
// assigned.
func (r *LogEntryRepository) Insert(ctx context.Context, e *domain.LogEntry) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO logs (user_id, log_date, food_name, quantity, calories, protein, fat, carbs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.LogDate, e.FoodName, e.Quantity, e.Calories, e.Protein, e.Fat, e.Carbs,
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// Delete removes the entry with the given id. Deleting a nonexistent id is
// not an error; delete is idempotent.
func (r *LogEntryRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM logs WHERE id = ?`, id)
	return err
}

// ListByDate returns the user's entries for an exact date, most recently
// inserted first.
func (r *LogEntryRepository) ListByDate(ctx context.Context, userID, date string) ([]*domain.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+logEntryColumns+` FROM logs WHERE user_id = ? AND log_date = ? ORDER BY id DESC`,
		userID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

// ListAll returns every entry for the user in storage order, for the
// aggregation and export paths.
func (r *LogEntryRepository) ListAll(ctx context.Context, userID string) ([]*domain.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+logEntryColumns+` FROM logs WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLogEntries(rows)
}

func scanLogEntries(rows *sql.Rows) ([]*domain.LogEntry, error) {
	var entries []*domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.LogDate, &e.FoodName, &e.Quantity, &e.Calories, &e.Protein, &e.Fat, &e.Carbs); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
