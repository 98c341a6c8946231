package plan

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitstack/weekfit/internal/sqlite"
)

const timestampFormat = "2006-01-02T15:04:05.000Z"
const dateFormat = time.DateOnly

// ErrNotFound is returned when no plan day exists for a (user, date) pair.
var ErrNotFound = errors.New("plan day not found")

// ErrAlreadyGenerating is returned when a day is claimed for generation while
// another generation of the same day is still in flight.
var ErrAlreadyGenerating = errors.New("plan day is already generating")

// sqliteRepository persists plan days keyed by (user_id, plan_date).
type sqliteRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func newSQLiteRepository(db *sqlite.Database, logger *slog.Logger) *sqliteRepository {
	return &sqliteRepository{
		db:     db,
		logger: logger,
	}
}

func formatDate(date time.Time) string {
	return date.Format(dateFormat)
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return date, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampFormat)
}

// upsertPending ensures a row exists for the day. An existing row keeps its
// current status and payload untouched.
func (r *sqliteRepository) upsertPending(ctx context.Context, userID string, date time.Time, workoutType WorkoutType) error {
	now := formatTimestamp(time.Now())
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO plan_days (user_id, plan_date, status, workout_type, created_at, updated_at)
		VALUES (?, ?, 'pending', ?, ?, ?)
		ON CONFLICT (user_id, plan_date) DO NOTHING`,
		userID, formatDate(date), string(workoutType), now, now)
	if err != nil {
		return fmt.Errorf("upsert pending plan day: %w", err)
	}
	return nil
}

// markGenerating claims the day for generation. The status check inside the
// UPDATE makes the claim atomic: a second caller racing on the same row
// matches zero rows and gets ErrAlreadyGenerating.
func (r *sqliteRepository) markGenerating(ctx context.Context, userID string, date time.Time, workoutType WorkoutType) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE plan_days
		SET status = 'generating', workout_type = ?, error_detail = NULL, updated_at = ?
		WHERE user_id = ? AND plan_date = ? AND status != 'generating'`,
		string(workoutType), formatTimestamp(time.Now()), userID, formatDate(date))
	if err != nil {
		return fmt.Errorf("mark plan day generating: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		if _, getErr := r.get(ctx, userID, date); errors.Is(getErr, ErrNotFound) {
			return ErrNotFound
		}
		return ErrAlreadyGenerating
	}
	return nil
}

// markReady stores the payload and transitions the day to ready.
func (r *sqliteRepository) markReady(ctx context.Context, userID string, date time.Time, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = r.db.ReadWrite.ExecContext(ctx, `
		UPDATE plan_days
		SET status = 'ready', payload = ?, error_detail = NULL, updated_at = ?
		WHERE user_id = ? AND plan_date = ?`,
		string(payloadJSON), formatTimestamp(time.Now()), userID, formatDate(date))
	if err != nil {
		return fmt.Errorf("mark plan day ready: %w", err)
	}
	return nil
}

// markError records a failure so the day never sticks in generating.
func (r *sqliteRepository) markError(ctx context.Context, userID string, date time.Time, detail string) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE plan_days
		SET status = 'error', payload = NULL, error_detail = ?, updated_at = ?
		WHERE user_id = ? AND plan_date = ?`,
		detail, formatTimestamp(time.Now()), userID, formatDate(date))
	if err != nil {
		return fmt.Errorf("mark plan day errored: %w", err)
	}
	return nil
}

func (r *sqliteRepository) get(ctx context.Context, userID string, date time.Time) (DayRecord, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT user_id, plan_date, status, workout_type, payload, error_detail, created_at, updated_at
		FROM plan_days
		WHERE user_id = ? AND plan_date = ?`,
		userID, formatDate(date))
	record, err := scanDayRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return DayRecord{}, ErrNotFound
	}
	if err != nil {
		return DayRecord{}, fmt.Errorf("get plan day: %w", err)
	}
	return record, nil
}

// listRange returns the user's plan days within [from, to] inclusive, ordered
// by date.
func (r *sqliteRepository) listRange(ctx context.Context, userID string, from, to time.Time) (_ []DayRecord, err error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT user_id, plan_date, status, workout_type, payload, error_detail, created_at, updated_at
		FROM plan_days
		WHERE user_id = ? AND plan_date >= ? AND plan_date <= ?
		ORDER BY plan_date`,
		userID, formatDate(from), formatDate(to))
	if err != nil {
		return nil, fmt.Errorf("query plan days: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close rows: %w", closeErr))
		}
	}()

	var records []DayRecord
	for rows.Next() {
		record, scanErr := scanDayRecord(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan plan day row: %w", scanErr)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

func scanDayRecord(scan func(dest ...any) error) (DayRecord, error) {
	var (
		userID       string
		dateStr      string
		status       string
		workoutType  string
		payloadStr   sql.NullString
		errorDetail  sql.NullString
		createdAtStr string
		updatedAtStr string
	)
	if err := scan(&userID, &dateStr, &status, &workoutType, &payloadStr, &errorDetail, &createdAtStr, &updatedAtStr); err != nil {
		return DayRecord{}, err
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return DayRecord{}, err
	}
	createdAt, err := time.Parse(timestampFormat, createdAtStr)
	if err != nil {
		return DayRecord{}, fmt.Errorf("parse created_at: %w", err)
	}
	updatedAt, err := time.Parse(timestampFormat, updatedAtStr)
	if err != nil {
		return DayRecord{}, fmt.Errorf("parse updated_at: %w", err)
	}

	record := DayRecord{
		UserID:      userID,
		Date:        date,
		Status:      Status(status),
		WorkoutType: WorkoutType(workoutType),
		ErrorDetail: errorDetail.String,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
	if payloadStr.Valid && payloadStr.String != "" {
		var payload Payload
		if err := json.Unmarshal([]byte(payloadStr.String), &payload); err != nil {
			return DayRecord{}, fmt.Errorf("unmarshal payload: %w", err)
		}
		record.Payload = &payload
	}
	return record, nil
}
