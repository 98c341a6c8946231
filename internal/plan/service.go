package plan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitstack/weekfit/internal/sqlite"
	"golang.org/x/sync/errgroup"
)

const daysPerWeek = 7

// Service handles the business logic for plan generation.
type Service struct {
	repo    *sqliteRepository
	gen     *generationClient
	catalog *Catalog
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new plan service. With an empty API key the completion
// service is left unconfigured and every generated day falls back to the
// synthetic workout.
func NewService(db *sqlite.Database, logger *slog.Logger, openaiAPIKey string) (*Service, error) {
	catalog, err := NewCatalog()
	if err != nil {
		return nil, fmt.Errorf("load exercise catalog: %w", err)
	}

	var svc completionService = unavailableCompletionService{}
	if openaiAPIKey != "" {
		svc = newOpenAICompletionService(openaiAPIKey)
	}

	return &Service{
		repo:    newSQLiteRepository(db, logger),
		gen:     newGenerationClient(svc, catalog, logger),
		catalog: catalog,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Catalog exposes the exercise library, e.g. for listing endpoints.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// GenerateDay generates and persists the workout for one day. dayIndex is the
// Monday-based weekday index (0..6) used to pick a workout type for the day.
// It returns the stored record; ErrAlreadyGenerating when a generation of the
// same day is still in flight.
func (s *Service) GenerateDay(ctx context.Context, profile Profile, date time.Time, dayIndex int) (DayRecord, error) {
	if profile.UserID == "" {
		return DayRecord{}, errors.New("profile has no user id")
	}
	profile = profile.withDefaults()

	req := Request{
		Type:            typeForDay(profile, dayIndex),
		DurationMinutes: profile.DurationMinutes,
	}

	if err := s.repo.upsertPending(ctx, profile.UserID, date, req.Type); err != nil {
		return DayRecord{}, fmt.Errorf("prepare plan day %s: %w", formatDate(date), err)
	}
	if err := s.repo.markGenerating(ctx, profile.UserID, date, req.Type); err != nil {
		return DayRecord{}, fmt.Errorf("claim plan day %s: %w", formatDate(date), err)
	}

	payload := s.gen.Generate(ctx, profile, req)

	if err := s.repo.markReady(ctx, profile.UserID, date, payload); err != nil {
		// The day must not stay in generating. Degrade to error status and
		// report the original failure.
		if markErr := s.repo.markError(ctx, profile.UserID, date, err.Error()); markErr != nil {
			err = errors.Join(err, markErr)
		}
		return DayRecord{}, fmt.Errorf("store plan day %s: %w", formatDate(date), err)
	}

	record, err := s.repo.get(ctx, profile.UserID, date)
	if err != nil {
		return DayRecord{}, fmt.Errorf("load plan day %s: %w", formatDate(date), err)
	}
	return record, nil
}

// GenerateWeek generates the current Monday-aligned week concurrently, one
// goroutine per day. Every day settles before the call returns: failures on
// some days never cancel the rest. On partial failure the returned error
// aggregates each failed day, and the WeekResult still carries whatever state
// each day ended in.
func (s *Service) GenerateWeek(ctx context.Context, profile Profile) (WeekResult, error) {
	if profile.UserID == "" {
		return WeekResult{}, errors.New("profile has no user id")
	}
	profile = profile.withDefaults()

	dates := weekDates(s.now())

	var g errgroup.Group
	records := make([]DayRecord, daysPerWeek)
	failures := make([]error, daysPerWeek)

	for i, date := range dates {
		g.Go(func() error {
			record, err := s.GenerateDay(ctx, profile, date, i)
			if err != nil {
				failures[i] = fmt.Errorf("day %s: %w", formatDate(date), err)
				// Best effort: report whatever state the day settled in.
				if stored, getErr := s.repo.get(ctx, profile.UserID, date); getErr == nil {
					records[i] = stored
				} else {
					records[i] = DayRecord{UserID: profile.UserID, Date: date, Status: StatusError, ErrorDetail: err.Error()}
				}
				return nil
			}
			records[i] = record
			return nil
		})
	}
	// Goroutines always return nil so that every day settles.
	_ = g.Wait()

	result := WeekResult{Days: records}
	for _, failure := range failures {
		if failure == nil {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "week generation settled",
		slog.String("week_start", formatDate(dates[0])),
		slog.Int("succeeded", result.Succeeded),
		slog.Int("failed", result.Failed))

	if err := errors.Join(failures...); err != nil {
		return result, fmt.Errorf("generate week: %w", err)
	}
	return result, nil
}

// Week returns the stored records for the current Monday-aligned week without
// generating anything.
func (s *Service) Week(ctx context.Context, userID string) ([]DayRecord, error) {
	dates := weekDates(s.now())
	return s.Range(ctx, userID, dates[0], dates[len(dates)-1])
}

// Range returns the stored records for [from, to] inclusive.
func (s *Service) Range(ctx context.Context, userID string, from, to time.Time) ([]DayRecord, error) {
	records, err := s.repo.listRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list plan days: %w", err)
	}
	return records, nil
}

// Day returns the stored record for one day, ErrNotFound when absent.
func (s *Service) Day(ctx context.Context, userID string, date time.Time) (DayRecord, error) {
	return s.repo.get(ctx, userID, date)
}

// weekDates returns the dates of the Monday-aligned week containing now.
func weekDates(now time.Time) []time.Time {
	offset := int(time.Monday - now.Weekday())
	if offset > 0 {
		offset = -6 //nolint:mnd // If today is Sunday, adjust the offset to get last Monday.
	}
	monday := now.AddDate(0, 0, offset)

	dates := make([]time.Time, daysPerWeek)
	for i := range daysPerWeek {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// DayIndex returns the Monday-based weekday index (Monday=0 .. Sunday=6).
func DayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % daysPerWeek
}

// Intensive sessions fill the first TrainingDaysPerWeek days of the week,
// recovery sessions fill the rest.
var (
	intensiveRotation = []WorkoutType{
		TypeStrength, TypeHIIT, TypeUpperBody, TypeLowerBody,
		TypeFullBody, TypeCardio, TypeCalisthenics,
	}
	recoveryRotation = []WorkoutType{TypeYoga, TypeCardio}
)

func typeForDay(profile Profile, dayIndex int) WorkoutType {
	if dayIndex < 0 {
		dayIndex = 0
	}
	dayIndex %= daysPerWeek
	if dayIndex < profile.TrainingDaysPerWeek {
		return intensiveRotation[dayIndex%len(intensiveRotation)]
	}
	return recoveryRotation[dayIndex%len(recoveryRotation)]
}
