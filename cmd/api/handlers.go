package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/fitstack/weekfit/internal/plan"
)

// generateDayPOST generates the workout for one day. The body carries the
// user profile; the day's workout type follows from its position in the
// Monday-aligned week.
func (app *application) generateDayPOST(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	profile, ok := app.decodeProfile(w, r)
	if !ok {
		return
	}

	record, err := app.planService.GenerateDay(r.Context(), profile, date, plan.DayIndex(date))
	if err != nil {
		if errors.Is(err, plan.ErrAlreadyGenerating) {
			app.clientError(w, r, http.StatusConflict, "generation already in progress for this day")
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, toDayResponse(record))
}

func (app *application) dayGET(w http.ResponseWriter, r *http.Request) {
	date, ok := app.parseDateParam(w, r)
	if !ok {
		return
	}
	userID := r.URL.Query().Get("user")
	if userID == "" {
		app.clientError(w, r, http.StatusBadRequest, "user query parameter is required")
		return
	}

	record, err := app.planService.Day(r.Context(), userID, date)
	if err != nil {
		if errors.Is(err, plan.ErrNotFound) {
			app.clientError(w, r, http.StatusNotFound, "no plan for this day")
			return
		}
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, toDayResponse(record))
}

// daysGET lists stored plan days in an inclusive date range.
func (app *application) daysGET(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		app.clientError(w, r, http.StatusBadRequest, "user query parameter is required")
		return
	}
	from, err := time.Parse(dateFormat, r.URL.Query().Get("from"))
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "from must be a date like 2026-01-05")
		return
	}
	to, err := time.Parse(dateFormat, r.URL.Query().Get("to"))
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "to must be a date like 2026-01-11")
		return
	}

	records, err := app.planService.Range(r.Context(), userID, from, to)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, toDayResponses(records))
}

// weekResponse summarizes a week generation.
type weekResponse struct {
	Days      []dayResponse `json:"days"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
}

// generateWeekPOST generates the whole current week. Every day settles before
// the response is written; partial failure yields 207 with per-day statuses.
func (app *application) generateWeekPOST(w http.ResponseWriter, r *http.Request) {
	profile, ok := app.decodeProfile(w, r)
	if !ok {
		return
	}

	result, err := app.planService.GenerateWeek(r.Context(), profile)
	response := weekResponse{
		Days:      toDayResponses(result.Days),
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	}
	if err != nil {
		app.logger.ErrorContext(r.Context(), "week generation finished with failures", "error", err)
		app.writeJSON(w, r, http.StatusMultiStatus, response)
		return
	}

	app.writeJSON(w, r, http.StatusOK, response)
}

func (app *application) currentWeekGET(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		app.clientError(w, r, http.StatusBadRequest, "user query parameter is required")
		return
	}

	records, err := app.planService.Week(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, toDayResponses(records))
}

// exercisesGET lists the exercise catalog, optionally filtered by workout
// type.
func (app *application) exercisesGET(w http.ResponseWriter, r *http.Request) {
	catalog := app.planService.Catalog()

	if workoutType := r.URL.Query().Get("type"); workoutType != "" {
		app.writeJSON(w, r, http.StatusOK, catalog.Filter(plan.Filter{Type: plan.WorkoutType(workoutType)}))
		return
	}
	app.writeJSON(w, r, http.StatusOK, catalog.All())
}

// healthy responds with a JSON object indicating that the server is healthy.
func (app *application) healthy(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
