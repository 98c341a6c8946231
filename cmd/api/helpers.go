package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fitstack/weekfit/internal/plan"
)

const dateFormat = "2006-01-02"

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", slog.Any("error", err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", slog.Any("error", err))
	}
}

// parseDateParam parses the "date" path parameter from the request URL.
// On failure, sends HTTP 404 response automatically.
func (app *application) parseDateParam(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := r.PathValue("date")
	date, err := time.Parse(dateFormat, dateStr)
	if err != nil {
		http.NotFound(w, r)
		return time.Time{}, false
	}
	return date, true
}

// decodeProfile reads the request body into a Profile. The body is the raw
// profile object; unknown fields are ignored and missing ones default.
func (app *application) decodeProfile(w http.ResponseWriter, r *http.Request) (plan.Profile, bool) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "invalid JSON body")
		return plan.Profile{}, false
	}
	profile := plan.ParseProfile(raw)
	if profile.UserID == "" {
		app.clientError(w, r, http.StatusBadRequest, "user_id is required")
		return plan.Profile{}, false
	}
	return profile, true
}

// dayResponse is the wire shape of a plan day.
type dayResponse struct {
	UserID      string        `json:"user_id"`
	Date        string        `json:"date"`
	Status      string        `json:"status"`
	WorkoutType string        `json:"workout_type"`
	Payload     *plan.Payload `json:"payload,omitempty"`
	ErrorDetail string        `json:"error_detail,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func toDayResponse(record plan.DayRecord) dayResponse {
	return dayResponse{
		UserID:      record.UserID,
		Date:        record.Date.Format(dateFormat),
		Status:      string(record.Status),
		WorkoutType: string(record.WorkoutType),
		Payload:     record.Payload,
		ErrorDetail: record.ErrorDetail,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toDayResponses(records []plan.DayRecord) []dayResponse {
	out := make([]dayResponse, len(records))
	for i, record := range records {
		out[i] = toDayResponse(record)
	}
	return out
}
