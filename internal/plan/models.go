// Package plan generates personalized daily workout payloads and orchestrates
// a week of them with per-day status tracking.
package plan

import (
	"time"
)

// WorkoutType is the user- or scheduler-selected workout category.
type WorkoutType string

// Supported workout types.
const (
	TypeHIIT         WorkoutType = "HIIT"
	TypeUpperBody    WorkoutType = "Upper Body"
	TypeLowerBody    WorkoutType = "Lower Body"
	TypeFullBody     WorkoutType = "Full Body"
	TypeCardio       WorkoutType = "Cardio"
	TypeStrength     WorkoutType = "Strength"
	TypeYoga         WorkoutType = "Yoga"
	TypeCalisthenics WorkoutType = "Calisthenics"
)

// Exercise represents a single catalog movement, e.g. Squat, Push-Up.
// Loaded once at startup and never mutated.
type Exercise struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	StyleTags     []string `json:"style_tags"`
	TargetAreas   []string `json:"target_areas"`
	Equipment     []string `json:"equipment"`
	Difficulty    string   `json:"difficulty"`
	SuggestedSets int      `json:"suggested_sets"`
	SuggestedReps string   `json:"suggested_reps"`
	Instructions  string   `json:"instructions"`
	Modification  string   `json:"modification,omitempty"`
}

// PayloadExercise is one generated exercise inside a workout payload.
type PayloadExercise struct {
	Name          string   `json:"name"`
	Sets          int      `json:"sets"`
	Reps          int      `json:"reps"`
	RestSeconds   int      `json:"rest_seconds"`
	Instructions  string   `json:"instructions"`
	Modification  string   `json:"modification,omitempty"`
	TargetMuscles []string `json:"target_muscles"`
	Difficulty    string   `json:"difficulty"`
}

// Payload is the full structured workout produced for one day. Every payload
// handed to callers has passed validatePayload, so the numeric floors
// (sets >= 1, reps >= 1, rest >= 0) always hold.
type Payload struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	EstimatedDuration int               `json:"estimated_duration"`
	Difficulty        string            `json:"difficulty"`
	WarmUp            []PayloadExercise `json:"warm_up"`
	Main              []PayloadExercise `json:"main"`
	CoolDown          []PayloadExercise `json:"cool_down"`
	CoachNotes        string            `json:"coach_notes"`
	ProgressionTips   string            `json:"progression_tips"`
}

// Exercises returns all exercises of the payload in section order.
func (p Payload) Exercises() []PayloadExercise {
	out := make([]PayloadExercise, 0, len(p.WarmUp)+len(p.Main)+len(p.CoolDown))
	out = append(out, p.WarmUp...)
	out = append(out, p.Main...)
	out = append(out, p.CoolDown...)
	return out
}

// Status tracks the lifecycle of one day's generation.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// DayRecord is the persisted state for one (user, date) pair.
type DayRecord struct {
	UserID      string
	Date        time.Time
	Status      Status
	WorkoutType WorkoutType
	// Payload is set only when Status is StatusReady.
	Payload *Payload
	// ErrorDetail is set only when Status is StatusError.
	ErrorDetail string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WeekResult holds the seven DayRecords of a Monday-aligned week. It is
// derived from the persisted records, never stored as its own entity.
type WeekResult struct {
	Days      []DayRecord
	Succeeded int
	Failed    int
}

// payloadJSONSchema renders the strict JSON schema the generation service must
// follow for a daily workout payload.
type payloadJSONSchema struct{}

func (payloadJSONSchema) MarshalJSON() ([]byte, error) {
	const exerciseSchema = `{
	  "type": "object",
	  "required": ["name", "sets", "reps", "rest_seconds", "instructions", "modification", "target_muscles", "difficulty"],
	  "properties": {
		"name": {"type": "string", "description": "Name of the exercise"},
		"sets": {"type": "integer", "description": "Number of sets, at least 1"},
		"reps": {"type": "integer", "description": "Repetitions per set, at least 1"},
		"rest_seconds": {"type": "integer", "description": "Rest between sets in seconds"},
		"instructions": {"type": "string", "description": "Form cues for performing the exercise safely"},
		"modification": {"type": "string", "description": "Easier variation, empty string if none"},
		"target_muscles": {"type": "array", "items": {"type": "string"}},
		"difficulty": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]}
	  },
	  "additionalProperties": false
	}`

	return []byte(`{
	  "type": "object",
	  "required": ["title", "description", "estimated_duration", "difficulty", "warm_up", "main", "cool_down", "coach_notes", "progression_tips"],
	  "properties": {
		"title": {"type": "string", "description": "Title of the workout"},
		"description": {"type": "string", "description": "One paragraph describing the session"},
		"estimated_duration": {"type": "integer", "description": "Estimated duration in minutes"},
		"difficulty": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
		"warm_up": {"type": "array", "items": ` + exerciseSchema + `},
		"main": {"type": "array", "items": ` + exerciseSchema + `},
		"cool_down": {"type": "array", "items": ` + exerciseSchema + `},
		"coach_notes": {"type": "string", "description": "Encouraging notes from the coach"},
		"progression_tips": {"type": "string", "description": "How to progress this workout over time"}
	  },
	  "additionalProperties": false
	}`), nil
}
