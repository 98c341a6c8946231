package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// Defaults applied when a profile field is missing or unusable.
const (
	defaultFitnessLevel    = "intermediate"
	defaultDurationMinutes = 45
	defaultTrainingDays    = 4
)

// Profile carries everything we know about the user that influences
// generation. Fields are best-effort: ParseProfile never fails, it fills
// gaps with sensible defaults instead.
type Profile struct {
	UserID              string
	FitnessLevel        string
	Goal                string
	Limitations         string
	Equipment           []string
	DurationMinutes     int
	CoachTone           string
	TrainingDaysPerWeek int
	PreferredTime       string
}

// ParseProfile builds a Profile from loosely-typed input, typically a decoded
// JSON object. Missing identity is the caller's problem; everything else
// degrades to defaults so generation can always proceed.
func ParseProfile(raw map[string]any) Profile {
	p := Profile{
		UserID:              stringField(raw, "user_id"),
		FitnessLevel:        stringField(raw, "fitness_level"),
		Goal:                stringField(raw, "goal"),
		Limitations:         stringField(raw, "limitations"),
		Equipment:           stringSliceField(raw, "equipment"),
		DurationMinutes:     intField(raw, "duration_minutes"),
		CoachTone:           stringField(raw, "coach_tone"),
		TrainingDaysPerWeek: intField(raw, "training_days_per_week"),
		PreferredTime:       stringField(raw, "preferred_time"),
	}
	return p.withDefaults()
}

func (p Profile) withDefaults() Profile {
	switch strings.ToLower(p.FitnessLevel) {
	case "beginner", "intermediate", "advanced":
		p.FitnessLevel = strings.ToLower(p.FitnessLevel)
	default:
		p.FitnessLevel = defaultFitnessLevel
	}
	if p.DurationMinutes <= 0 {
		p.DurationMinutes = defaultDurationMinutes
	}
	if len(p.Equipment) == 0 {
		p.Equipment = []string{"bodyweight"}
	}
	if p.TrainingDaysPerWeek <= 0 {
		p.TrainingDaysPerWeek = defaultTrainingDays
	}
	if p.TrainingDaysPerWeek > 7 {
		p.TrainingDaysPerWeek = 7
	}
	return p
}

func stringField(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case fmt.Stringer:
		return strings.TrimSpace(s.String())
	default:
		return ""
	}
}

func intField(raw map[string]any, key string) int {
	switch v := raw[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func stringSliceField(raw map[string]any, key string) []string {
	var out []string
	switch v := raw[key].(type) {
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, strings.ToLower(s))
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, strings.ToLower(s))
				}
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, strings.ToLower(s))
			}
		}
	}
	return out
}
