package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoUsableContent reports a generated document with not a single usable
// exercise. It is the only reason validation refuses a payload.
var ErrNoUsableContent = errors.New("generated payload contains no usable exercises")

// validatePayload coerces a raw generation result into a well-formed Payload.
// It repairs rather than rejects: missing fields get defaults derived from
// the request, out-of-range numbers are clamped to their floors (sets >= 1,
// reps >= 1, rest >= 0). It fails only when the document is not JSON or
// contains no exercises at all.
func validatePayload(raw []byte, profile Profile, req Request) (Payload, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Payload{}, fmt.Errorf("%w: %s", ErrNoUsableContent, err)
	}

	p := Payload{
		Title:             asString(lookup(doc, "title"), fmt.Sprintf("%s Workout", req.Type)),
		Description:       asString(lookup(doc, "description"), fmt.Sprintf("A %s session tailored to your profile.", req.Type)),
		EstimatedDuration: asInt(lookup(doc, "estimated_duration", "duration"), 1, req.DurationMinutes),
		Difficulty:        normalizeDifficulty(asString(lookup(doc, "difficulty"), profile.FitnessLevel)),
		WarmUp:            coerceSection(lookup(doc, "warm_up", "warmup", "warmUp")),
		Main:              coerceSection(lookup(doc, "main", "exercises", "main_workout")),
		CoolDown:          coerceSection(lookup(doc, "cool_down", "cooldown", "coolDown")),
		CoachNotes:        asString(lookup(doc, "coach_notes", "coachNotes"), "Listen to your body and adjust the load as needed."),
		ProgressionTips:   asString(lookup(doc, "progression_tips", "progressionTips"), ""),
	}

	if len(p.WarmUp)+len(p.Main)+len(p.CoolDown) == 0 {
		return Payload{}, ErrNoUsableContent
	}
	return p, nil
}

// lookup returns the first present key, tolerating the casing drift models
// produce.
func lookup(doc map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := doc[key]; ok {
			return v
		}
	}
	return nil
}

func coerceSection(v any) []PayloadExercise {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []PayloadExercise
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, PayloadExercise{
			Name:          asString(lookup(obj, "name", "exercise"), "Exercise"),
			Sets:          asInt(lookup(obj, "sets"), 1, 1),
			Reps:          asInt(lookup(obj, "reps", "repetitions"), 1, 10),
			RestSeconds:   asInt(lookup(obj, "rest_seconds", "rest"), 0, 30),
			Instructions:  asString(lookup(obj, "instructions", "description"), "Move with control and good form."),
			Modification:  asString(lookup(obj, "modification"), ""),
			TargetMuscles: asStringSlice(lookup(obj, "target_muscles", "targetMuscles", "muscles")),
			Difficulty:    normalizeDifficulty(asString(lookup(obj, "difficulty"), "")),
		})
	}
	return out
}

func asString(v any, def string) string {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

// asInt coerces numbers, numeric strings and nothing-at-all into an int no
// smaller than floor.
func asInt(v any, floor, def int) int {
	n := def
	switch value := v.(type) {
	case float64:
		n = int(value)
	case int:
		n = value
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err == nil {
			n = parsed
		}
	}
	if n < floor {
		n = floor
	}
	return n
}

// asStringSlice always returns a non-nil slice so absent or malformed lists
// serialize as [] rather than null.
func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func normalizeDifficulty(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return "beginner"
	case "advanced":
		return "advanced"
	default:
		return "intermediate"
	}
}
