package plan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

const validWorkoutJSON = `{
	"title": "Stub Session",
	"description": "Generated by the stub.",
	"estimated_duration": 30,
	"difficulty": "intermediate",
	"warm_up": [{"name": "March in Place", "sets": 1, "reps": 60, "rest_seconds": 0, "instructions": "March.", "target_muscles": ["legs"], "difficulty": "beginner"}],
	"main": [{"name": "Bodyweight Squat", "sets": 3, "reps": 12, "rest_seconds": 60, "instructions": "Squat.", "target_muscles": ["quads"], "difficulty": "intermediate"}],
	"cool_down": [{"name": "Seated Forward Fold", "sets": 1, "reps": 60, "rest_seconds": 0, "instructions": "Fold.", "target_muscles": ["hamstrings"], "difficulty": "beginner"}],
	"coach_notes": "Keep it up.",
	"progression_tips": "Add a set next week."
}`

// stubCompletionService returns scripted responses in order. An entry with a
// non-nil error simulates a service failure; once the script runs out it keeps
// failing.
type stubCompletionService struct {
	script []stubCompletion
	calls  []completionRequest
}

type stubCompletion struct {
	response string
	err      error
}

func (s *stubCompletionService) Complete(_ context.Context, req completionRequest) (string, error) {
	s.calls = append(s.calls, req)
	if len(s.script) == 0 {
		return "", errors.New("stub exhausted")
	}
	next := s.script[0]
	s.script = s.script[1:]
	return next.response, next.err
}

func newTestGenerationClient(t *testing.T, svc completionService) *generationClient {
	t.Helper()
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := newGenerationClient(svc, catalog, logger)
	client.sleep = func(context.Context, time.Duration) {}
	return client
}

// TestGenerate_KneeSafeLowerBodySession walks the whole path from profile to
// payload for a beginner with knee pain and no equipment. The offered roster
// and the resulting session must both stay clear of knee-loading movements.
func TestGenerate_KneeSafeLowerBodySession(t *testing.T) {
	response := `{
		"title": "Gentle Lower Body",
		"description": "Knee-friendly strength work.",
		"estimated_duration": 30,
		"difficulty": "beginner",
		"warm_up": [{"name": "Leg Swings", "sets": 1, "reps": 10, "rest_seconds": 0, "instructions": "Swing each leg gently.", "target_muscles": ["hips"], "difficulty": "beginner"}],
		"main": [
			{"name": "Glute Bridge", "sets": 3, "reps": 12, "rest_seconds": 45, "instructions": "Drive through the heels.", "target_muscles": ["glutes"], "difficulty": "beginner"},
			{"name": "Bodyweight Squat", "sets": 3, "reps": 10, "rest_seconds": 60, "instructions": "Sit back to a comfortable depth.", "target_muscles": ["quads"], "difficulty": "beginner"}
		],
		"cool_down": [{"name": "Hamstring Stretch", "sets": 1, "reps": 30, "rest_seconds": 0, "instructions": "Hold each side.", "target_muscles": ["hamstrings"], "difficulty": "beginner"}],
		"coach_notes": "Stop if the knee complains.",
		"progression_tips": "Add reps before load."
	}`
	stub := &stubCompletionService{script: []stubCompletion{{response: response}}}
	client := newTestGenerationClient(t, stub)

	profile := Profile{
		UserID:       "user-1",
		FitnessLevel: "beginner",
		Limitations:  "knee pain",
	}.withDefaults()

	payload := client.Generate(t.Context(), profile, Request{Type: TypeLowerBody, DurationMinutes: 30})

	if len(stub.calls) != 1 {
		t.Fatalf("completion called %d times, want 1", len(stub.calls))
	}
	banned := []string{"lunge", "jump", "pistol", "burpee", "deep squat"}
	prompt := strings.ToLower(stub.calls[0].User)
	for _, word := range banned {
		if strings.Contains(prompt, word) {
			t.Errorf("roster offers %q despite the knee limitation", word)
		}
	}
	for _, unit := range payload.Exercises() {
		name := strings.ToLower(unit.Name)
		for _, word := range banned {
			if strings.Contains(name, word) {
				t.Errorf("session contains %q despite the knee limitation", unit.Name)
			}
		}
	}
	if IsSynthetic(payload) {
		t.Error("scripted response was replaced by the synthetic payload")
	}
}

func TestGenerate_FirstAttemptSucceeds(t *testing.T) {
	stub := &stubCompletionService{script: []stubCompletion{{response: validWorkoutJSON}}}
	client := newTestGenerationClient(t, stub)

	payload := client.Generate(t.Context(), testPromptProfile(), Request{Type: TypeStrength, DurationMinutes: 45})

	if len(stub.calls) != 1 {
		t.Errorf("completion called %d times, want 1", len(stub.calls))
	}
	if payload.Title != "Stub Session" {
		t.Errorf("title = %q, want Stub Session", payload.Title)
	}
	if IsSynthetic(payload) {
		t.Error("successful generation returned the synthetic payload")
	}
}

func TestGenerate_LadderStopsAtFourAttempts(t *testing.T) {
	stub := &stubCompletionService{} // always fails
	client := newTestGenerationClient(t, stub)

	payload := client.Generate(t.Context(), testPromptProfile(), Request{Type: TypeHIIT, DurationMinutes: 30})

	if len(stub.calls) != maxAttempts {
		t.Errorf("completion called %d times, want %d", len(stub.calls), maxAttempts)
	}
	if !IsSynthetic(payload) {
		t.Error("exhausted ladder did not return the synthetic payload")
	}
	if len(payload.Exercises()) == 0 {
		t.Error("synthetic payload has no exercises")
	}
}

func TestGenerate_TemperatureDropsAcrossAttempts(t *testing.T) {
	stub := &stubCompletionService{}
	client := newTestGenerationClient(t, stub)

	client.Generate(t.Context(), testPromptProfile(), Request{Type: TypeCardio, DurationMinutes: 30})

	for i := 1; i < len(stub.calls); i++ {
		if stub.calls[i].Temperature >= stub.calls[i-1].Temperature {
			t.Errorf("attempt %d temperature %.1f not below attempt %d temperature %.1f",
				i+1, stub.calls[i].Temperature, i, stub.calls[i-1].Temperature)
		}
	}
}

func TestGenerate_RecoversAfterMalformedResponse(t *testing.T) {
	stub := &stubCompletionService{script: []stubCompletion{
		{response: "sorry, I cannot do that"},
		{err: errors.New("rate limited")},
		{response: validWorkoutJSON},
	}}
	client := newTestGenerationClient(t, stub)

	payload := client.Generate(t.Context(), testPromptProfile(), Request{Type: TypeFullBody, DurationMinutes: 40})

	if len(stub.calls) != 3 {
		t.Errorf("completion called %d times, want 3", len(stub.calls))
	}
	if IsSynthetic(payload) {
		t.Error("recoverable failures still ended in the synthetic payload")
	}
}

func TestGenerate_SyntheticPayloadHoldsFloors(t *testing.T) {
	payload := syntheticPayload(testPromptProfile(), Request{Type: TypeYoga, DurationMinutes: 60})

	if payload.Title != placeholderTitle {
		t.Errorf("title = %q, want %q", payload.Title, placeholderTitle)
	}
	if payload.CoachNotes == "" {
		t.Error("synthetic payload has no regeneration note")
	}
	for _, e := range payload.Exercises() {
		if e.Sets < 1 || e.Reps < 1 || e.RestSeconds < 0 {
			t.Errorf("exercise %q violates floors: sets=%d reps=%d rest=%d", e.Name, e.Sets, e.Reps, e.RestSeconds)
		}
	}
}

func TestAttemptBackoff_Capped(t *testing.T) {
	var previous time.Duration
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		d := attemptBackoff(attempt)
		if d > maxBackoff {
			t.Errorf("attempt %d backoff %v exceeds cap %v", attempt, d, maxBackoff)
		}
		if d < previous {
			t.Errorf("attempt %d backoff %v shrank from %v", attempt, d, previous)
		}
		previous = d
	}
}
