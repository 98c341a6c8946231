package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// completionService produces one structured completion for a prompt. The
// OpenAI-backed implementation lives in openai.go; tests substitute stubs.
type completionService interface {
	Complete(ctx context.Context, req completionRequest) (string, error)
}

type completionRequest struct {
	System      string
	User        string
	Temperature float64
}

const maxAttempts = 4

// attemptTemperature starts creative and gets progressively conservative as
// attempts fail.
var attemptTemperatures = [maxAttempts]float64{1.0, 0.9, 0.4, 0.2}

const (
	baseBackoff = 500 * time.Millisecond
	maxBackoff  = 3 * time.Second
)

func attemptBackoff(attempt int) time.Duration {
	d := baseBackoff << (attempt - 1)
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// generationClient turns a profile and a day request into a validated workout
// payload. It never fails: after four attempts against the completion service
// it falls back to a synthetic placeholder workout.
type generationClient struct {
	svc     completionService
	catalog *Catalog
	logger  *slog.Logger
	sleep   func(ctx context.Context, d time.Duration)
}

func newGenerationClient(svc completionService, catalog *Catalog, logger *slog.Logger) *generationClient {
	return &generationClient{
		svc:     svc,
		catalog: catalog,
		logger:  logger,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Generate runs the retry ladder and always returns a valid payload.
func (g *generationClient) Generate(ctx context.Context, profile Profile, req Request) Payload {
	candidates := g.catalog.Filter(Filter{
		Type:       req.Type,
		Equipment:  profile.Equipment,
		Difficulty: profile.FitnessLevel,
	})
	if len(candidates) == 0 {
		// Equipment or difficulty filtered everything out, widen to the type.
		candidates = g.catalog.Filter(Filter{Type: req.Type})
	}
	candidates = ExcludeUnsafe(candidates, profile.Limitations)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		envelope := composePrompt(profile, req, candidates, attempt)
		raw, err := g.svc.Complete(ctx, completionRequest{
			System:      envelope.System,
			User:        envelope.User,
			Temperature: attemptTemperatures[attempt-1],
		})
		if err != nil {
			g.logger.WarnContext(ctx, "completion attempt failed",
				slog.Int("attempt", attempt),
				slog.String("workout_type", string(req.Type)),
				slog.String("error", err.Error()))
			if attempt < maxAttempts {
				g.sleep(ctx, attemptBackoff(attempt))
			}
			continue
		}

		payload, err := validatePayload([]byte(raw), profile, req)
		if err != nil {
			g.logger.WarnContext(ctx, "completion attempt produced unusable payload",
				slog.Int("attempt", attempt),
				slog.String("workout_type", string(req.Type)),
				slog.String("error", err.Error()))
			continue
		}
		return payload
	}

	g.logger.ErrorContext(ctx, "all completion attempts failed, using synthetic workout",
		slog.String("workout_type", string(req.Type)))
	return syntheticPayload(profile, req)
}

// placeholderTitle marks synthetic payloads so clients can surface a
// regenerate hint.
const placeholderTitle = "Starter Session (Placeholder)"

// syntheticPayload is the fallback workout when generation keeps failing.
// Deliberately gentle so it is safe regardless of the original request.
func syntheticPayload(profile Profile, req Request) Payload {
	gentle := func(name, instructions string, seconds int) PayloadExercise {
		return PayloadExercise{
			Name:          name,
			Sets:          2,
			Reps:          seconds,
			RestSeconds:   30,
			Instructions:  instructions,
			TargetMuscles: []string{"full body"},
			Difficulty:    "beginner",
		}
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = defaultDurationMinutes
	}

	return Payload{
		Title:             placeholderTitle,
		Description:       fmt.Sprintf("A gentle stand-in for your %s session.", req.Type),
		EstimatedDuration: min(duration, 20),
		Difficulty:        "beginner",
		WarmUp: []PayloadExercise{
			gentle("March in Place", "March on the spot at an easy pace, swinging the arms naturally.", 60),
		},
		Main: []PayloadExercise{
			gentle("Standing Reach and Bend", "Reach both arms overhead, then fold gently forward as far as comfortable, and rise slowly.", 45),
			gentle("Easy Step Touch", "Step side to side, tapping the trailing foot next to the leading one.", 60),
		},
		CoolDown: []PayloadExercise{
			gentle("Slow Breathing", "Stand or sit tall and take slow breaths, in for four counts and out for four.", 60),
		},
		CoachNotes: "We could not build your personalized workout this time. " +
			"This placeholder keeps you moving; please regenerate this day to get a tailored session.",
		ProgressionTips: "Regenerate this day for a workout matched to your goals.",
	}
}

// IsSynthetic reports whether a payload came from the fallback path.
func IsSynthetic(p Payload) bool {
	return p.Title == placeholderTitle
}
