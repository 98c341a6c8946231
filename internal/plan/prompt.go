package plan

import (
	"fmt"
	"strings"
)

// Request describes one day's generation target.
type Request struct {
	Type            WorkoutType
	DurationMinutes int
	Focus           string
}

// promptEnvelope is a composed system and user message pair ready to send to
// the completion service.
type promptEnvelope struct {
	System string
	User   string
}

const systemMessage = "You are a professional fitness coach. You design safe, " +
	"effective workouts tailored to the athlete in front of you, and you reply " +
	"only with JSON matching the given schema."

// categoryContract states the structural rules every generated session must
// follow. It is included verbatim in the two richest prompt levels.
const categoryContract = "Every exercise must belong to one of six categories: " +
	"warm-up, push, pull, legs, core, or conditioning/recovery. " +
	"Open with warm-up work and close with conditioning/recovery."

// composePrompt builds the prompt for the given retry attempt. Attempt 1 is
// the richest prompt and each later attempt simplifies further, on the theory
// that a struggling model does better with fewer instructions. Output depends
// only on the inputs, identical inputs compose identical prompts.
func composePrompt(profile Profile, req Request, candidates []Exercise, attempt int) promptEnvelope {
	var b strings.Builder

	switch {
	case attempt <= 1:
		fmt.Fprintf(&b, "Design a %d-minute %s workout for the athlete below.\n\n", req.DurationMinutes, req.Type)
		b.WriteString(profileContext(profile))
		b.WriteString("\nPrefer exercises from this list, adapting sets and reps to the athlete:\n")
		b.WriteString(rosterDetailed(candidates))
		b.WriteString("\n" + categoryContract + "\n")
		b.WriteString("Structure the session as warm-up, main work and cool-down. ")
		b.WriteString("Keep the coach notes in the athlete's preferred tone and include progression tips.")
	case attempt == 2:
		fmt.Fprintf(&b, "Design a %d-minute %s workout.\n\n", req.DurationMinutes, req.Type)
		b.WriteString(profileContext(profile))
		b.WriteString("\nChoose exercises from this list:\n")
		b.WriteString(rosterNames(candidates))
		b.WriteString("\n" + categoryContract + "\n")
		b.WriteString("Include a warm-up, a main block and a cool-down.")
	case attempt == 3:
		fmt.Fprintf(&b, "Create a %d-minute %s workout for a %s athlete", req.DurationMinutes, req.Type, profile.FitnessLevel)
		if profile.Limitations != "" {
			fmt.Fprintf(&b, " who reports: %s", profile.Limitations)
		}
		b.WriteString(". Use a warm-up, main block and cool-down.")
	default:
		fmt.Fprintf(&b, "Create a simple %s workout with a warm-up, main block and cool-down.", req.Type)
	}

	if req.Focus != "" && attempt <= 2 {
		fmt.Fprintf(&b, "\nToday's focus: %s.", req.Focus)
	}

	return promptEnvelope{System: systemMessage, User: b.String()}
}

// profileContext renders the athlete sheet, skipping absent fields.
func profileContext(p Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fitness level: %s\n", p.FitnessLevel)
	if p.Goal != "" {
		fmt.Fprintf(&b, "Goal: %s\n", p.Goal)
	}
	if p.Limitations != "" {
		fmt.Fprintf(&b, "Injuries and limitations: %s\n", p.Limitations)
	}
	fmt.Fprintf(&b, "Available equipment: %s\n", strings.Join(p.Equipment, ", "))
	if p.CoachTone != "" {
		fmt.Fprintf(&b, "Preferred coaching tone: %s\n", p.CoachTone)
	}
	return b.String()
}

func rosterDetailed(exercises []Exercise) string {
	var b strings.Builder
	for _, e := range exercises {
		fmt.Fprintf(&b, "- %s (%s, targets %s, needs %s, %d sets of %s): %s\n",
			e.Name, e.Difficulty, strings.Join(e.TargetAreas, ", "), equipmentLabel(e.Equipment),
			e.SuggestedSets, e.SuggestedReps, e.Instructions)
	}
	return b.String()
}

func equipmentLabel(equipment []string) string {
	if len(equipment) == 0 {
		return "no equipment"
	}
	return strings.Join(equipment, ", ")
}

func rosterNames(exercises []Exercise) string {
	names := make([]string, 0, len(exercises))
	for _, e := range exercises {
		names = append(names, fmt.Sprintf("%s (%s)", e.Name, strings.Join(e.TargetAreas, ", ")))
	}
	return strings.Join(names, "; ") + "\n"
}
