package plan

import (
	"strings"
)

// safetyRule excludes movement patterns that are contraindicated for an
// injured area. Triggers are matched against the free-text limitations of the
// profile, blocked patterns against an exercise's name and instructions.
type safetyRule struct {
	area     string
	triggers []string
	blocked  []string
}

// The rules are deliberately conservative: a match on either the name or the
// instructions is enough to exclude an exercise.
var safetyRules = []safetyRule{
	{
		area:     "shoulder",
		triggers: []string{"shoulder", "rotator cuff"},
		blocked:  []string{"overhead", "press", "pull-up", "dip", "lateral raise", "thruster", "handstand", "snatch"},
	},
	{
		area:     "knee",
		triggers: []string{"knee", "acl", "meniscus", "patella"},
		blocked:  []string{"jump", "lunge", "deep squat", "pistol", "burpee"},
	},
	{
		area:     "back",
		triggers: []string{"back", "spine", "disc", "sciatica"},
		blocked:  []string{"deadlift", "bent-over", "good morning", "kettlebell swing", "superman", "twist", "back extension"},
	},
	{
		area:     "wrist",
		triggers: []string{"wrist", "carpal"},
		blocked:  []string{"push-up", "plank", "mountain climber", "bear crawl", "downward dog", "handstand", "burpee"},
	},
	{
		area:     "ankle",
		triggers: []string{"ankle", "achilles"},
		blocked:  []string{"jump", "running", "high knees", "burpee", "sprint"},
	},
}

// ExcludeUnsafe removes exercises contraindicated by the limitations text.
// With no recognized trigger it returns the input unchanged, so applying it
// can only ever shrink the candidate set.
func ExcludeUnsafe(exercises []Exercise, limitations string) []Exercise {
	limitations = strings.ToLower(limitations)
	if strings.TrimSpace(limitations) == "" {
		return exercises
	}

	var active []safetyRule
	for _, rule := range safetyRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(limitations, trigger) {
				active = append(active, rule)
				break
			}
		}
	}
	if len(active) == 0 {
		return exercises
	}

	out := make([]Exercise, 0, len(exercises))
	for _, e := range exercises {
		if exerciseBlocked(e, active) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func exerciseBlocked(e Exercise, rules []safetyRule) bool {
	haystack := strings.ToLower(e.Name + " " + e.Instructions)
	for _, rule := range rules {
		for _, pattern := range rule.blocked {
			if strings.Contains(haystack, pattern) {
				return true
			}
		}
	}
	return false
}
