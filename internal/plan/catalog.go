package plan

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed catalog.json
var catalogJSON []byte

// Catalog is the static exercise library. Loaded once at startup, read-only
// afterwards, so it is safe for concurrent use.
type Catalog struct {
	exercises []Exercise
}

// Filter selects exercises from the catalog. A zero value matches everything.
type Filter struct {
	Type        WorkoutType
	Equipment   []string
	Difficulty  string
	TargetAreas []string
}

// NewCatalog loads the embedded exercise library.
func NewCatalog() (*Catalog, error) {
	var exercises []Exercise
	if err := json.Unmarshal(catalogJSON, &exercises); err != nil {
		return nil, fmt.Errorf("parse exercise catalog: %w", err)
	}
	if len(exercises) == 0 {
		return nil, fmt.Errorf("exercise catalog is empty")
	}
	return &Catalog{exercises: exercises}, nil
}

// styleTagsForType maps a workout type to the catalog style tags it draws
// from. Unknown types fall back to strength so the mapping is total.
func styleTagsForType(t WorkoutType) []string {
	switch t {
	case TypeHIIT:
		return []string{"hiit", "cardio"}
	case TypeUpperBody:
		return []string{"upper"}
	case TypeLowerBody:
		return []string{"lower"}
	case TypeFullBody:
		return []string{"full_body"}
	case TypeCardio:
		return []string{"cardio"}
	case TypeStrength:
		return []string{"strength"}
	case TypeYoga:
		return []string{"yoga", "mobility"}
	case TypeCalisthenics:
		return []string{"calisthenics"}
	default:
		return []string{"strength"}
	}
}

// difficultyRank orders levels so that filtering by a level also admits
// everything easier. Unknown levels rank highest and admit the whole catalog.
func difficultyRank(level string) int {
	switch strings.ToLower(level) {
	case "beginner":
		return 0
	case "intermediate":
		return 1
	default:
		return 2
	}
}

// Filter returns the exercises matching f, in catalog order, without
// duplicates. Equipment-free exercises match any equipment filter.
func (c *Catalog) Filter(f Filter) []Exercise {
	var tags []string
	if f.Type != "" {
		tags = styleTagsForType(f.Type)
	}

	available := make(map[string]bool, len(f.Equipment))
	for _, e := range f.Equipment {
		available[strings.ToLower(e)] = true
	}

	maxRank := 2
	if f.Difficulty != "" {
		maxRank = difficultyRank(f.Difficulty)
	}

	var out []Exercise
	for _, e := range c.exercises {
		if tags != nil && !hasAnyTag(e.StyleTags, tags) {
			continue
		}
		if len(f.Equipment) > 0 && !equipmentSatisfied(e.Equipment, available) {
			continue
		}
		if difficultyRank(e.Difficulty) > maxRank {
			continue
		}
		if len(f.TargetAreas) > 0 && !hasAnyTag(e.TargetAreas, f.TargetAreas) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// All returns every exercise in the catalog.
func (c *Catalog) All() []Exercise {
	out := make([]Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func equipmentSatisfied(required []string, available map[string]bool) bool {
	for _, r := range required {
		if !available[strings.ToLower(r)] {
			return false
		}
	}
	return true
}
