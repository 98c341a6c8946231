package plan

import (
	"testing"
)

func TestCatalog_EveryWorkoutTypeHasCandidates(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	types := []WorkoutType{
		TypeHIIT, TypeUpperBody, TypeLowerBody, TypeFullBody,
		TypeCardio, TypeStrength, TypeYoga, TypeCalisthenics,
	}
	for _, workoutType := range types {
		matches := catalog.Filter(Filter{Type: workoutType})
		if len(matches) == 0 {
			t.Errorf("workout type %q has no catalog candidates", workoutType)
		}
	}
}

func TestCatalog_UnknownTypeFallsBackToStrength(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	unknown := catalog.Filter(Filter{Type: WorkoutType("Underwater Basket Weaving")})
	strength := catalog.Filter(Filter{Type: TypeStrength})

	if len(unknown) == 0 {
		t.Fatal("unknown workout type returned no candidates")
	}
	if len(unknown) != len(strength) {
		t.Errorf("unknown type returned %d candidates, want %d (same as Strength)", len(unknown), len(strength))
	}
}

func TestCatalog_EquipmentFilter(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	bodyweightOnly := catalog.Filter(Filter{Type: TypeUpperBody, Equipment: []string{"bodyweight"}})
	if len(bodyweightOnly) == 0 {
		t.Fatal("bodyweight-only filter returned no upper body exercises")
	}
	for _, e := range bodyweightOnly {
		if len(e.Equipment) != 0 {
			t.Errorf("exercise %q requires equipment %v despite bodyweight-only filter", e.Name, e.Equipment)
		}
	}

	withDumbbells := catalog.Filter(Filter{Type: TypeUpperBody, Equipment: []string{"bodyweight", "dumbbells"}})
	if len(withDumbbells) <= len(bodyweightOnly) {
		t.Errorf("adding dumbbells did not widen the candidate set: %d vs %d", len(withDumbbells), len(bodyweightOnly))
	}
}

func TestCatalog_DifficultyAdmitsEasierLevels(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	beginner := catalog.Filter(Filter{Type: TypeLowerBody, Difficulty: "beginner"})
	for _, e := range beginner {
		if e.Difficulty != "beginner" {
			t.Errorf("beginner filter admitted %q with difficulty %q", e.Name, e.Difficulty)
		}
	}

	advanced := catalog.Filter(Filter{Type: TypeLowerBody, Difficulty: "advanced"})
	if len(advanced) < len(beginner) {
		t.Errorf("advanced filter returned fewer candidates (%d) than beginner (%d)", len(advanced), len(beginner))
	}
}
