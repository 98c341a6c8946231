package plan

import (
	"strings"
	"testing"
)

func TestExcludeUnsafe_KneeInjury(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	lower := catalog.Filter(Filter{Type: TypeLowerBody})
	safe := ExcludeUnsafe(lower, "recovering from a knee injury")

	if len(safe) == 0 {
		t.Fatal("knee exclusions removed every lower body exercise")
	}
	for _, e := range safe {
		text := strings.ToLower(e.Name + " " + e.Instructions)
		for _, pattern := range []string{"jump", "lunge", "deep squat", "pistol"} {
			if strings.Contains(text, pattern) {
				t.Errorf("exercise %q contains %q despite knee limitation", e.Name, pattern)
			}
		}
	}
}

func TestExcludeUnsafe_NoLimitationsKeepsEverything(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	all := catalog.All()
	if got := ExcludeUnsafe(all, ""); len(got) != len(all) {
		t.Errorf("empty limitations changed the candidate set: %d vs %d", len(got), len(all))
	}
	if got := ExcludeUnsafe(all, "training for a marathon"); len(got) != len(all) {
		t.Errorf("unrecognized limitation changed the candidate set: %d vs %d", len(got), len(all))
	}
}

func TestExcludeUnsafe_OnlyShrinks(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	all := catalog.All()
	limitations := []string{
		"shoulder pain",
		"bad knees and a sore wrist",
		"herniated disc in my lower back",
		"sprained ankle",
	}
	for _, limitation := range limitations {
		safe := ExcludeUnsafe(all, limitation)
		if len(safe) > len(all) {
			t.Errorf("limitation %q grew the candidate set", limitation)
		}
		if len(safe) == len(all) {
			t.Errorf("limitation %q excluded nothing", limitation)
		}
		// Every survivor must come from the input set.
		ids := make(map[int]bool, len(all))
		for _, e := range all {
			ids[e.ID] = true
		}
		for _, e := range safe {
			if !ids[e.ID] {
				t.Errorf("limitation %q introduced exercise %q not present in input", limitation, e.Name)
			}
		}
	}
}

func TestExcludeUnsafe_MultipleLimitationsCompound(t *testing.T) {
	catalog, err := NewCatalog()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	all := catalog.All()
	kneeOnly := ExcludeUnsafe(all, "knee injury")
	kneeAndWrist := ExcludeUnsafe(all, "knee injury and wrist pain")

	if len(kneeAndWrist) >= len(kneeOnly) {
		t.Errorf("compound limitations did not exclude more: %d vs %d", len(kneeAndWrist), len(kneeOnly))
	}
}
