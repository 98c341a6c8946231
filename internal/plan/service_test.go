package plan_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/fitstack/weekfit/internal/plan"
	"github.com/fitstack/weekfit/internal/sqlite"
)

// Without an API key the service still produces a ready day for any profile,
// through the synthetic fallback.
func Test_GenerateDay_WithoutAPIKey(t *testing.T) {
	ctx := t.Context()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	defer db.Close()

	svc, err := plan.NewService(db, logger, "")
	if err != nil {
		t.Fatalf("Failed to create plan service: %v", err)
	}

	profile := plan.ParseProfile(map[string]any{
		"user_id":     "test-user-id",
		"limitations": "recovering from knee surgery",
	})
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday

	record, err := svc.GenerateDay(ctx, profile, date, plan.DayIndex(date))
	if err != nil {
		t.Fatalf("GenerateDay failed: %v", err)
	}

	if record.Status != plan.StatusReady {
		t.Errorf("expected ready status, got %q", record.Status)
	}
	if record.Payload == nil {
		t.Fatal("expected a payload on the ready record")
	}
	if !plan.IsSynthetic(*record.Payload) {
		t.Error("expected the synthetic fallback payload without an API key")
	}

	// The stored record is retrievable through the read path.
	stored, err := svc.Day(ctx, profile.UserID, date)
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if stored.Status != plan.StatusReady {
		t.Errorf("stored status = %q, want ready", stored.Status)
	}
}
