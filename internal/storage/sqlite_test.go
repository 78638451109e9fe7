package storage

import (
	"testing"

	"github.com/ostapk/vitabot/internal/domain"
)

func setupTestDB(t *testing.T) *Storage {
	t.Helper()
	s, err := NewInMemory()
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMarkAndQueryDismissal(t *testing.T) {
	s := setupTestDB(t)

	dismissed, err := s.IsDismissed("2026-03-10", "r1")
	if err != nil {
		t.Fatalf("is dismissed: %v", err)
	}
	if dismissed {
		t.Error("fresh db should have no dismissals")
	}

	if err := s.MarkDismissed("2026-03-10", "r1"); err != nil {
		t.Fatalf("mark dismissed: %v", err)
	}

	dismissed, err = s.IsDismissed("2026-03-10", "r1")
	if err != nil {
		t.Fatalf("is dismissed: %v", err)
	}
	if !dismissed {
		t.Error("r1 should be dismissed for 2026-03-10")
	}

	// A record for one day must not leak into another
	dismissed, err = s.IsDismissed("2026-03-11", "r1")
	if err != nil {
		t.Fatalf("is dismissed: %v", err)
	}
	if dismissed {
		t.Error("dismissal must be scoped to its day")
	}
}

func TestMarkDismissedIdempotent(t *testing.T) {
	s := setupTestDB(t)

	if err := s.MarkDismissed("2026-03-10", "r1"); err != nil {
		t.Fatalf("mark dismissed: %v", err)
	}
	if err := s.MarkDismissed("2026-03-10", "r1"); err != nil {
		t.Fatalf("mark dismissed twice: %v", err)
	}

	all, err := s.DismissedOn("2026-03-10")
	if err != nil {
		t.Fatalf("dismissed on: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("dismissals = %d, want 1", len(all))
	}
}

func TestDismissedOn(t *testing.T) {
	s := setupTestDB(t)

	for _, id := range []string{"r1", "r2", "r3"} {
		if err := s.MarkDismissed("2026-03-10", id); err != nil {
			t.Fatalf("mark dismissed %s: %v", id, err)
		}
	}
	if err := s.MarkDismissed("2026-03-11", "r9"); err != nil {
		t.Fatalf("mark dismissed r9: %v", err)
	}

	all, err := s.DismissedOn("2026-03-10")
	if err != nil {
		t.Fatalf("dismissed on: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("dismissals = %d, want 3", len(all))
	}
	for _, id := range []string{"r1", "r2", "r3"} {
		if !all[id] {
			t.Errorf("missing dismissal for %s", id)
		}
	}
	if all["r9"] {
		t.Error("r9 belongs to another day")
	}
}

func TestResetIfNewDay(t *testing.T) {
	s := setupTestDB(t)

	// First call establishes the marker
	reset, err := s.ResetIfNewDay("2026-03-10")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !reset {
		t.Error("first call should reset (no marker yet)")
	}

	if err := s.MarkDismissed("2026-03-10", "r1"); err != nil {
		t.Fatalf("mark dismissed: %v", err)
	}

	// Same day: idempotent no-op, dismissals survive
	reset, err = s.ResetIfNewDay("2026-03-10")
	if err != nil {
		t.Fatalf("reset same day: %v", err)
	}
	if reset {
		t.Error("same-day call must be a no-op")
	}
	dismissed, _ := s.IsDismissed("2026-03-10", "r1")
	if !dismissed {
		t.Error("same-day reset must not clear dismissals")
	}

	// New day: everything cleared
	reset, err = s.ResetIfNewDay("2026-03-11")
	if err != nil {
		t.Fatalf("reset new day: %v", err)
	}
	if !reset {
		t.Error("new day should trigger a reset")
	}
	dismissed, _ = s.IsDismissed("2026-03-10", "r1")
	if dismissed {
		t.Error("rollover must clear prior dismissals")
	}
}

func TestReminderSettingsDefaults(t *testing.T) {
	s := setupTestDB(t)

	settings, err := s.GetReminderSettings()
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}

	want := domain.DefaultReminderSettings()
	if settings != want {
		t.Errorf("settings = %+v, want defaults %+v", settings, want)
	}
}

func TestReminderSettingsRoundTrip(t *testing.T) {
	s := setupTestDB(t)

	saved := domain.ReminderSettings{
		EnableNotifications: false,
		ShowOnDashboard:     true,
		SoundEnabled:        false,
		AutoDismiss:         true,
		DismissDelay:        60,
	}
	if err := s.SaveReminderSettings(saved); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	loaded, err := s.GetReminderSettings()
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if loaded != saved {
		t.Errorf("settings = %+v, want %+v", loaded, saved)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := setupTestDB(t)

	token, err := s.GetToken()
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty on fresh db", token)
	}

	if err := s.SaveToken("abc123"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := s.SaveToken("def456"); err != nil {
		t.Fatalf("overwrite token: %v", err)
	}

	token, err = s.GetToken()
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if token != "def456" {
		t.Errorf("token = %q, want def456", token)
	}

	if err := s.ClearToken(); err != nil {
		t.Fatalf("clear token: %v", err)
	}
	token, _ = s.GetToken()
	if token != "" {
		t.Errorf("token = %q after clear, want empty", token)
	}
}
