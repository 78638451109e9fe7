package scheduler

import (
	"testing"
	"time"

	"github.com/ostapk/vitabot/internal/domain"
)

func reminderAt(id, timeStr string) domain.Reminder {
	return domain.Reminder{ID: id, Title: "r-" + id, Time: timeStr, IsActive: true, RepeatType: domain.RepeatDaily}
}

func localTime(hour, min, sec int) time.Time {
	return time.Date(2026, 3, 10, hour, min, sec, 0, time.Local)
}

func TestNextOccurrenceBeforeDueTime(t *testing.T) {
	reminders := []domain.Reminder{reminderAt("r1", "09:00")}

	next, at, ok := NextOccurrence(reminders, nil, localTime(8, 0, 0))
	if !ok {
		t.Fatal("expected a candidate")
	}
	if next.ID != "r1" {
		t.Errorf("next = %q, want r1", next.ID)
	}
	want := localTime(9, 0, 0)
	if !at.Equal(want) {
		t.Errorf("occurrence = %v, want %v", at, want)
	}
}

func TestNextOccurrenceAfterDueTime(t *testing.T) {
	reminders := []domain.Reminder{reminderAt("r1", "09:00")}

	if _, _, ok := NextOccurrence(reminders, nil, localTime(9, 0, 1)); ok {
		t.Error("expected no candidate after the due time has passed")
	}
}

func TestNextOccurrenceExactlyAtDueTime(t *testing.T) {
	// Occurrences must be strictly in the future
	reminders := []domain.Reminder{reminderAt("r1", "09:00")}

	if _, _, ok := NextOccurrence(reminders, nil, localTime(9, 0, 0)); ok {
		t.Error("expected no candidate exactly at the due time")
	}
}

func TestNextOccurrencePicksEarliest(t *testing.T) {
	reminders := []domain.Reminder{
		reminderAt("r1", "09:00"),
		reminderAt("r2", "08:30"),
	}

	next, _, ok := NextOccurrence(reminders, nil, localTime(8, 0, 0))
	if !ok {
		t.Fatal("expected a candidate")
	}
	if next.ID != "r2" {
		t.Errorf("next = %q, want r2 (earlier occurrence)", next.ID)
	}
}

func TestNextOccurrenceSkipsDismissed(t *testing.T) {
	reminders := []domain.Reminder{
		reminderAt("r1", "08:30"),
		reminderAt("r2", "09:00"),
	}
	dismissed := map[string]bool{"r1": true}

	next, _, ok := NextOccurrence(reminders, dismissed, localTime(8, 0, 0))
	if !ok {
		t.Fatal("expected a candidate")
	}
	if next.ID != "r2" {
		t.Errorf("next = %q, want r2 (r1 dismissed)", next.ID)
	}
}

func TestNextOccurrenceSkipsInactive(t *testing.T) {
	r := reminderAt("r1", "09:00")
	r.IsActive = false

	if _, _, ok := NextOccurrence([]domain.Reminder{r}, nil, localTime(8, 0, 0)); ok {
		t.Error("inactive reminder must not be scheduled")
	}
}

func TestNextOccurrenceSkipsMalformedTime(t *testing.T) {
	reminders := []domain.Reminder{
		reminderAt("r1", "not-a-time"),
		reminderAt("r2", "25:99"),
		reminderAt("r3", "10:00"),
	}

	next, _, ok := NextOccurrence(reminders, nil, localTime(8, 0, 0))
	if !ok {
		t.Fatal("valid reminder should survive malformed siblings")
	}
	if next.ID != "r3" {
		t.Errorf("next = %q, want r3", next.ID)
	}
}

func TestNextOccurrenceTieBreaksOnLowestID(t *testing.T) {
	reminders := []domain.Reminder{
		reminderAt("b", "09:00"),
		reminderAt("a", "09:00"),
	}

	next, _, ok := NextOccurrence(reminders, nil, localTime(8, 0, 0))
	if !ok {
		t.Fatal("expected a candidate")
	}
	if next.ID != "a" {
		t.Errorf("next = %q, want a (lowest id wins ties)", next.ID)
	}
}

func TestNextOccurrenceEmptyInput(t *testing.T) {
	if _, _, ok := NextOccurrence(nil, nil, localTime(8, 0, 0)); ok {
		t.Error("expected no candidate for empty input")
	}
}

// Selection is by time of day only: a weekly reminder whose configured
// days don't include today is still a same-day candidate. Filtering by
// day is the server's job via the today-list endpoint.
func TestNextOccurrenceIgnoresWeekdayMask(t *testing.T) {
	now := localTime(8, 0, 0) // 2026-03-10 is a Tuesday
	r := reminderAt("r1", "09:00")
	r.RepeatType = domain.RepeatWeekly
	r.DaysOfWeek = []int{5} // Friday only

	if _, _, ok := NextOccurrence([]domain.Reminder{r}, nil, now); !ok {
		t.Error("weekly reminder should be a candidate regardless of its day mask")
	}
}

func TestNextOccurrencePure(t *testing.T) {
	reminders := []domain.Reminder{reminderAt("r1", "09:00"), reminderAt("r2", "08:30")}
	dismissed := map[string]bool{}
	now := localTime(8, 0, 0)

	first, _, _ := NextOccurrence(reminders, dismissed, now)
	second, _, _ := NextOccurrence(reminders, dismissed, now)
	if first.ID != second.ID {
		t.Errorf("repeated calls disagree: %q vs %q", first.ID, second.ID)
	}
	if len(dismissed) != 0 {
		t.Error("selector must not mutate the dismissed set")
	}
}
