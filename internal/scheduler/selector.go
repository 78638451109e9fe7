package scheduler

import (
	"time"

	"github.com/ostapk/vitabot/internal/domain"
)

// NextOccurrence picks the reminder that should fire next today.
//
// A candidate is an active, not-yet-dismissed reminder whose time of
// day, combined with today's date, is strictly after now. The earliest
// candidate wins; on an exact tie the lowest id wins so the choice is
// stable. Selection is by time of day only: weekly/monthly day masks
// are left to the server's today-list endpoint. Reminders with an
// unparseable time are skipped rather than failing the whole pass.
//
// Pure function, safe to call repeatedly.
func NextOccurrence(reminders []domain.Reminder, dismissed map[string]bool, now time.Time) (domain.Reminder, time.Time, bool) {
	var (
		best   domain.Reminder
		bestAt time.Time
		found  bool
	)

	for _, r := range reminders {
		if !r.IsActive || dismissed[r.ID] {
			continue
		}

		hour, minute, err := r.ParseTime()
		if err != nil {
			continue
		}

		at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !at.After(now) {
			continue
		}

		if !found || at.Before(bestAt) || (at.Equal(bestAt) && r.ID < best.ID) {
			best = r
			bestAt = at
			found = true
		}
	}

	return best, bestAt, found
}
