package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ostapk/vitabot/internal/domain"
	"github.com/ostapk/vitabot/internal/service"
	"github.com/robfig/cron/v3"
)

// Notification is what gets shown to the user when a reminder fires.
// AutoClose of zero means the message stays until the user deals with it.
type Notification struct {
	Title       string
	Description string
	Time        string
	AutoClose   time.Duration
	Sound       bool
}

type Notifier interface {
	Notify(n Notification) error
}

// Scheduler owns the single one-shot timer for the next due reminder.
// Every re-evaluation cancels the pending timer before computing a new
// one, so at most one timer is ever armed. Cron drives the periodic
// snapshot refresh and the midnight rollover; everything else
// re-evaluates synchronously.
type Scheduler struct {
	cron      *cron.Cron
	reminders *service.ReminderService
	timezone  *time.Location
	refresh   time.Duration
	notifier  Notifier
	now       func() time.Time

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64 // invalidates stale timer callbacks
	armed string // id of the reminder the timer is armed for
}

func New(reminderSvc *service.ReminderService, tz *time.Location, refresh time.Duration) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(tz)),
		reminders: reminderSvc,
		timezone:  tz,
		refresh:   refresh,
		// Occurrences combine "today" with HH:MM in the configured
		// zone, not the host zone
		now: func() time.Time { return time.Now().In(tz) },
	}
}

func (s *Scheduler) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.reminders.ResetIfNewDay(s.now())
	s.reminders.OnSettingsChange(func(domain.ReminderSettings) {
		s.Reevaluate()
	})
	s.RefreshAndReevaluate()

	minutes := int(s.refresh.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	refreshSpec := fmt.Sprintf("*/%d * * * *", minutes)
	if _, err := s.cron.AddFunc(refreshSpec, s.RefreshAndReevaluate); err != nil {
		return fmt.Errorf("add snapshot refresh: %w", err)
	}

	// Day rollover: clear dismissal state and start the new day fresh
	if _, err := s.cron.AddFunc("0 0 * * *", func() {
		s.reminders.ResetIfNewDay(s.now())
		s.RefreshAndReevaluate()
	}); err != nil {
		return fmt.Errorf("add day rollover: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, refresh: %s)", s.timezone, s.refresh)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.mu.Lock()
	s.cancelLocked()
	s.mu.Unlock()
	log.Println("Scheduler stopped")
}

// RefreshAndReevaluate pulls a fresh today-snapshot and re-arms the
// timer. Called from cron and by the bot after reminder CRUD.
func (s *Scheduler) RefreshAndReevaluate() {
	if _, err := s.reminders.RefreshToday(); err != nil {
		// Stale snapshot is acceptable; scheduling continues as-is
		log.Printf("Error refreshing reminder snapshot: %v", err)
	}
	s.Reevaluate()
}

// Reevaluate cancels any pending timer and arms a new one for the
// soonest non-dismissed reminder still due today, if any.
func (s *Scheduler) Reevaluate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()

	if !s.reminders.Settings().EnableNotifications {
		return
	}

	now := s.now()
	next, at, ok := NextOccurrence(s.reminders.TodaySnapshot(), s.reminders.DismissedToday(now), now)
	if !ok {
		return
	}

	gen := s.gen
	s.armed = next.ID
	s.timer = time.AfterFunc(at.Sub(now), func() {
		s.fire(gen, next)
	})
}

// cancelLocked stops the pending timer and invalidates its callback.
func (s *Scheduler) cancelLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armed = ""
}

// Armed reports the reminder id the live timer is waiting on.
func (s *Scheduler) Armed() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed, s.armed != ""
}

func (s *Scheduler) fire(gen uint64, r domain.Reminder) {
	s.mu.Lock()
	if gen != s.gen {
		// A re-evaluation beat the timer callback; this firing is stale
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.armed = ""
	s.mu.Unlock()

	settings := s.reminders.Settings()
	if settings.EnableNotifications && s.notifier != nil {
		n := Notification{
			Title:       r.Title,
			Description: r.Description,
			Time:        r.Time,
			Sound:       settings.SoundEnabled,
		}
		if settings.AutoDismiss {
			n.AutoClose = time.Duration(settings.DismissDelay) * time.Second
		}
		if err := s.notifier.Notify(n); err != nil {
			log.Printf("Error delivering reminder %s: %v", r.ID, err)
		}
	}

	s.reminders.MarkDismissed(s.now(), r.ID)

	// Chain straight to the next candidate without waiting for cron
	s.Reevaluate()
}
