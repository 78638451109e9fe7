package service

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ostapk/vitabot/internal/clients/healthapi"
	"github.com/ostapk/vitabot/internal/domain"
	"github.com/ostapk/vitabot/internal/storage"
)

const dayFormat = "2006-01-02"

// ReminderService mirrors the server's reminder collection and owns the
// device-local scheduling state: today's snapshot, per-day dismissals
// and notification settings.
type ReminderService struct {
	client   *healthapi.Client
	storage  *storage.Storage
	timezone *time.Location

	mu        sync.Mutex
	snapshot  []domain.Reminder
	overlay   map[string]bool // session-only dismissals, survives storage failures
	settings  domain.ReminderSettings
	listeners []func(domain.ReminderSettings)
}

func NewReminderService(client *healthapi.Client, s *storage.Storage, tz *time.Location) *ReminderService {
	settings, err := s.GetReminderSettings()
	if err != nil {
		log.Printf("Error loading reminder settings, using defaults: %v", err)
	}
	return &ReminderService{
		client:   client,
		storage:  s,
		timezone: tz,
		overlay:  make(map[string]bool),
		settings: settings,
	}
}

// DayKey formats a moment as the local calendar date dismissals are keyed by.
func (s *ReminderService) DayKey(t time.Time) string {
	return t.In(s.timezone).Format(dayFormat)
}

// --- CRUD passthrough ---

func (s *ReminderService) ListAll(active *bool) ([]domain.Reminder, error) {
	return s.client.ListReminders(active)
}

func (s *ReminderService) Get(id string) (*domain.Reminder, error) {
	return s.client.GetReminder(id)
}

func (s *ReminderService) Create(title, description, timeStr string, repeatType domain.RepeatType, daysOfWeek []int, date string) (*domain.Reminder, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("reminder title cannot be empty")
	}

	probe := domain.Reminder{Time: timeStr}
	if _, _, err := probe.ParseTime(); err != nil {
		return nil, fmt.Errorf("invalid reminder time: %w", err)
	}

	if repeatType == "" {
		repeatType = domain.RepeatNone
	}
	if repeatType == domain.RepeatNone && date == "" {
		return nil, fmt.Errorf("one-time reminder requires a date")
	}

	return s.client.CreateReminder(&healthapi.CreateReminderRequest{
		Title:       title,
		Description: description,
		Time:        timeStr,
		RepeatType:  repeatType,
		DaysOfWeek:  daysOfWeek,
		Date:        date,
	})
}

func (s *ReminderService) Update(id string, req *healthapi.UpdateReminderRequest) (*domain.Reminder, error) {
	return s.client.UpdateReminder(id, req)
}

func (s *ReminderService) ToggleActive(id string) (*domain.Reminder, error) {
	return s.client.ToggleReminder(id)
}

func (s *ReminderService) Delete(id string) error {
	return s.client.DeleteReminder(id)
}

// --- Today snapshot ---

// RefreshToday fetches today's reminders. On failure the last known
// snapshot is kept so scheduling degrades to stale data instead of
// going dark.
func (s *ReminderService) RefreshToday() ([]domain.Reminder, error) {
	reminders, err := s.client.TodayReminders()
	if err != nil {
		return s.TodaySnapshot(), fmt.Errorf("fetch today reminders: %w", err)
	}

	s.mu.Lock()
	s.snapshot = reminders
	s.mu.Unlock()
	return reminders, nil
}

// TodaySnapshot returns the last successfully fetched today-list.
func (s *ReminderService) TodaySnapshot() []domain.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Reminder, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// --- Dismissals ---

// DismissedToday merges persisted dismissals for the given day with the
// session overlay.
func (s *ReminderService) DismissedToday(now time.Time) map[string]bool {
	day := s.DayKey(now)
	dismissed, err := s.storage.DismissedOn(day)
	if err != nil {
		log.Printf("Error reading dismissals: %v", err)
		dismissed = make(map[string]bool)
	}

	s.mu.Lock()
	for id := range s.overlay {
		dismissed[id] = true
	}
	s.mu.Unlock()
	return dismissed
}

// MarkDismissed records a delivered reminder. The in-memory overlay is
// updated first so a storage failure can only cause a duplicate
// notification after a restart, never within the session.
func (s *ReminderService) MarkDismissed(now time.Time, reminderID string) {
	s.mu.Lock()
	s.overlay[reminderID] = true
	s.mu.Unlock()

	if err := s.storage.MarkDismissed(s.DayKey(now), reminderID); err != nil {
		log.Printf("Error persisting dismissal for %s: %v", reminderID, err)
	}
}

// ResetIfNewDay clears dismissal state when the calendar day has
// advanced. Returns true when a rollover happened.
func (s *ReminderService) ResetIfNewDay(now time.Time) bool {
	reset, err := s.storage.ResetIfNewDay(s.DayKey(now))
	if err != nil {
		log.Printf("Error resetting dismissals: %v", err)
		return false
	}
	if reset {
		s.mu.Lock()
		s.overlay = make(map[string]bool)
		s.mu.Unlock()
	}
	return reset
}

// --- Settings ---

func (s *ReminderService) Settings() domain.ReminderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings persists new settings and notifies subscribers, the
// equivalent of the storage-change event the web client listens for.
func (s *ReminderService) UpdateSettings(settings domain.ReminderSettings) error {
	if settings.DismissDelay < 1 {
		settings.DismissDelay = 1
	}

	s.mu.Lock()
	s.settings = settings
	listeners := make([]func(domain.ReminderSettings), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	err := s.storage.SaveReminderSettings(settings)
	if err != nil {
		// Session keeps the new values; only the persisted copy is stale
		log.Printf("Error persisting reminder settings: %v", err)
	}

	for _, fn := range listeners {
		fn(settings)
	}
	return err
}

// OnSettingsChange registers a callback invoked after every settings update.
func (s *ReminderService) OnSettingsChange(fn func(domain.ReminderSettings)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// --- Formatting ---

func (s *ReminderService) FormatReminderList(reminders []domain.Reminder) string {
	if len(reminders) == 0 {
		return "Нагадувань немає"
	}

	var sb strings.Builder
	for _, r := range reminders {
		status := "🔔"
		if !r.IsActive {
			status = "🔕"
		}
		sb.WriteString(fmt.Sprintf("%s <b>%s</b> — %s, %s\n", status, r.Title, r.Time, domain.RepeatTypeLabel(r.RepeatType)))
		if r.RepeatType == domain.RepeatWeekly && len(r.DaysOfWeek) > 0 {
			var days []string
			for _, d := range r.DaysOfWeek {
				if d >= 0 && d < len(domain.WeekdayLabels) {
					days = append(days, domain.WeekdayLabels[d])
				}
			}
			sb.WriteString("   " + strings.Join(days, ", ") + "\n")
		}
		if r.RepeatType == domain.RepeatNone && r.Date != "" {
			sb.WriteString("   " + r.Date + "\n")
		}
	}
	return sb.String()
}
