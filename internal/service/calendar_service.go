package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ostapk/vitabot/internal/clients/caldav"
	"github.com/ostapk/vitabot/internal/domain"
)

// CalendarService renders reminders as calendar events: an .ics export
// for the /export command and optional publishing to a CalDAV calendar.
type CalendarService struct {
	caldavClient *caldav.Client
	calendarPath string
	timezone     *time.Location
}

func NewCalendarService(client *caldav.Client, tz *time.Location) *CalendarService {
	if tz == nil {
		tz = time.UTC
	}
	return &CalendarService{
		caldavClient: client,
		timezone:     tz,
	}
}

// IsConfigured returns true if CalDAV publishing is available
func (s *CalendarService) IsConfigured() bool {
	return s.caldavClient != nil && s.caldavClient.IsConfigured()
}

// SetCalendarPath sets the calendar collection to publish into
func (s *CalendarService) SetCalendarPath(path string) {
	s.calendarPath = path
	if s.caldavClient != nil {
		s.caldavClient.SetCalendarID(path)
	}
}

// DiscoverCalendars returns the calendars available on the server
func (s *CalendarService) DiscoverCalendars() ([]caldav.Calendar, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("CalDAV not configured")
	}
	return s.caldavClient.DiscoverCalendars()
}

// ReminderUID derives the stable CalDAV object id for a reminder, so a
// republished reminder replaces its previous event.
func ReminderUID(r *domain.Reminder) string {
	return "vita-reminder-" + r.ID + "@vitabot"
}

// ReminderToEvent converts a reminder into a calendar event with a
// recurrence rule matching its repeat type.
func (s *CalendarService) ReminderToEvent(r *domain.Reminder) (*caldav.Event, error) {
	hour, minute, err := r.ParseTime()
	if err != nil {
		return nil, fmt.Errorf("reminder %s: %w", r.ID, err)
	}

	// One-time reminders start on their configured date, recurring
	// ones on the nearest day (recurrence carries them forward)
	startDay := time.Now().In(s.timezone)
	if r.RepeatType == domain.RepeatNone {
		if r.Date == "" {
			return nil, fmt.Errorf("reminder %s: one-time reminder without date", r.ID)
		}
		startDay, err = time.ParseInLocation(dayFormat, r.Date, s.timezone)
		if err != nil {
			return nil, fmt.Errorf("reminder %s: invalid date: %w", r.ID, err)
		}
	}

	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), hour, minute, 0, 0, s.timezone)

	return &caldav.Event{
		UID:         ReminderUID(r),
		Summary:     r.Title,
		Description: r.Description,
		StartTime:   start,
		EndTime:     start.Add(15 * time.Minute),
		RRule:       recurrenceRule(r),
	}, nil
}

var rruleDays = []string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

func recurrenceRule(r *domain.Reminder) string {
	switch r.RepeatType {
	case domain.RepeatDaily:
		return "FREQ=DAILY"
	case domain.RepeatWeekly:
		var days []string
		for _, d := range r.DaysOfWeek {
			if d >= 0 && d < len(rruleDays) {
				days = append(days, rruleDays[d])
			}
		}
		if len(days) == 0 {
			return "FREQ=WEEKLY"
		}
		return "FREQ=WEEKLY;BYDAY=" + strings.Join(days, ",")
	case domain.RepeatMonthly:
		var days []string
		for _, d := range r.DaysOfWeek {
			if d >= 1 && d <= 31 {
				days = append(days, fmt.Sprintf("%d", d))
			}
		}
		if len(days) == 0 {
			return "FREQ=MONTHLY"
		}
		return "FREQ=MONTHLY;BYMONTHDAY=" + strings.Join(days, ",")
	default:
		return ""
	}
}

// ExportICS renders all given reminders as a single iCalendar file.
func (s *CalendarService) ExportICS(reminders []domain.Reminder) ([]byte, error) {
	var events []*caldav.Event
	for i := range reminders {
		event, err := s.ReminderToEvent(&reminders[i])
		if err != nil {
			// Malformed reminders don't block the rest of the export
			continue
		}
		events = append(events, event)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no exportable reminders")
	}
	return caldav.SerializeCalendar(caldav.EventsToCalendar(events))
}

// PublishResult contains the outcome of a CalDAV publish run
type PublishResult struct {
	Published int
	Skipped   int
	Errors    []string
}

// PublishAll pushes every active reminder to the configured calendar.
func (s *CalendarService) PublishAll(reminders []domain.Reminder) (*PublishResult, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("CalDAV not configured")
	}
	if s.calendarPath == "" {
		return nil, fmt.Errorf("calendar path not set")
	}

	result := &PublishResult{}
	for i := range reminders {
		r := &reminders[i]
		if !r.IsActive {
			result.Skipped++
			continue
		}
		event, err := s.ReminderToEvent(r)
		if err != nil {
			result.Skipped++
			continue
		}
		if err := s.caldavClient.PutEvent(s.calendarPath, event); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.Title, err))
			continue
		}
		result.Published++
	}
	return result, nil
}

// Unpublish removes a reminder's event from the calendar.
func (s *CalendarService) Unpublish(r *domain.Reminder) error {
	if !s.IsConfigured() {
		return fmt.Errorf("CalDAV not configured")
	}
	return s.caldavClient.DeleteEvent(s.calendarPath, ReminderUID(r))
}
