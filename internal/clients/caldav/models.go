package caldav

import "time"

// Calendar represents a calendar collection on the server
type Calendar struct {
	ID          string // Calendar path/URL
	DisplayName string
	URL         string
}

// Event is a single reminder rendered as a calendar event
type Event struct {
	UID         string // Unique ID in CalDAV
	Summary     string // Title
	Description string
	StartTime   time.Time
	EndTime     time.Time
	RRule       string // Recurrence rule (e.g., "FREQ=WEEKLY;BYDAY=MO")
}
