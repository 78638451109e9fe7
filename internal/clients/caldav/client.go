package caldav

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"
)

// Client is a CalDAV client used to publish reminder events
type Client struct {
	baseURL    string
	username   string
	password   string
	calendarID string // Optional: specific calendar to publish into
	client     *caldav.Client
}

// NewClient creates a new CalDAV client
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
	}
}

// IsConfigured returns true if the client has an endpoint and credentials
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.username != "" && c.password != ""
}

// SetCalendarID sets the calendar to publish into
func (c *Client) SetCalendarID(id string) {
	c.calendarID = id
}

// connect establishes connection to the CalDAV server
func (c *Client) connect() (*caldav.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	httpClient := &http.Client{
		Transport: &basicAuthTransport{
			username: c.username,
			password: c.password,
		},
		Timeout: 30 * time.Second,
	}

	client, err := caldav.NewClient(httpClient, c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to CalDAV: %w", err)
	}

	c.client = client
	return client, nil
}

// basicAuthTransport adds Basic Auth to HTTP requests
type basicAuthTransport struct {
	username string
	password string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.username, t.password)
	return http.DefaultTransport.RoundTrip(req)
}

// DiscoverCalendars returns all calendars for the user
func (c *Client) DiscoverCalendars() ([]Calendar, error) {
	client, err := c.connect()
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("find home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("find calendars: %w", err)
	}

	var result []Calendar
	for _, cal := range cals {
		result = append(result, Calendar{
			ID:          cal.Path,
			DisplayName: cal.Name,
			URL:         cal.Path,
		})
	}

	return result, nil
}

// PutEvent creates or replaces an event in the calendar (PUT semantics)
func (c *Client) PutEvent(calendarPath string, event *Event) error {
	client, err := c.connect()
	if err != nil {
		return err
	}

	if calendarPath == "" {
		calendarPath = c.calendarID
	}
	if calendarPath == "" {
		return fmt.Errorf("calendar path not specified")
	}
	if event.UID == "" {
		return fmt.Errorf("event UID not specified")
	}

	cal := EventToCalendar(event)

	_, err = client.PutCalendarObject(context.Background(), eventPath(calendarPath, event.UID), cal)
	if err != nil {
		return fmt.Errorf("put event: %w", err)
	}

	return nil
}

// DeleteEvent deletes an event by UID
func (c *Client) DeleteEvent(calendarPath, eventUID string) error {
	client, err := c.connect()
	if err != nil {
		return err
	}

	if calendarPath == "" {
		calendarPath = c.calendarID
	}
	if calendarPath == "" {
		return fmt.Errorf("calendar path not specified")
	}

	if err := client.RemoveAll(context.Background(), eventPath(calendarPath, eventUID)); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	return nil
}

func eventPath(calendarPath, uid string) string {
	if !strings.HasSuffix(calendarPath, "/") {
		calendarPath += "/"
	}
	return calendarPath + uid + ".ics"
}

// EventToCalendar wraps a single event in a VCALENDAR
func EventToCalendar(event *Event) *ical.Calendar {
	cal := newCalendar()
	cal.Children = append(cal.Children, eventComponent(event))
	return cal
}

// EventsToCalendar wraps several events in one VCALENDAR, used for
// .ics file export
func EventsToCalendar(events []*Event) *ical.Calendar {
	cal := newCalendar()
	for _, event := range events {
		cal.Children = append(cal.Children, eventComponent(event))
	}
	return cal
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//VitaBot//CalDAV//EN")
	return cal
}

func eventComponent(event *Event) *ical.Component {
	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, event.UID)
	vevent.Props.SetText(ical.PropSummary, event.Summary)

	if event.Description != "" {
		vevent.Props.SetText(ical.PropDescription, event.Description)
	}

	// UTC times; iCalendar renders them with the Z suffix
	vevent.Props.SetDateTime(ical.PropDateTimeStart, event.StartTime.UTC())
	if !event.EndTime.IsZero() {
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, event.EndTime.UTC())
	}

	if event.RRule != "" {
		// RRULE is a RECUR value; SetText would escape its separators
		vevent.Props.Set(&ical.Prop{Name: ical.PropRecurrenceRule, Value: event.RRule})
	}

	vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())

	return vevent.Component
}

// SerializeCalendar renders a calendar as iCalendar text
func SerializeCalendar(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
