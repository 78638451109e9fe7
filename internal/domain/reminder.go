package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
)

// Reminder mirrors a reminder resource on the Vita server.
// Time is "HH:MM" in the viewer's local time. For RepeatWeekly,
// DaysOfWeek holds weekday indices (0=Sunday); for RepeatMonthly,
// day-of-month numbers (1..31). Date is set only for RepeatNone.
type Reminder struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Time        string     `json:"time"`
	IsActive    bool       `json:"isActive"`
	RepeatType  RepeatType `json:"repeatType"`
	DaysOfWeek  []int      `json:"daysOfWeek"`
	Date        string     `json:"date,omitempty"`
	CreatedAt   string     `json:"createdAt,omitempty"`
	UpdatedAt   string     `json:"updatedAt,omitempty"`
}

// ParseTime splits the "HH:MM" field into hour and minute.
func (r *Reminder) ParseTime() (hour, minute int, err error) {
	parts := strings.Split(r.Time, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %s", r.Time)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour: %s", parts[0])
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute: %s", parts[1])
	}
	return hour, minute, nil
}

func RepeatTypeLabel(t RepeatType) string {
	switch t {
	case RepeatNone:
		return "Без повторення"
	case RepeatDaily:
		return "Щодня"
	case RepeatWeekly:
		return "Щотижня"
	case RepeatMonthly:
		return "Щомісяця"
	default:
		return string(t)
	}
}

var WeekdayLabels = []string{
	"Неділя", "Понеділок", "Вівторок", "Середа", "Четвер", "П'ятниця", "Субота",
}
