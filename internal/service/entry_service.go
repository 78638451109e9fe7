package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ostapk/vitabot/internal/clients/healthapi"
	"github.com/ostapk/vitabot/internal/domain"
)

// EntryService handles daily wellness entries: validation, CRUD against
// the Vita API and history/statistics formatting for the bot.
type EntryService struct {
	client   *healthapi.Client
	timezone *time.Location
}

func NewEntryService(client *healthapi.Client, tz *time.Location) *EntryService {
	return &EntryService{client: client, timezone: tz}
}

// Validate checks an entry against the same rules the entry form enforces.
func (s *EntryService) Validate(e *domain.HealthEntry) error {
	if e.Date == "" {
		return fmt.Errorf("entry date is required")
	}
	if _, err := time.Parse(dayFormat, e.Date); err != nil {
		return fmt.Errorf("invalid entry date: %w", err)
	}
	if e.Mood < 1 || e.Mood > 5 {
		return fmt.Errorf("mood must be between 1 and 5")
	}
	if e.SleepHours < 0 || e.SleepHours > 24 {
		return fmt.Errorf("sleep hours must be between 0 and 24")
	}
	if e.WaterIntake < 0 {
		return fmt.Errorf("water intake cannot be negative")
	}
	if e.ActivityMinutes < 0 {
		return fmt.Errorf("activity minutes cannot be negative")
	}
	if e.Steps < 0 {
		return fmt.Errorf("steps cannot be negative")
	}
	if e.CaloriesBurned < 0 {
		return fmt.Errorf("calories burned cannot be negative")
	}
	return nil
}

func (s *EntryService) Create(e *domain.HealthEntry) (*domain.HealthEntry, error) {
	if e.Date == "" {
		e.Date = time.Now().In(s.timezone).Format(dayFormat)
	}
	if err := s.Validate(e); err != nil {
		return nil, err
	}
	return s.client.CreateEntry(e)
}

func (s *EntryService) Update(id int64, e *domain.HealthEntry) (*domain.HealthEntry, error) {
	if err := s.Validate(e); err != nil {
		return nil, err
	}
	return s.client.UpdateEntry(id, e)
}

func (s *EntryService) Delete(id int64) error {
	return s.client.DeleteEntry(id)
}

func (s *EntryService) List(filter healthapi.EntryFilter) (*healthapi.EntryPage, error) {
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	return s.client.ListEntries(filter)
}

// QuickRange translates the history page's quick filters into a date range.
// Known ranges: today, week (last 7 days), month (last 30 days), all.
func (s *EntryService) QuickRange(name string) (startDate, endDate string, err error) {
	today := time.Now().In(s.timezone)
	switch name {
	case "today":
		d := today.Format(dayFormat)
		return d, d, nil
	case "week":
		return today.AddDate(0, 0, -6).Format(dayFormat), today.Format(dayFormat), nil
	case "month":
		return today.AddDate(0, 0, -29).Format(dayFormat), today.Format(dayFormat), nil
	case "all", "":
		return "", "", nil
	default:
		return "", "", fmt.Errorf("unknown range: %s", name)
	}
}

func (s *EntryService) Statistics(startDate, endDate string) (*domain.Statistics, error) {
	return s.client.Statistics(startDate, endDate)
}

func (s *EntryService) FormatEntry(e *domain.HealthEntry) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>%s</b>\n", e.Date))
	sb.WriteString(fmt.Sprintf("%s Настрій: %s\n", domain.MoodEmoji(e.Mood), domain.MoodLabel(e.Mood)))
	sb.WriteString(fmt.Sprintf("😴 Сон: %.1f год\n", e.SleepHours))
	sb.WriteString(fmt.Sprintf("💧 Вода: %d мл\n", e.WaterIntake))
	sb.WriteString(fmt.Sprintf("🏃 Активність: %d хв", e.ActivityMinutes))
	if e.ActivityType != "" {
		label := e.ActivityType
		if l, ok := domain.ActivityTypeLabels[e.ActivityType]; ok {
			label = l
		}
		sb.WriteString(" (" + label + ")")
	}
	sb.WriteString("\n")
	if e.Steps > 0 {
		sb.WriteString(fmt.Sprintf("👣 Кроки: %d\n", e.Steps))
	}
	if e.CaloriesBurned > 0 {
		sb.WriteString(fmt.Sprintf("🔥 Калорії: %d\n", e.CaloriesBurned))
	}
	if e.Notes != "" {
		sb.WriteString("📝 " + e.Notes + "\n")
	}
	if len(e.Tags) > 0 {
		sb.WriteString("🏷 " + strings.Join(e.Tags, ", ") + "\n")
	}
	return sb.String()
}

func (s *EntryService) FormatEntryList(entries []domain.HealthEntry) string {
	if len(entries) == 0 {
		return "Записів немає"
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s <b>%s</b> — сон %.1fг, вода %dмл, активність %dхв\n",
			domain.MoodEmoji(e.Mood), e.Date, e.SleepHours, e.WaterIntake, e.ActivityMinutes))
	}
	return sb.String()
}

// FormatSummary renders the analytics summary with goal progress when
// preferences are available.
func (s *EntryService) FormatSummary(stats *domain.Statistics, prefs *domain.UserPreferences) string {
	sum := stats.Summary
	var sb strings.Builder
	sb.WriteString("📊 <b>Підсумок</b>\n\n")
	sb.WriteString(fmt.Sprintf("Записів: %d\n", sum.TotalEntries))
	sb.WriteString(fmt.Sprintf("Середній настрій: %.1f %s\n", sum.AverageMood, domain.MoodEmoji(int(sum.AverageMood+0.5))))
	sb.WriteString(fmt.Sprintf("Вода: %d мл\n", sum.TotalWater))
	sb.WriteString(fmt.Sprintf("Активність: %d хв\n", sum.TotalActivity))
	if sum.TotalSteps > 0 {
		sb.WriteString(fmt.Sprintf("Кроки: %d\n", sum.TotalSteps))
	}
	if sum.TotalCalories > 0 {
		sb.WriteString(fmt.Sprintf("Калорії: %d\n", sum.TotalCalories))
	}

	days := len(stats.Statistics)
	if prefs != nil && days > 0 {
		sb.WriteString("\n🎯 <b>Цілі (середнє за день)</b>\n")
		if prefs.WaterGoal > 0 {
			sb.WriteString(goalLine("Вода", sum.TotalWater/days, prefs.WaterGoal, "мл"))
		}
		if prefs.ActivityGoal > 0 {
			sb.WriteString(goalLine("Активність", sum.TotalActivity/days, prefs.ActivityGoal, "хв"))
		}
	}
	return sb.String()
}

func goalLine(name string, avg, goal int, unit string) string {
	pct := avg * 100 / goal
	mark := "▫️"
	if pct >= 100 {
		mark = "✅"
	}
	return fmt.Sprintf("%s %s: %d/%d %s (%d%%)\n", mark, name, avg, goal, unit, pct)
}
