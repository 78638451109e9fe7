package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ostapk/vitabot/internal/clients/healthapi"
	"github.com/ostapk/vitabot/internal/domain"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	switch cmd {
	case "start":
		b.cmdStart(chatID)
	case "help":
		b.cmdHelp(chatID)
	case "today":
		b.cmdToday(chatID)
	case "entry":
		b.cmdEntry(chatID, args)
	case "history":
		b.cmdHistory(chatID, args)
	case "stats":
		b.cmdStats(chatID, args)
	case "quote":
		b.cmdQuote(chatID, args)
	case "quotes":
		b.cmdQuotes(chatID, args)
	case "reminders":
		b.cmdReminders(chatID)
	case "remind":
		b.cmdRemind(chatID, args)
	case "settings":
		b.cmdSettings(chatID)
	case "profile":
		b.cmdProfile(chatID)
	case "goals":
		b.cmdGoals(chatID, args)
	case "export":
		b.cmdExport(chatID)
	case "sync":
		b.cmdSync(chatID)
	default:
		_ = b.SendMessage(chatID, "Невідома команда. /help для списку команд")
	}
}

func (b *Bot) cmdStart(chatID int64) {
	user, err := b.profileService.Me()
	if err != nil {
		log.Printf("Error getting profile: %v", err)
		_ = b.SendMessage(chatID, "👋 Вітаю! Я твій помічник у щоденнику здоров'я. /help для початку")
		return
	}
	_ = b.SendMessage(chatID, fmt.Sprintf("👋 Вітаю, %s! Я твій помічник у щоденнику здоров'я. /help для початку", user.Name))
}

func (b *Bot) cmdHelp(chatID int64) {
	help := `<b>Команди</b>

📅 /today — записи та нагадування на сьогодні
➕ /entry настрій(1-5) сон(год) вода(мл) активність(хв) [тип] [нотатки]
    напр.: <code>/entry 4 7.5 2000 30 running ранкова пробіжка</code>
📖 /history [today|week|month|all] — історія записів
📊 /stats [today|week|month] — аналітика та цілі
💬 /quote — цитата дня; /quote 1..5 — під настрій
🔎 /quotes [категорія чи пошук] — список цитат
🔔 /reminders — нагадування (увімкнути/видалити)
➕ /remind ЧЧ:ХХ daily|weekly дні|monthly дні|ДАТА назва
    напр.: <code>/remind 09:00 daily Випити склянку води</code>
⚙️ /settings — налаштування сповіщень
👤 /profile — профіль і цілі
🎯 /goals вода(мл) сон(год) активність(хв)
📤 /export — експорт нагадувань у .ics
🔄 /sync — публікація нагадувань у CalDAV-календар`
	_ = b.SendMessage(chatID, help)
}

func (b *Bot) cmdToday(chatID int64) {
	today := time.Now().In(b.cfg.Timezone).Format("2006-01-02")

	page, err := b.entryService.List(healthapi.EntryFilter{StartDate: today, EndDate: today})
	if err != nil {
		log.Printf("Error fetching today entries: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося завантажити записи. Спробуй пізніше")
		return
	}

	text := "📅 <b>Сьогодні</b>\n\n"
	if len(page.Entries) == 0 {
		text += "Записів ще немає. /entry щоб додати\n"
	} else {
		for i := range page.Entries {
			text += b.entryService.FormatEntry(&page.Entries[i]) + "\n"
		}
	}

	if b.reminderService.Settings().ShowOnDashboard {
		reminders := b.reminderService.TodaySnapshot()
		if len(reminders) > 0 {
			text += "\n🔔 <b>Нагадування на сьогодні</b>\n"
			for _, r := range reminders {
				text += fmt.Sprintf("• %s — %s\n", r.Time, r.Title)
			}
		}
	}

	_ = b.SendMessage(chatID, text)
}

func (b *Bot) cmdEntry(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 4 {
		_ = b.SendMessage(chatID, "Формат: /entry настрій(1-5) сон(год) вода(мл) активність(хв) [тип] [нотатки]")
		return
	}

	mood, err1 := strconv.Atoi(fields[0])
	sleep, err2 := strconv.ParseFloat(fields[1], 64)
	water, err3 := strconv.Atoi(fields[2])
	activity, err4 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		_ = b.SendMessage(chatID, "Не зрозумів числа. Приклад: <code>/entry 4 7.5 2000 30</code>")
		return
	}

	entry := &domain.HealthEntry{
		Mood:            mood,
		SleepHours:      sleep,
		WaterIntake:     water,
		ActivityMinutes: activity,
	}

	rest := fields[4:]
	if len(rest) > 0 {
		if _, ok := domain.ActivityTypeLabels[rest[0]]; ok {
			entry.ActivityType = rest[0]
			rest = rest[1:]
		}
	}
	entry.Notes = strings.Join(rest, " ")

	created, err := b.entryService.Create(entry)
	if err != nil {
		log.Printf("Error creating entry: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося зберегти запис: "+err.Error())
		return
	}

	_ = b.SendMessage(chatID, "✅ Запис збережено\n\n"+b.entryService.FormatEntry(created))

	// A fitting quote makes for a nicer confirmation
	if quote, err := b.quoteService.RandomForMood(mood); err == nil {
		_ = b.SendMessage(chatID, b.quoteService.FormatQuote(quote))
	}
}

func (b *Bot) cmdHistory(chatID int64, args string) {
	rangeName := args
	if rangeName == "" {
		rangeName = "week"
	}

	startDate, endDate, err := b.entryService.QuickRange(rangeName)
	if err != nil {
		_ = b.SendMessage(chatID, "Формат: /history [today|week|month|all]")
		return
	}

	page, err := b.entryService.List(healthapi.EntryFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		log.Printf("Error fetching history: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося завантажити історію. Спробуй пізніше")
		return
	}

	text := "📖 <b>Історія</b>\n\n" + b.entryService.FormatEntryList(page.Entries)
	if page.TotalPages > 1 {
		text += fmt.Sprintf("\nПоказано %d з %d записів", len(page.Entries), page.TotalEntries)
	}
	_ = b.SendMessage(chatID, text)
}

func (b *Bot) cmdStats(chatID int64, args string) {
	rangeName := args
	if rangeName == "" {
		rangeName = "month"
	}

	startDate, endDate, err := b.entryService.QuickRange(rangeName)
	if err != nil || startDate == "" {
		_ = b.SendMessage(chatID, "Формат: /stats [today|week|month]")
		return
	}

	stats, err := b.entryService.Statistics(startDate, endDate)
	if err != nil {
		log.Printf("Error fetching statistics: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося завантажити статистику. Спробуй пізніше")
		return
	}

	var prefs *domain.UserPreferences
	if user, err := b.profileService.Me(); err == nil {
		prefs = user.Preferences
	}

	_ = b.SendMessage(chatID, b.entryService.FormatSummary(stats, prefs))
}

func (b *Bot) cmdQuote(chatID int64, args string) {
	var quote *domain.Quote
	var err error

	switch {
	case args == "":
		quote, err = b.quoteService.Daily()
	case args == "random":
		quote, err = b.quoteService.Random()
	default:
		mood, convErr := strconv.Atoi(args)
		if convErr != nil || mood < 1 || mood > 5 {
			_ = b.SendMessage(chatID, "Формат: /quote, /quote random або /quote 1..5")
			return
		}
		quote, err = b.quoteService.RandomForMood(mood)
	}

	if err != nil {
		log.Printf("Error fetching quote: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося завантажити цитату. Спробуй пізніше")
		return
	}
	_ = b.SendMessage(chatID, b.quoteService.FormatQuote(quote))
}

func (b *Bot) cmdQuotes(chatID int64, args string) {
	filter := healthapi.QuoteFilter{}
	if args != "" {
		if _, ok := domain.QuoteCategoryLabels[args]; ok {
			filter.Category = args
		} else {
			filter.Search = args
		}
	}

	page, err := b.quoteService.List(filter)
	if err != nil {
		log.Printf("Error listing quotes: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося завантажити цитати. Спробуй пізніше")
		return
	}
	_ = b.SendMessage(chatID, b.quoteService.FormatQuotePage(page))
}

func (b *Bot) cmdReminders(chatID int64) {
	reminders, err := b.reminderService.ListAll(nil)
	if err != nil {
		log.Printf("Error listing reminders: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося завантажити нагадування. Спробуй пізніше")
		return
	}

	msg := tgbotapi.NewMessage(chatID, b.reminderService.FormatReminderList(reminders))
	msg.ParseMode = tgbotapi.ModeHTML
	if len(reminders) > 0 {
		msg.ReplyMarkup = remindersKeyboard(reminders)
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send reminders list: %v", err)
	}
}

// cmdRemind creates a reminder:
//
//	/remind 09:00 daily Випити води
//	/remind 18:30 weekly 1,3,5 Тренування
//	/remind 10:00 monthly 1,15 Зважування
//	/remind 08:00 2026-09-01 Візит до лікаря
func (b *Bot) cmdRemind(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		_ = b.SendMessage(chatID, "Формат: /remind ЧЧ:ХХ daily|weekly дні|monthly дні|ДАТА назва")
		return
	}

	timeStr := fields[0]
	repeatType := domain.RepeatNone
	daysOfWeek := []int(nil)
	date := ""
	titleFrom := 2

	switch fields[1] {
	case "daily":
		repeatType = domain.RepeatDaily
	case "weekly", "monthly":
		if fields[1] == "weekly" {
			repeatType = domain.RepeatWeekly
		} else {
			repeatType = domain.RepeatMonthly
		}
		if len(fields) < 4 {
			_ = b.SendMessage(chatID, "Вкажи дні через кому, напр.: /remind 09:00 weekly 1,3,5 Тренування")
			return
		}
		for _, part := range strings.Split(fields[2], ",") {
			day, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				_ = b.SendMessage(chatID, "Дні мають бути числами через кому")
				return
			}
			daysOfWeek = append(daysOfWeek, day)
		}
		titleFrom = 3
	default:
		if _, err := time.Parse("2006-01-02", fields[1]); err != nil {
			_ = b.SendMessage(chatID, "Другий аргумент: daily, weekly, monthly або дата РРРР-ММ-ДД")
			return
		}
		date = fields[1]
	}

	title := strings.Join(fields[titleFrom:], " ")

	reminder, err := b.reminderService.Create(title, "", timeStr, repeatType, daysOfWeek, date)
	if err != nil {
		log.Printf("Error creating reminder: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося створити нагадування: "+err.Error())
		return
	}

	b.scheduler.RefreshAndReevaluate()
	_ = b.SendMessage(chatID, fmt.Sprintf("✅ Нагадування створено: <b>%s</b> о %s (%s)",
		reminder.Title, reminder.Time, domain.RepeatTypeLabel(reminder.RepeatType)))
}

func (b *Bot) cmdSettings(chatID int64) {
	settings := b.reminderService.Settings()
	msg := tgbotapi.NewMessage(chatID, formatSettings(settings))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = settingsKeyboard(settings)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send settings: %v", err)
	}
}

func (b *Bot) cmdProfile(chatID int64) {
	user, err := b.profileService.Me()
	if err != nil {
		log.Printf("Error getting profile: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося завантажити профіль. Спробуй пізніше")
		return
	}
	_ = b.SendMessage(chatID, b.profileService.FormatProfile(user))
}

func (b *Bot) cmdGoals(chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		_ = b.SendMessage(chatID, "Формат: /goals вода(мл) сон(год) активність(хв), напр.: <code>/goals 2000 8 30</code>")
		return
	}

	water, err1 := strconv.Atoi(fields[0])
	sleep, err2 := strconv.Atoi(fields[1])
	activity, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		_ = b.SendMessage(chatID, "Цілі мають бути числами")
		return
	}

	user, err := b.profileService.UpdateGoals(water, sleep, activity)
	if err != nil {
		log.Printf("Error updating goals: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося оновити цілі: "+err.Error())
		return
	}
	_ = b.SendMessage(chatID, "✅ Цілі оновлено\n\n"+b.profileService.FormatProfile(user))
}

func (b *Bot) cmdExport(chatID int64) {
	reminders, err := b.reminderService.ListAll(nil)
	if err != nil {
		log.Printf("Error listing reminders: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося завантажити нагадування. Спробуй пізніше")
		return
	}

	ics, err := b.calendarService.ExportICS(reminders)
	if err != nil {
		log.Printf("Error exporting reminders: %v", err)
		_ = b.SendMessage(chatID, "Немає нагадувань для експорту")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "vita-reminders.ics",
		Bytes: ics,
	})
	doc.Caption = "📤 Нагадування у форматі iCalendar"
	if _, err := b.api.Send(doc); err != nil {
		log.Printf("Failed to send export: %v", err)
	}
}

func (b *Bot) cmdSync(chatID int64) {
	if !b.calendarService.IsConfigured() {
		_ = b.SendMessage(chatID, "CalDAV не налаштовано (CALDAV_URL, CALDAV_USERNAME, CALDAV_PASSWORD)")
		return
	}

	if b.cfg.CalDAVCalendar == "" {
		calendars, err := b.calendarService.DiscoverCalendars()
		if err != nil {
			log.Printf("Error discovering calendars: %v", err)
			_ = b.SendMessage(chatID, "Не вдалося отримати список календарів")
			return
		}
		text := "Вкажи CALDAV_CALENDAR. Доступні календарі:\n"
		for _, cal := range calendars {
			text += fmt.Sprintf("• %s — <code>%s</code>\n", cal.DisplayName, cal.ID)
		}
		_ = b.SendMessage(chatID, text)
		return
	}

	reminders, err := b.reminderService.ListAll(nil)
	if err != nil {
		log.Printf("Error listing reminders: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося завантажити нагадування. Спробуй пізніше")
		return
	}

	result, err := b.calendarService.PublishAll(reminders)
	if err != nil {
		log.Printf("Error publishing reminders: %v", err)
		_ = b.SendMessage(chatID, "Не вдалося опублікувати нагадування: "+err.Error())
		return
	}

	text := fmt.Sprintf("🔄 Опубліковано: %d, пропущено: %d", result.Published, result.Skipped)
	if len(result.Errors) > 0 {
		text += "\nПомилки:\n• " + strings.Join(result.Errors, "\n• ")
	}
	_ = b.SendMessage(chatID, text)
}
