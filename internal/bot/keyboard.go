package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ostapk/vitabot/internal/domain"
)

func remindersKeyboard(reminders []domain.Reminder) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, r := range reminders {
		toggleLabel := "🔕 Вимкнути"
		if !r.IsActive {
			toggleLabel = "🔔 Увімкнути"
		}
		title := r.Title
		if runes := []rune(title); len(runes) > 20 {
			title = string(runes[:20]) + "…"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s (%s)", title, r.Time), "noop:"),
		))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggleLabel, "rtoggle:"+r.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Видалити", "rdel:"+r.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func onOff(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

func settingsKeyboard(s domain.ReminderSettings) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(s.EnableNotifications)+" Сповіщення", "stoggle:notifications"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(s.SoundEnabled)+" Звук", "stoggle:sound"),
			tgbotapi.NewInlineKeyboardButtonData(onOff(s.ShowOnDashboard)+" На дашборді", "stoggle:dashboard"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(s.AutoDismiss)+" Автозакриття", "stoggle:autodismiss"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("15 c", "sdelay:15"),
			tgbotapi.NewInlineKeyboardButtonData("30 c", "sdelay:30"),
			tgbotapi.NewInlineKeyboardButtonData("60 c", "sdelay:60"),
		),
	)
}

func formatSettings(s domain.ReminderSettings) string {
	return fmt.Sprintf(
		"⚙️ <b>Налаштування сповіщень</b>\n\n"+
			"Сповіщення: %s\n"+
			"Звук: %s\n"+
			"Показувати на дашборді: %s\n"+
			"Автозакриття: %s (через %d с)",
		onOff(s.EnableNotifications), onOff(s.SoundEnabled),
		onOff(s.ShowOnDashboard), onOff(s.AutoDismiss), s.DismissDelay,
	)
}
