package bot

import (
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ostapk/vitabot/internal/domain"
)

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if !b.cfg.IsAllowedUser(msg.From.ID) {
		_ = b.SendMessage(msg.Chat.ID, "⛔ Це приватний бот")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
	}
}

func (b *Bot) handleCallback(cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || !b.cfg.IsAllowedUser(cb.From.ID) {
		return
	}
	// Telegram omits the message on callbacks older than 48h; there is
	// nothing left to edit then
	if cb.Message == nil {
		return
	}

	// Acknowledge immediately so the client stops its spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	parts := strings.SplitN(cb.Data, ":", 2)
	action := parts[0]
	arg := ""
	if len(parts) == 2 {
		arg = parts[1]
	}

	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	switch action {
	case "rtoggle":
		if _, err := b.reminderService.ToggleActive(arg); err != nil {
			log.Printf("Error toggling reminder %s: %v", arg, err)
			_ = b.SendMessage(chatID, "Не вдалося змінити статус нагадування")
			return
		}
		b.scheduler.RefreshAndReevaluate()
		b.refreshRemindersMessage(chatID, messageID)

	case "rdel":
		if err := b.reminderService.Delete(arg); err != nil {
			log.Printf("Error deleting reminder %s: %v", arg, err)
			_ = b.SendMessage(chatID, "Не вдалося видалити нагадування")
			return
		}
		if b.calendarService.IsConfigured() {
			if err := b.calendarService.Unpublish(&domain.Reminder{ID: arg}); err != nil {
				log.Printf("Error unpublishing reminder %s: %v", arg, err)
			}
		}
		b.scheduler.RefreshAndReevaluate()
		b.refreshRemindersMessage(chatID, messageID)

	case "stoggle":
		settings := b.reminderService.Settings()
		switch arg {
		case "notifications":
			settings.EnableNotifications = !settings.EnableNotifications
		case "dashboard":
			settings.ShowOnDashboard = !settings.ShowOnDashboard
		case "sound":
			settings.SoundEnabled = !settings.SoundEnabled
		case "autodismiss":
			settings.AutoDismiss = !settings.AutoDismiss
		default:
			return
		}
		if err := b.reminderService.UpdateSettings(settings); err != nil {
			log.Printf("Error saving settings: %v", err)
		}
		b.refreshSettingsMessage(chatID, messageID)

	case "sdelay":
		delay, err := strconv.Atoi(arg)
		if err != nil || delay < 1 {
			return
		}
		settings := b.reminderService.Settings()
		settings.DismissDelay = delay
		if err := b.reminderService.UpdateSettings(settings); err != nil {
			log.Printf("Error saving settings: %v", err)
		}
		b.refreshSettingsMessage(chatID, messageID)
	}
}

func (b *Bot) refreshRemindersMessage(chatID int64, messageID int) {
	reminders, err := b.reminderService.ListAll(nil)
	if err != nil {
		log.Printf("Error listing reminders: %v", err)
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID,
		b.reminderService.FormatReminderList(reminders),
		remindersKeyboard(reminders),
	)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to refresh reminders message: %v", err)
	}
}

func (b *Bot) refreshSettingsMessage(chatID int64, messageID int) {
	settings := b.reminderService.Settings()
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID,
		formatSettings(settings),
		settingsKeyboard(settings),
	)
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to refresh settings message: %v", err)
	}
}
