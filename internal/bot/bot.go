package bot

import (
	"context"
	"fmt"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ostapk/vitabot/config"
	"github.com/ostapk/vitabot/internal/scheduler"
	"github.com/ostapk/vitabot/internal/service"
)

type Bot struct {
	api             *tgbotapi.BotAPI
	cfg             *config.Config
	reminderService *service.ReminderService
	entryService    *service.EntryService
	quoteService    *service.QuoteService
	profileService  *service.ProfileService
	calendarService *service.CalendarService
	scheduler       *scheduler.Scheduler
}

func New(cfg *config.Config, reminderSvc *service.ReminderService, entrySvc *service.EntryService, quoteSvc *service.QuoteService, profileSvc *service.ProfileService, calendarSvc *service.CalendarService, sched *scheduler.Scheduler) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("Authorized as @%s", api.Self.UserName)

	bot := &Bot{
		api:             api,
		cfg:             cfg,
		reminderService: reminderSvc,
		entryService:    entrySvc,
		quoteService:    quoteSvc,
		profileService:  profileSvc,
		calendarService: calendarSvc,
		scheduler:       sched,
	}

	// Set bot commands (menu button)
	bot.setCommands()

	return bot, nil
}

func (b *Bot) setCommands() {
	commands := []tgbotapi.BotCommand{
		{Command: "today", Description: "📅 Сьогодні: записи та нагадування"},
		{Command: "entry", Description: "➕ Додати запис"},
		{Command: "history", Description: "📖 Історія записів"},
		{Command: "stats", Description: "📊 Аналітика"},
		{Command: "quote", Description: "💬 Цитата дня"},
		{Command: "reminders", Description: "🔔 Нагадування"},
		{Command: "settings", Description: "⚙️ Налаштування сповіщень"},
		{Command: "help", Description: "❓ Довідка"},
	}

	cfg := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cfg); err != nil {
		log.Printf("Failed to set commands: %v", err)
	}
}

// Start runs the long-polling update loop until the context is done.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

// Notify implements scheduler.Notifier: a due reminder is delivered to
// the owner's chat. AutoClose deletes the message after the configured
// delay, the transport's analog of a self-closing toast.
func (b *Bot) Notify(n scheduler.Notification) error {
	text := fmt.Sprintf("🔔 <b>Нагадування</b>\n\n<b>%s</b>\n", n.Title)
	if n.Description != "" {
		text += n.Description + "\n"
	}
	text += "🕐 " + n.Time

	msg := tgbotapi.NewMessage(b.cfg.OwnerTelegramID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableNotification = !n.Sound

	sent, err := b.api.Send(msg)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	if n.AutoClose > 0 {
		chatID := sent.Chat.ID
		messageID := sent.MessageID
		time.AfterFunc(n.AutoClose, func() {
			del := tgbotapi.NewDeleteMessage(chatID, messageID)
			if _, err := b.api.Request(del); err != nil {
				log.Printf("Failed to auto-dismiss notification: %v", err)
			}
		})
	}

	return nil
}
