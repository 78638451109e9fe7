package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/ostapk/vitabot/config"
)

// Callbacks older than 48h arrive without their message; the handler
// must drop them instead of dereferencing a nil message.
func TestCallbackWithoutMessageIgnored(t *testing.T) {
	b := &Bot{cfg: &config.Config{OwnerTelegramID: 7}}

	b.handleUpdate(tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb1",
			From: &tgbotapi.User{ID: 7},
			Data: "rtoggle:r1",
		},
	})
}

func TestCallbackFromStrangerIgnored(t *testing.T) {
	b := &Bot{cfg: &config.Config{OwnerTelegramID: 7}}

	b.handleUpdate(tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb1",
			From:    &tgbotapi.User{ID: 8},
			Data:    "rdel:r1",
			Message: &tgbotapi.Message{},
		},
	})
}
