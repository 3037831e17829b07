package notify

import (
	"context"

	"travel-agency/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func NewTelegramBot(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// Telegram messages the operator chat.
type Telegram struct {
	bot     Sender
	chatID  int64
	breaker *utils.Breaker
}

func NewTelegram(bot Sender, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID, breaker: utils.NewBreaker("telegram")}
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Notify(ctx context.Context, event Event) error {
	return t.breaker.Execute(ctx, func(context.Context) error {
		_, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, event.Text()))
		return err
	})
}
