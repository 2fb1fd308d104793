package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram adapts the Bot API client to the Transport interface and
// runs the long-polling update loop.
type Telegram struct {
	api         *tgbotapi.BotAPI
	pollTimeout time.Duration
	log         *slog.Logger
}

var _ Transport = (*Telegram)(nil)

func NewTelegram(token string, pollTimeout time.Duration, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Info("authorized on telegram", "username", api.Self.UserName)
	return &Telegram{api: api, pollTimeout: pollTimeout, log: log}, nil
}

// Run polls for updates and dispatches them to the bot until ctx is
// cancelled. Handler errors are logged, never fatal: one bad event must
// not take the loop down.
func (t *Telegram) Run(ctx context.Context, b *Bot) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(t.pollTimeout.Seconds())
	updates := t.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			t.dispatch(ctx, b, update)
		}
	}
}

func (t *Telegram) dispatch(ctx context.Context, b *Bot, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		m := Message{
			ChatID:     update.Message.Chat.ID,
			TelegramID: update.Message.From.ID,
			SenderName: displayName(update.Message.From),
			Text:       update.Message.Text,
			Command:    update.Message.Command(),
		}
		if err := b.HandleMessage(ctx, m); err != nil {
			t.log.Error("message handler failed", "error", err, "telegram_id", m.TelegramID)
		}

	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.Message == nil {
			// Button press on a message too old to resolve; just ack.
			_ = t.AnswerCallback(cq.ID, "")
			return
		}
		cb := Callback{
			ID:         cq.ID,
			ChatID:     cq.Message.Chat.ID,
			TelegramID: cq.From.ID,
			SenderName: displayName(cq.From),
			MessageID:  cq.Message.MessageID,
			Data:       cq.Data,
		}
		if err := b.HandleCallback(ctx, cb); err != nil {
			t.log.Error("callback handler failed", "error", err, "telegram_id", cb.TelegramID)
		}
	}
}

// Send implements Transport.
func (t *Telegram) Send(chatID int64, text string, keyboard Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = markup(keyboard)
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// Edit implements Transport.
func (t *Telegram) Edit(chatID int64, messageID int, text string, keyboard Keyboard) error {
	var err error
	if keyboard != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, markup(keyboard))
		_, err = t.api.Send(edit)
	} else {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		_, err = t.api.Send(edit)
	}
	return err
}

// AnswerCallback implements Transport.
func (t *Telegram) AnswerCallback(callbackID, text string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func markup(keyboard Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func displayName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	return u.UserName
}
