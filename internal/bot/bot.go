// Package bot implements the chat interaction layer: it turns inbound
// Telegram events into draft registry operations and storage writes, and
// renders negotiation views back to the user.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/AlekseiCherkes/spending-tracker/internal/core"
	"github.com/AlekseiCherkes/spending-tracker/internal/state"
	"github.com/AlekseiCherkes/spending-tracker/internal/storage"
)

// Callback data for the negotiation keyboard. Selection callbacks carry
// a row ID suffix, e.g. "cat:3".
const (
	cbCategoryChooser = "cat"
	cbAccountChooser  = "acc"
	cbBack            = "back"
	cbSave            = "save"
	cbCancel          = "cancel"
)

// Message is an inbound chat message.
type Message struct {
	ChatID     int64
	TelegramID int64
	SenderName string
	Text       string
	Command    string
}

// Callback is an inbound button press.
type Callback struct {
	ID         string
	ChatID     int64
	TelegramID int64
	SenderName string
	MessageID  int
	Data       string
}

// Bot drives the draft-expense negotiation. It owns the draft registry
// and reaches reference data and persistence through the store.
type Bot struct {
	tr     Transport
	store  storage.Store
	drafts *state.Registry
	log    *slog.Logger
}

func New(tr Transport, store storage.Store, drafts *state.Registry, log *slog.Logger) *Bot {
	return &Bot{
		tr:     tr,
		store:  store,
		drafts: drafts,
		log:    log,
	}
}

// Drafts exposes the registry for diagnostics.
func (b *Bot) Drafts() *state.Registry {
	return b.drafts
}

// HandleMessage processes an inbound text message. Commands are
// dispatched to their handlers; any other text is scanned for an
// amount. Text without an amount is assumed to be unrelated chat and
// ignored.
func (b *Bot) HandleMessage(ctx context.Context, m Message) error {
	if m.Command != "" {
		return b.handleCommand(ctx, m)
	}

	amount, ok := core.ParseAmount(m.Text)
	if !ok {
		b.log.Debug("no amount in message", "telegram_id", m.TelegramID)
		return nil
	}

	if _, err := b.store.EnsureUser(ctx, m.TelegramID, senderName(m.SenderName)); err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}

	draft := b.drafts.Create(m.TelegramID, amount)
	b.log.Info("draft created", "telegram_id", m.TelegramID, "amount", amount)

	// Preselect the first category and account when any exist, so a
	// typical expense is two taps away from saved.
	if categories, err := b.store.ListCategories(ctx); err == nil && len(categories) > 0 {
		draft, _ = b.drafts.Update(m.TelegramID, state.DraftUpdate{CategoryID: &categories[0].ID})
	}
	if accounts, err := b.store.ListAccounts(ctx); err == nil && len(accounts) > 0 {
		draft, _ = b.drafts.Update(m.TelegramID, state.DraftUpdate{AccountID: &accounts[0].ID})
	}

	text, keyboard := b.summaryView(ctx, draft)
	messageID, err := b.tr.Send(m.ChatID, text, keyboard)
	if err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	b.drafts.Update(m.TelegramID, state.DraftUpdate{MessageID: &messageID})
	return nil
}

// HandleCallback processes a button press. Every branch acknowledges
// the callback, including the "session expired" one.
func (b *Bot) HandleCallback(ctx context.Context, cb Callback) error {
	notice, err := b.dispatchCallback(ctx, cb)
	if ackErr := b.tr.AnswerCallback(cb.ID, notice); ackErr != nil {
		b.log.Warn("answer callback failed", "error", ackErr, "telegram_id", cb.TelegramID)
	}
	return err
}

func (b *Bot) dispatchCallback(ctx context.Context, cb Callback) (string, error) {
	// Cancel works with or without a draft.
	if cb.Data == cbCancel {
		removed := b.drafts.Remove(cb.TelegramID)
		b.log.Info("draft cancelled", "telegram_id", cb.TelegramID, "removed", removed)
		if err := b.tr.Edit(cb.ChatID, cb.MessageID, msgCancelled, nil); err != nil {
			return "", fmt.Errorf("render cancellation: %w", err)
		}
		return "", nil
	}

	draft, ok := b.drafts.Get(cb.TelegramID)
	if !ok {
		// Stale button press: the draft was saved or cancelled elsewhere.
		if err := b.tr.Edit(cb.ChatID, cb.MessageID, msgSessionExpired, nil); err != nil {
			return "", fmt.Errorf("render session expired: %w", err)
		}
		return "", nil
	}

	switch {
	case cb.Data == cbCategoryChooser:
		return "", b.showCategoryChooser(ctx, cb)

	case cb.Data == cbAccountChooser:
		return "", b.showAccountChooser(ctx, cb)

	case strings.HasPrefix(cb.Data, cbCategoryChooser+":"):
		id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, cbCategoryChooser+":"), 10, 64)
		if err != nil {
			return msgUnknownAction, nil
		}
		draft, _ = b.drafts.Update(cb.TelegramID, state.DraftUpdate{CategoryID: &id})
		return "", b.renderSummary(ctx, cb, draft)

	case strings.HasPrefix(cb.Data, cbAccountChooser+":"):
		id, err := strconv.ParseInt(strings.TrimPrefix(cb.Data, cbAccountChooser+":"), 10, 64)
		if err != nil {
			return msgUnknownAction, nil
		}
		draft, _ = b.drafts.Update(cb.TelegramID, state.DraftUpdate{AccountID: &id})
		return "", b.renderSummary(ctx, cb, draft)

	case cb.Data == cbBack:
		return "", b.renderSummary(ctx, cb, draft)

	case cb.Data == cbSave:
		return b.saveDraft(ctx, cb)

	default:
		return msgUnknownAction, nil
	}
}

// saveDraft validates, persists and confirms a finished draft. An
// incomplete draft or a failed write leaves the draft in the registry
// untouched so the user can keep editing or retry.
func (b *Bot) saveDraft(ctx context.Context, cb Callback) (string, error) {
	draft, ok := b.drafts.Get(cb.TelegramID)
	if !ok {
		return "", b.tr.Edit(cb.ChatID, cb.MessageID, msgSessionExpired, nil)
	}
	if !draft.IsComplete() {
		return msgFieldsMissing, nil
	}

	user, err := b.store.EnsureUser(ctx, cb.TelegramID, senderName(cb.SenderName))
	if err != nil {
		b.log.Error("resolve reporter failed", "error", err, "telegram_id", cb.TelegramID)
		return msgSaveFailed, nil
	}

	id, err := b.store.CreateExpense(ctx, draftToExpense(draft, user.ID))
	if err != nil {
		b.log.Error("persist expense failed", "error", err, "telegram_id", cb.TelegramID)
		return msgSaveFailed, nil
	}

	details, err := b.store.GetExpenseDetails(ctx, id)
	if err != nil {
		// The write went through; confirm with what the draft had.
		b.log.Warn("read back expense failed", "error", err, "expense_id", id)
		b.drafts.Remove(cb.TelegramID)
		return "", b.tr.Edit(cb.ChatID, cb.MessageID, msgSavedFallback, nil)
	}

	b.drafts.Remove(cb.TelegramID)
	b.log.Info("expense saved",
		"expense_id", id,
		"telegram_id", cb.TelegramID,
		"amount", details.Amount,
		"category", details.CategoryName,
		"account", details.AccountName,
	)
	return "", b.tr.Edit(cb.ChatID, cb.MessageID, confirmationText(details), nil)
}

func (b *Bot) showCategoryChooser(ctx context.Context, cb Callback) error {
	categories, err := b.store.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	keyboard := make(Keyboard, 0, len(categories)+1)
	for _, c := range categories {
		keyboard = append(keyboard, []Button{{
			Label: c.Name,
			Data:  fmt.Sprintf("%s:%d", cbCategoryChooser, c.ID),
		}})
	}
	keyboard = append(keyboard, []Button{{Label: "« Back", Data: cbBack}})

	return b.tr.Edit(cb.ChatID, cb.MessageID, msgChooseCategory, keyboard)
}

func (b *Bot) showAccountChooser(ctx context.Context, cb Callback) error {
	accounts, err := b.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	keyboard := make(Keyboard, 0, len(accounts)+1)
	for _, a := range accounts {
		keyboard = append(keyboard, []Button{{
			Label: a.Name,
			Data:  fmt.Sprintf("%s:%d", cbAccountChooser, a.ID),
		}})
	}
	keyboard = append(keyboard, []Button{{Label: "« Back", Data: cbBack}})

	return b.tr.Edit(cb.ChatID, cb.MessageID, msgChooseAccount, keyboard)
}

func senderName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Unknown"
	}
	return name
}
