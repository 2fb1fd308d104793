package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlekseiCherkes/spending-tracker/internal/core"
)

const (
	msgSessionExpired = "This expense session has expired. Send a new amount to start over."
	msgFieldsMissing  = "Choose a category and an account before saving."
	msgSaveFailed     = "Could not save the expense. Please try again."
	msgSavedFallback  = "✅ Expense saved."
	msgCancelled      = "❌ Expense cancelled."
	msgChooseCategory = "Choose a category:"
	msgChooseAccount  = "Choose an account:"
	msgUnknownAction  = "Unknown action."

	unsetField = "—"
)

// summaryView builds the editable summary for a draft: current field
// values plus the negotiation keyboard. Reference names are read from
// the store on every render so the view reflects current contents.
func (b *Bot) summaryView(ctx context.Context, draft core.DraftExpense) (string, Keyboard) {
	categoryName := unsetField
	if draft.CategoryID != nil {
		if c, err := b.store.GetCategory(ctx, *draft.CategoryID); err == nil {
			categoryName = c.Name
		}
	}

	accountName := unsetField
	amountLine := draft.Amount.String()
	if draft.AccountID != nil {
		if a, err := b.store.GetAccountWithCurrency(ctx, *draft.AccountID); err == nil {
			accountName = a.Name
			amountLine = fmt.Sprintf("%s %s", draft.Amount, a.CurrencyCode)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💰 New expense: %s\n\n", amountLine)
	fmt.Fprintf(&sb, "📂 Category: %s\n", categoryName)
	fmt.Fprintf(&sb, "💳 Account: %s\n", accountName)
	if draft.Notes != nil {
		fmt.Fprintf(&sb, "📝 Notes: %s\n", *draft.Notes)
	}

	keyboard := Keyboard{
		{
			{Label: "📂 Category", Data: cbCategoryChooser},
			{Label: "💳 Account", Data: cbAccountChooser},
		},
		{
			{Label: "✅ Save", Data: cbSave},
			{Label: "❌ Cancel", Data: cbCancel},
		},
	}
	return sb.String(), keyboard
}

// renderSummary edits the negotiation message in place with the current
// summary view.
func (b *Bot) renderSummary(ctx context.Context, cb Callback, draft core.DraftExpense) error {
	text, keyboard := b.summaryView(ctx, draft)
	if err := b.tr.Edit(cb.ChatID, cb.MessageID, text, keyboard); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	return nil
}

func confirmationText(d core.ExpenseDetails) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Saved %s %s\n\n", d.Amount, d.CurrencyCode)
	fmt.Fprintf(&sb, "📂 Category: %s\n", d.CategoryName)
	fmt.Fprintf(&sb, "💳 Account: %s\n", d.AccountName)
	fmt.Fprintf(&sb, "👤 Reported by: %s\n", d.ReporterName)
	fmt.Fprintf(&sb, "🕒 %s", d.CreatedAt.Format("2006-01-02 15:04"))
	return sb.String()
}

func draftToExpense(draft core.DraftExpense, reporterID int64) core.Expense {
	return core.Expense{
		AccountID:  *draft.AccountID,
		Amount:     draft.Amount,
		CategoryID: *draft.CategoryID,
		ReporterID: reporterID,
		Notes:      draft.Notes,
		CreatedAt:  draft.CreatedAt,
	}
}
