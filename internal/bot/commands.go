package bot

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const version = "1.0.0"

func (b *Bot) handleCommand(ctx context.Context, m Message) error {
	switch m.Command {
	case "start":
		return b.cmdStart(m)
	case "help":
		return b.cmdHelp(m)
	case "status":
		return b.cmdStatus(ctx, m)
	case "users":
		return b.cmdUsers(ctx, m)
	case "stats":
		return b.cmdStats(ctx, m)
	default:
		_, err := b.tr.Send(m.ChatID, "❓ Sorry, I didn't understand that command.\nUse /help to see available commands.", nil)
		return err
	}
}

func (b *Bot) cmdStart(m Message) error {
	text := fmt.Sprintf(
		"Hello %s! 👋\n\n"+
			"I'm your personal spending tracker bot. 💰\n\n"+
			"Just send me an amount (like \"15\" or \"coffee 4,50\") and I'll walk you "+
			"through picking a category and an account.\n\n"+
			"Use /help to see all available commands.",
		senderName(m.SenderName),
	)
	_, err := b.tr.Send(m.ChatID, text, nil)
	return err
}

func (b *Bot) cmdHelp(m Message) error {
	text := "🤖 Spending Tracker commands:\n\n" +
		"/start — welcome message\n" +
		"/help — this help\n" +
		"/status — bot status\n" +
		"/users — registered users\n" +
		"/stats — this month's spending\n\n" +
		"To record an expense, just send a message containing the amount."
	_, err := b.tr.Send(m.ChatID, text, nil)
	return err
}

func (b *Bot) cmdStatus(ctx context.Context, m Message) error {
	userCount, err := b.store.UserCount(ctx)
	if err != nil {
		return fmt.Errorf("user count: %w", err)
	}
	expenseCount, err := b.store.ExpenseCount(ctx)
	if err != nil {
		return fmt.Errorf("expense count: %w", err)
	}
	categoryCount, err := b.store.CategoryCount(ctx)
	if err != nil {
		return fmt.Errorf("category count: %w", err)
	}
	accountCount, err := b.store.AccountCount(ctx)
	if err != nil {
		return fmt.Errorf("account count: %w", err)
	}

	text := fmt.Sprintf(
		"✅ Bot is running!\n"+
			"📱 Version: %s\n"+
			"👥 Registered users: %d\n"+
			"🧾 Recorded expenses: %d\n"+
			"📂 Categories: %d\n"+
			"💳 Accounts: %d",
		version, userCount, expenseCount, categoryCount, accountCount,
	)
	_, err = b.tr.Send(m.ChatID, text, nil)
	return err
}

func (b *Bot) cmdUsers(ctx context.Context, m Message) error {
	users, err := b.store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if len(users) == 0 {
		_, err := b.tr.Send(m.ChatID, "👥 No users registered yet.\nUsers appear here once they record an expense.", nil)
		return err
	}

	var sb strings.Builder
	sb.WriteString("👥 Registered users:\n\n")
	for i, u := range users {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, u.Name)
	}
	fmt.Fprintf(&sb, "\n📊 Total: %d", len(users))
	_, err = b.tr.Send(m.ChatID, sb.String(), nil)
	return err
}

// cmdStats reports the current calendar month: overall total plus a
// per-category breakdown, largest first.
func (b *Bot) cmdStats(ctx context.Context, m Message) error {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	total, err := b.store.TotalByDateRange(ctx, from, now)
	if err != nil {
		return fmt.Errorf("month total: %w", err)
	}
	byCategory, err := b.store.CategoryTotals(ctx, from, now)
	if err != nil {
		return fmt.Errorf("category totals: %w", err)
	}
	byAccount, err := b.store.AccountTotals(ctx, from, now)
	if err != nil {
		return fmt.Errorf("account totals: %w", err)
	}
	byReporter, err := b.store.ReporterTotals(ctx, from, now)
	if err != nil {
		return fmt.Errorf("reporter totals: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📈 Spending in %s: %s\n", now.Format("January 2006"), total)
	if len(byCategory) > 0 {
		sb.WriteString("\n📂 By category:\n")
		for _, t := range byCategory {
			fmt.Fprintf(&sb, "• %s: %s\n", t.CategoryName, t.Total)
		}
	}
	if len(byAccount) > 0 {
		sb.WriteString("\n💳 By account:\n")
		for _, t := range byAccount {
			fmt.Fprintf(&sb, "• %s: %s\n", t.AccountName, t.Total)
		}
	}
	if len(byReporter) > 0 {
		sb.WriteString("\n👤 By reporter:\n")
		for _, t := range byReporter {
			fmt.Fprintf(&sb, "• %s: %s\n", t.ReporterName, t.Total)
		}
	}
	_, err = b.tr.Send(m.ChatID, strings.TrimRight(sb.String(), "\n"), nil)
	return err
}
