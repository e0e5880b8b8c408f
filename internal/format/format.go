// Package format renders replies for the chat thread. Output uses the HTML
// subset Telegram accepts (<b>, <i>, <u>, <code>); currency values carry the
// ₹ glyph with comma grouping, never locale negotiation.
package format

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/analyzer"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/expenses"
)

const dateLayout = "02 Jan, 15:04"

// INR renders an amount with two decimals and comma grouping: ₹1,234.50.
func INR(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return "₹" + b.String() + frac
}

// inrPlain renders an amount without grouping or forced decimals: ₹500, ₹96.5.
func inrPlain(amount float64) string {
	return "₹" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// EntryConfirmation acknowledges a stored expense.
func EntryConfirmation(amount float64, category, message string) string {
	return fmt.Sprintf("%s marked under <b>%s</b> expenses. <i>%s</i>", inrPlain(amount), category, message)
}

// Summary renders the query reply: total, per-category breakdown and recent
// transactions, with overspend warnings against the threshold.
func Summary(recs []expenses.Record, scope analyzer.QueryScope, threshold float64) string {
	if len(recs) == 0 {
		return fmt.Sprintf("No expenses found for %s! 💸", scope.Description)
	}

	sorted := make([]expenses.Record, len(recs))
	copy(sorted, recs)
	expenses.SortNewestFirst(sorted)

	limited := scope.Limit != nil && *scope.Limit > 0
	if limited {
		if *scope.Limit == 1 {
			return singleCard(sorted[0])
		}
		if *scope.Limit < len(sorted) {
			sorted = sorted[:*scope.Limit]
		}
	}

	total := expenses.Total(sorted)

	byCategory := map[string]float64{}
	for _, rec := range sorted {
		byCategory[rec.Category] += rec.Amount
	}

	var lines []string
	if limited {
		lines = append(lines, fmt.Sprintf("<b>💰 Your %d Most Recent Expenses</b>", *scope.Limit))
	} else {
		lines = append(lines, fmt.Sprintf("<b>💰 Your Expenses (%s)</b>", scope.Description))
	}
	lines = append(lines, fmt.Sprintf("<b>Total:</b> <u><b>%s</b></u>", INR(total)))

	lines = append(lines, "\n<b>Category Breakdown:</b>")
	for _, cat := range categoriesByTotal(byCategory) {
		amount := byCategory[cat]
		pct := amount / total * 100
		lines = append(lines, fmt.Sprintf("• <b>%s:</b> %s (%.1f%%)", cat, INR(amount), pct))
	}

	lines = append(lines, "\n<b>Transactions:</b>")
	shown := sorted
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, rec := range shown {
		desc := rec.Description
		if desc == "" {
			desc = rec.Category
		}
		lines = append(lines, fmt.Sprintf("• %s - %s (%s)", INR(rec.Amount), desc, formatDate(rec.Timestamp)))
	}

	if remaining := len(sorted) - 5; remaining > 0 && !limited {
		lines = append(lines, fmt.Sprintf("\n<i>+ %d more transactions</i>", remaining))
	}

	if warning := thresholdWarning(total, threshold); warning != "" {
		lines = append(lines, warning)
	}

	return strings.Join(lines, "\n")
}

func singleCard(rec expenses.Record) string {
	desc := rec.Description
	if desc == "" {
		desc = rec.Category
	}
	return strings.Join([]string{
		"<b>💰 Your Most Recent Expense</b>",
		fmt.Sprintf("<b>Amount:</b> %s", INR(rec.Amount)),
		fmt.Sprintf("<b>Category:</b> %s", rec.Category),
		fmt.Sprintf("<b>Details:</b> %s", desc),
		fmt.Sprintf("<b>Date:</b> %s", formatDate(rec.Timestamp)),
	}, "\n")
}

func categoriesByTotal(byCategory map[string]float64) []string {
	cats := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if byCategory[cats[i]] != byCategory[cats[j]] {
			return byCategory[cats[i]] > byCategory[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return cats
}

func thresholdWarning(total, threshold float64) string {
	if threshold <= 0 || total < threshold*0.8 {
		return ""
	}
	if total >= threshold {
		return fmt.Sprintf("\n<b>⚠️ You have reached your threshold of %s!</b> You're now at %s. Be careful, you're getting close to overspending!",
			inrPlain(threshold), INR(total))
	}
	return fmt.Sprintf("\n<b>⚠️ You've reached 80%% of your threshold!</b> %s out of %s. Watch out, you're almost there!",
		INR(total), inrPlain(threshold))
}

func formatDate(timestamp string) string {
	ts, err := time.Parse(expenses.TimeLayout, timestamp)
	if err != nil {
		return timestamp
	}
	return ts.Format(dateLayout)
}

// DeletionPrompt asks the user to confirm a pending deletion.
func DeletionPrompt(count int, description string, total float64, code string) string {
	return fmt.Sprintf(`<b>⚠️ Expense Deletion Confirmation</b>

You've requested to delete <b>%d expenses</b> (%s) with a total value of <b>%s</b>.

<b>This action cannot be undone!</b>

To confirm deletion, please reply with:
<code>confirm %s</code>

To cancel, simply ignore this message or type "cancel".`, count, description, INR(total), code)
}

// DeletionDone reports a completed deletion.
func DeletionDone(count int, description string) string {
	return fmt.Sprintf("✅ Successfully deleted %d expenses (%s). Your expense history has been updated.", count, description)
}

// DeletionCancelled acknowledges a cancel.
func DeletionCancelled() string {
	return "Expense deletion cancelled. Your data remains intact."
}

// NothingToDelete is the reply when a deletion scope matches no expenses.
func NothingToDelete() string {
	return "You don't have any expenses to delete."
}

// PendingExists rejects a new deletion request while one is unresolved.
func PendingExists(code string) string {
	return fmt.Sprintf(`You already have a pending deletion request.

Reply <code>confirm %s</code> to proceed, or "cancel" to discard it before starting a new one.`, code)
}

// Apology is the generic reply when the store misbehaves.
func Apology() string {
	return "I encountered an error while processing your request. Please try again."
}

// Help enumerates usage examples.
func Help() string {
	return `<b>👋 Hello! I'm your Expense Tracker Assistant!</b>

I can help you track expenses and provide insights about your spending habits.

<b>Here's how you can use me:</b>

<b>1️⃣ To record expenses, try formats like:</b>
• "spent 500 on dinner"
• "paid 1200 for groceries"
• "bought shoes for 3000"
• "purchased phone for 15000"
• "2000 for rent"
• "taxi 300"
• "1.5L for laptop" (I understand ₹, k, L and Cr formats)

<b>2️⃣ To review your expenses, ask me:</b>
• "show my expenses"
• "what did I spend today"
• "show my last expense"
• "show my expenses from last week"
• "what are my total expenses this month"

<b>3️⃣ To clean up your expenses:</b>
• "delete all my expenses"
• "erase my expenses from last month"
• "clear my expense history"

Just tell me what you bought and how much it cost, or ask about your spending history!`
}
