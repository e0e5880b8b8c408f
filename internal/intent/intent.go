// Package intent decides what an inbound message is asking for. The phrase
// sets overlap ("delete my expenses" contains "my expenses"), so the decision
// order in Route is load-bearing: confirmation, deletion, query, entry, help.
package intent

import (
	"regexp"
	"strings"
)

// Decision is the routing outcome for one message. Exactly one lane applies.
type Decision int

const (
	DecisionHelp Decision = iota
	DecisionCancel
	DecisionConfirm
	DecisionDeletionRequest
	DecisionQuery
	DecisionEntry
)

// String returns the metric-friendly lane label.
func (d Decision) String() string {
	switch d {
	case DecisionCancel:
		return "cancel"
	case DecisionConfirm:
		return "confirm"
	case DecisionDeletionRequest:
		return "deletion_request"
	case DecisionQuery:
		return "query"
	case DecisionEntry:
		return "entry"
	default:
		return "help"
	}
}

var (
	// entryBlockRe keeps obvious query phrasings out of the entry lane even
	// when the query heuristics missed them.
	entryBlockRe = regexp.MustCompile(`(show|display|list|my expenses|total)`)

	confirmRe = regexp.MustCompile(`^confirm\s+(\w+)`)
)

// showVariants tolerates the common typos of "show".
var showVariants = []string{"show", "shwo", "shoq", "sho", "sbow"}

var directQueries = []string{
	"my expenses",
	"what did i spend",
	"how much did i spend",
	"total expenses",
	"expense report",
	"spending summary",
}

var queryKeywords = []string{
	"show", "shwo", "list", "display", "tell me", "what", "how much",
	"total", "summary", "report", "analysis", "breakdown",
}

var expenseTerms = []string{"expense", "spent", "spend", "cost", "payment"}

var deletionVerbs = []string{"delete", "remove", "erase", "clear", "clean", "wipe", "purge"}

var deletionTargets = []string{"expense", "expenses", "history", "data", "records", "transactions"}

// Router routes messages. HistoryEnabled gates the query and deletion lanes;
// entry and help are always reachable.
type Router struct {
	HistoryEnabled bool
}

// Route classifies text. pendingCode is the live deletion session's
// confirmation code, or empty when no session exists. While a session is
// live, only an exact "cancel" or a "confirm <code>" with the matching code
// resolves it; anything else falls through to ordinary routing and the
// session stays pending.
func (r Router) Route(text, pendingCode string) Decision {
	lower := strings.ToLower(strings.TrimSpace(text))

	if pendingCode != "" {
		if lower == "cancel" {
			return DecisionCancel
		}
		if code, ok := ParseConfirmationCode(lower); ok && code == pendingCode {
			return DecisionConfirm
		}
	}

	if r.HistoryEnabled && IsDeletionRequest(lower) {
		return DecisionDeletionRequest
	}
	if r.HistoryEnabled && IsExpenseQuery(lower) {
		return DecisionQuery
	}
	if !entryBlockRe.MatchString(lower) {
		return DecisionEntry
	}
	return DecisionHelp
}

// ParseConfirmationCode pulls the code out of a "confirm <code>" message.
func ParseConfirmationCode(text string) (string, bool) {
	m := confirmRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(text)))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsDeletionRequest reports whether text combines a deletion verb with a
// history/expense target.
func IsDeletionRequest(text string) bool {
	lower := strings.ToLower(text)
	return containsAny(lower, deletionVerbs) && containsAny(lower, deletionTargets)
}

// IsExpenseQuery reports whether text asks about past expenses, tolerating
// common typos of "show".
func IsExpenseQuery(text string) bool {
	lower := strings.ToLower(text)

	for _, show := range showVariants {
		for _, tail := range []string{" my expenses", " expenses", " my transactions"} {
			if strings.Contains(lower, show+tail) {
				return true
			}
		}
	}

	if containsAny(lower, directQueries) {
		return true
	}

	return containsAny(lower, queryKeywords) && containsAny(lower, expenseTerms)
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
