// Package extract holds the deterministic fallback parsers: amount detection
// with Indian numeric units and keyword/emoji based categorisation. Everything
// here is a pure function of the message text.
package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// amountRe matches the first numeric token with an optional unit suffix.
// Units follow Indian conventions: k/thousand, l/lakh, cr/crore.
var amountRe = regexp.MustCompile(`(?i)(\d+(\.\d+)?)\s*(k|thousand|l|lakh|lakhs|cr|crore|crores)?`)

// Amount extracts a spend amount from free text. Currency glyphs and commas
// are stripped before matching, and a trailing unit token scales the value.
// Returns false when the text contains no digits at all.
func Amount(text string) (float64, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(text))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "₹", "")

	m := amountRe.FindStringSubmatch(cleaned)
	if m == nil {
		return 0, false
	}

	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	switch strings.ToLower(m[3]) {
	case "k", "thousand":
		amount *= 1_000
	case "l", "lakh", "lakhs":
		amount *= 100_000
	case "cr", "crore", "crores":
		amount *= 10_000_000
	}

	return amount, true
}

// CategoryMiscellaneous is the catch-all category.
const CategoryMiscellaneous = "Miscellaneous"

var (
	electronicsEmojis = []string{"💻", "📱", "⌚", "🖥️", "🖨️", "📷", "🎮"}
	foodEmojis        = []string{"🍕", "🍔", "🍟", "🍗", "🍖", "🥗", "🍣", "🍩", "🍦", "🍨", "🧁", "🍰", "🍪"}
	transportEmojis   = []string{"🚗", "🚕", "🚌", "🚆", "✈️", "🛵", "🚲", "🚅", "🚄"}
)

// categoryKeywords is checked in declared order; the first category with a
// matching keyword wins.
var categoryKeywords = []struct {
	name     string
	keywords []string
}{
	{"Food", []string{"food", "meal", "lunch", "dinner", "breakfast", "restaurant", "eat", "coffee", "tea", "cafe"}},
	{"Groceries", []string{"grocery", "groceries", "supermarket", "fruit", "vegetable"}},
	{"Transport", []string{"uber", "ola", "taxi", "auto", "transport", "travel", "bus", "train", "metro"}},
	{"Vehicle", []string{"car", "bike", "cycle", "repair", "service", "motor", "fuel", "petrol", "diesel"}},
	{"Bills", []string{"bill", "recharge", "subscription", "electricity", "water", "internet", "phone bill"}},
	{"Health", []string{"medicine", "doctor", "hospital", "medical", "health", "clinic", "dentist"}},
	{"Fashion", []string{"clothes", "dress", "shirt", "pant", "shoe", "footwear", "apparel", "fashion"}},
	{"Electronics", []string{"phone", "mobile", "laptop", "computer", "gadget", "electronics", "device"}},
	{"Entertainment", []string{"movie", "game", "show", "concert", "entertainment", "theatre", "amusement"}},
	{"Education", []string{"book", "course", "class", "tuition", "school", "college", "education"}},
}

// Category maps free text to one of the fixed expense categories. Emoji
// membership is checked before keywords; unmatched text falls back to
// Miscellaneous, so the result is never empty.
func Category(text string) string {
	for _, e := range electronicsEmojis {
		if strings.Contains(text, e) {
			return "Electronics"
		}
	}
	for _, e := range foodEmojis {
		if strings.Contains(text, e) {
			return "Food"
		}
	}
	for _, e := range transportEmojis {
		if strings.Contains(text, e) {
			return "Transport"
		}
	}

	lower := strings.ToLower(text)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.name
			}
		}
	}

	return CategoryMiscellaneous
}
