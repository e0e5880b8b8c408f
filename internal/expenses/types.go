package expenses

import (
	"fmt"
	"sort"
	"time"
)

// RecordType discriminates expense items from other records sharing the table.
const RecordType = "EXPENSE"

// TimeLayout is the fixed-width UTC timestamp format used for record
// timestamps. RFC3339Nano trims trailing zeros, which breaks lexicographic
// ordering; this layout does not.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// Record is an expense item as stored in DynamoDB. The table's partition key
// attribute is message_id for every record kind; expense ids embed the owner
// and creation time so they sort by age lexicographically.
type Record struct {
	ID          string  `dynamodbav:"message_id"` // EXP#<user>#<iso timestamp>
	Username    string  `dynamodbav:"username"`
	Type        string  `dynamodbav:"type"`
	Timestamp   string  `dynamodbav:"timestamp"` // ISO-8601 UTC; the sole ordering key
	Amount      float64 `dynamodbav:"amount"`
	Category    string  `dynamodbav:"category"`
	Description string  `dynamodbav:"description"`
}

// NewID builds the expense primary key for a user and creation time.
func NewID(username string, ts time.Time) string {
	return fmt.Sprintf("EXP#%s#%s", username, ts.UTC().Format(TimeLayout))
}

// SortNewestFirst orders records by timestamp descending, in place.
func SortNewestFirst(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Timestamp > recs[j].Timestamp })
}

// SortOldestFirst orders records by timestamp ascending, in place.
func SortOldestFirst(recs []Record) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Timestamp < recs[j].Timestamp })
}

// Total sums record amounts.
func Total(recs []Record) float64 {
	var total float64
	for _, r := range recs {
		total += r.Amount
	}
	return total
}
