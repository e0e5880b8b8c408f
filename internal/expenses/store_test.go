package expenses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

func newTestStore(now time.Time) (*Store, *mockDynamoDB) {
	mock := newMockDynamoDB()
	store := NewStore(mock, "test-table")
	store.nowFunc = func() time.Time { return now }
	return store, mock
}

func TestPutStoresRecord(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(now)

	rec, err := store.Put(context.Background(), "rishi", 500, "Food", "spent 500 on dinner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatal("expected a stored record")
	}
	if rec.ID != NewID("rishi", now) {
		t.Errorf("unexpected id %s", rec.ID)
	}
	if rec.Type != RecordType {
		t.Errorf("expected type %s, got %s", RecordType, rec.Type)
	}
	if rec.Timestamp != now.Format(TimeLayout) {
		t.Errorf("unexpected timestamp %s", rec.Timestamp)
	}
	if _, ok := mock.items[rec.ID]; !ok {
		t.Errorf("record not written to table")
	}
}

func TestPutSkipsNonPositiveAmounts(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(now)

	for _, amount := range []float64{0, -100} {
		rec, err := store.Put(context.Background(), "rishi", amount, "Food", "weird")
		if err != nil {
			t.Fatalf("amount %v: unexpected error: %v", amount, err)
		}
		if rec != nil {
			t.Errorf("amount %v: expected nil record", amount)
		}
	}
	if len(mock.items) != 0 {
		t.Errorf("non-positive amounts must not be stored")
	}
}

func TestPutPropagatesStoreError(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(now)
	mock.putErr = errors.New("throughput exceeded")

	if _, err := store.Put(context.Background(), "rishi", 500, "Food", "dinner"); err == nil {
		t.Fatal("expected error")
	}
}

func TestListSinceFiltersWindowAndAmount(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(now)
	ctx := context.Background()

	times := []time.Time{
		now.Add(-40 * 24 * time.Hour),
		now.Add(-2 * 24 * time.Hour),
		now.Add(-1 * 24 * time.Hour),
	}
	for i, ts := range times {
		store.nowFunc = func() time.Time { return ts }
		if _, err := store.Put(ctx, "rishi", float64(100*(i+1)), "Food", "meal"); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}
	// Another user's record never leaks into rishi's listings.
	store.nowFunc = func() time.Time { return now.Add(-time.Hour) }
	if _, err := store.Put(ctx, "someone", 999, "Food", "meal"); err != nil {
		t.Fatalf("put other user: %v", err)
	}

	// A zero-amount artifact written outside Put. Query listings hide it;
	// deletion listings see it.
	zero := Record{
		ID:        NewID("rishi", now.Add(-30*time.Minute)),
		Username:  "rishi",
		Type:      RecordType,
		Timestamp: now.Add(-30 * time.Minute).Format(TimeLayout),
		Amount:    0,
		Category:  "Miscellaneous",
	}
	item, err := attributevalue.MarshalMap(zero)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	mock.items[zero.ID] = item

	recs, err := store.ListSince(ctx, "rishi", now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records in window, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec.Username != "rishi" {
			t.Errorf("leaked record for %s", rec.Username)
		}
	}

	forDeletion, err := store.ListSinceForDeletion(ctx, "rishi", now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forDeletion) != 3 {
		t.Errorf("expected deletion listing to include the zero-amount artifact, got %d records", len(forDeletion))
	}

	all, err := store.ListAll(ctx, "rishi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 records in total, got %d", len(all))
	}
}

func TestDeleteByIDIsIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store, mock := newTestStore(now)
	ctx := context.Background()

	rec, err := store.Put(ctx, "rishi", 500, "Food", "dinner")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.DeleteByID(ctx, rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(mock.items) != 0 {
		t.Errorf("record should be gone")
	}
	// Deleting an id that no longer exists is fine.
	if err := store.DeleteByID(ctx, rec.ID); err != nil {
		t.Errorf("second delete should not fail: %v", err)
	}
}

func TestSortAndTotal(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	a := Record{ID: "a", Timestamp: now.Add(-2 * time.Hour).Format(TimeLayout), Amount: 100}
	b := Record{ID: "b", Timestamp: now.Add(-1 * time.Hour).Format(TimeLayout), Amount: 200}
	c := Record{ID: "c", Timestamp: now.Format(TimeLayout), Amount: 300}

	recs := []Record{b, c, a}
	SortNewestFirst(recs)
	if recs[0].ID != "c" || recs[2].ID != "a" {
		t.Errorf("newest-first order wrong: %v", []string{recs[0].ID, recs[1].ID, recs[2].ID})
	}
	SortOldestFirst(recs)
	if recs[0].ID != "a" || recs[2].ID != "c" {
		t.Errorf("oldest-first order wrong: %v", []string{recs[0].ID, recs[1].ID, recs[2].ID})
	}
	if got := Total(recs); got != 600 {
		t.Errorf("expected total 600, got %v", got)
	}
}
