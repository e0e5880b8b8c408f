package deletion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rishikeshs/go-telegram-expense-bot/internal/analyzer"
	"github.com/rishikeshs/go-telegram-expense-bot/internal/expenses"
)

// ExpenseGateway is the slice of the expense store the manager needs.
// *expenses.Store satisfies it.
type ExpenseGateway interface {
	ListAll(ctx context.Context, username string) ([]expenses.Record, error)
	ListSinceForDeletion(ctx context.Context, username string, start time.Time) ([]expenses.Record, error)
	DeleteByID(ctx context.Context, id string) error
}

var (
	// ErrPendingExists rejects a new request while one is unresolved.
	ErrPendingExists = errors.New("deletion confirmation already pending")
	// ErrNothingToDelete means the scope matched no expenses.
	ErrNothingToDelete = errors.New("no expenses to delete")
	// ErrNoSession means there is nothing to confirm or cancel.
	ErrNoSession = errors.New("no pending deletion session")
	// ErrCodeMismatch means the supplied confirmation code is wrong.
	ErrCodeMismatch = errors.New("confirmation code mismatch")
)

// Manager drives the session state machine: NONE -> PENDING -> NONE via
// confirm, cancel or expiry.
type Manager struct {
	sessions *SessionStore
	gateway  ExpenseGateway
	ttl      time.Duration
	nowFunc  func() time.Time
	codeFunc func() string
}

// NewManager returns a Manager with a 5-minute default confirmation window
// when ttl is zero.
func NewManager(sessions *SessionStore, gateway ExpenseGateway, ttl time.Duration) *Manager {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Manager{
		sessions: sessions,
		gateway:  gateway,
		ttl:      ttl,
		nowFunc:  time.Now,
		codeFunc: newCode,
	}
}

// newCode is a short random confirmation token.
func newCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Live returns the user's pending session, lazily expiring stale ones.
func (m *Manager) Live(ctx context.Context, username string) (*Session, error) {
	return m.sessions.Get(ctx, username)
}

// Request opens a PENDING session for the scoped candidate set. The
// candidate ids are snapshotted now; confirmation acts on the snapshot only.
// A live session rejects the new request rather than silently replacing it.
func (m *Manager) Request(ctx context.Context, username string, chatID int64, scope analyzer.DeletionScope) (*Session, error) {
	existing, err := m.sessions.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrPendingExists
	}

	candidates, err := m.candidates(ctx, username, scope)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNothingToDelete
	}

	ids := make([]string, 0, len(candidates))
	for _, rec := range candidates {
		ids = append(ids, rec.ID)
	}

	sess := Session{
		ID:           SessionID(username),
		Username:     username,
		Type:         RecordType,
		Code:         m.codeFunc(),
		ExpenseIDs:   ids,
		Description:  scope.Description,
		ExpenseCount: len(ids),
		TotalAmount:  expenses.Total(candidates),
		ChatID:       chatID,
		ExpiresAt:    m.nowFunc().Add(m.ttl).Unix(),
	}
	if err := m.sessions.Put(ctx, sess); err != nil {
		return nil, err
	}

	log.Printf("[deletion] pending session for %s: %d expenses (%s)", username, sess.ExpenseCount, sess.Description)
	return &sess, nil
}

// candidates resolves the scope into the records it targets. A count takes
// the N most recent ("last") or oldest ("first") expenses; a day window takes
// everything since then; neither means every expense the user has.
func (m *Manager) candidates(ctx context.Context, username string, scope analyzer.DeletionScope) ([]expenses.Record, error) {
	switch {
	case scope.Count != nil:
		all, err := m.gateway.ListAll(ctx, username)
		if err != nil {
			return nil, err
		}
		if scope.Position == "first" {
			expenses.SortOldestFirst(all)
		} else {
			expenses.SortNewestFirst(all)
		}
		if n := *scope.Count; n < len(all) {
			all = all[:n]
		}
		return all, nil
	case scope.Days != nil:
		start := m.nowFunc().UTC().AddDate(0, 0, -*scope.Days)
		return m.gateway.ListSinceForDeletion(ctx, username, start)
	default:
		return m.gateway.ListAll(ctx, username)
	}
}

// Confirm executes the pending deletion if the code matches and the session
// has not expired. Returns the resolved session and the count actually
// deleted.
func (m *Manager) Confirm(ctx context.Context, username, code string) (*Session, int, error) {
	sess, err := m.sessions.Get(ctx, username)
	if err != nil {
		return nil, 0, err
	}
	if sess == nil {
		return nil, 0, ErrNoSession
	}
	if code != sess.Code {
		return nil, 0, ErrCodeMismatch
	}

	deleted := 0
	for _, id := range sess.ExpenseIDs {
		if err := m.gateway.DeleteByID(ctx, id); err != nil {
			return nil, deleted, fmt.Errorf("delete %s: %w", id, err)
		}
		deleted++
	}

	if err := m.sessions.Delete(ctx, username); err != nil {
		return nil, deleted, err
	}

	log.Printf("[deletion] deleted %d expenses for %s (%s)", deleted, username, sess.Description)
	return sess, deleted, nil
}

// Cancel discards the pending session, leaving all data intact.
func (m *Manager) Cancel(ctx context.Context, username string) error {
	sess, err := m.sessions.Get(ctx, username)
	if err != nil {
		return err
	}
	if sess == nil {
		return ErrNoSession
	}
	return m.sessions.Delete(ctx, username)
}
