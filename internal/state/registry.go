// Package state manages draft expenses in memory before they are saved.
//
// The registry keeps at most one draft per Telegram user. Drafts have no
// expiry: an abandoned draft stays until it is saved, cancelled, replaced
// by a new one, or the process exits.
package state

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlekseiCherkes/spending-tracker/internal/core"
)

// DraftUpdate is a partial update applied to an existing draft. Nil
// fields are left unchanged. The field set is closed: there is no way to
// address anything outside it.
type DraftUpdate struct {
	Amount     *decimal.Decimal
	CategoryID *int64
	AccountID  *int64
	Notes      *string
	MessageID  *int
}

// Registry owns all draft expenses, keyed by Telegram user ID. All
// methods are safe for concurrent use; callers only ever see copies.
type Registry struct {
	mu     sync.Mutex
	drafts map[int64]*core.DraftExpense
}

func NewRegistry() *Registry {
	return &Registry{drafts: make(map[int64]*core.DraftExpense)}
}

// Create starts a new draft for the user, silently replacing any
// existing one. The previous draft, if any, is discarded without merge.
func (r *Registry) Create(telegramID int64, amount decimal.Decimal) core.DraftExpense {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft := &core.DraftExpense{
		Amount:     amount,
		TelegramID: telegramID,
		CreatedAt:  time.Now(),
	}
	r.drafts[telegramID] = draft
	return clone(draft)
}

// Get returns a copy of the user's draft, if one exists.
func (r *Registry) Get(telegramID int64) (core.DraftExpense, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft, ok := r.drafts[telegramID]
	if !ok {
		return core.DraftExpense{}, false
	}
	return clone(draft), true
}

// Update applies a partial update to the user's draft and returns the
// result. If the user has no draft nothing happens and ok is false.
func (r *Registry) Update(telegramID int64, upd DraftUpdate) (core.DraftExpense, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft, ok := r.drafts[telegramID]
	if !ok {
		return core.DraftExpense{}, false
	}
	if upd.Amount != nil {
		draft.Amount = *upd.Amount
	}
	if upd.CategoryID != nil {
		id := *upd.CategoryID
		draft.CategoryID = &id
	}
	if upd.AccountID != nil {
		id := *upd.AccountID
		draft.AccountID = &id
	}
	if upd.Notes != nil {
		notes := *upd.Notes
		draft.Notes = &notes
	}
	if upd.MessageID != nil {
		draft.MessageID = *upd.MessageID
	}
	return clone(draft), true
}

// Remove deletes the user's draft and reports whether one was present.
// Removing a missing draft is not an error.
func (r *Registry) Remove(telegramID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.drafts[telegramID]
	delete(r.drafts, telegramID)
	return ok
}

// Exists reports whether the user currently has a draft.
func (r *Registry) Exists(telegramID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.drafts[telegramID]
	return ok
}

// Snapshot returns a copy of all drafts for diagnostics. Mutating the
// result has no effect on the registry.
func (r *Registry) Snapshot() map[int64]core.DraftExpense {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[int64]core.DraftExpense, len(r.drafts))
	for id, draft := range r.drafts {
		out[id] = clone(draft)
	}
	return out
}

// clone copies a draft so callers never alias registry-owned pointers.
func clone(d *core.DraftExpense) core.DraftExpense {
	out := *d
	if d.CategoryID != nil {
		id := *d.CategoryID
		out.CategoryID = &id
	}
	if d.AccountID != nil {
		id := *d.AccountID
		out.AccountID = &id
	}
	if d.Notes != nil {
		notes := *d.Notes
		out.Notes = &notes
	}
	return out
}
