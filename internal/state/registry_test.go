package state

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userID int64 = 123456

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry()

	draft := r.Create(userID, decimal.NewFromFloat(25.50))

	assert.True(t, r.Exists(userID))
	assert.True(t, draft.Amount.Equal(decimal.NewFromFloat(25.50)))
	assert.Nil(t, draft.CategoryID, "new draft must have no category")
	assert.Nil(t, draft.AccountID, "new draft must have no account")
	assert.False(t, draft.CreatedAt.IsZero())
}

func TestRegistryCreateReplacesExistingDraft(t *testing.T) {
	r := NewRegistry()

	r.Create(userID, decimal.NewFromInt(10))
	categoryID := int64(1)
	r.Update(userID, DraftUpdate{CategoryID: &categoryID})

	draft := r.Create(userID, decimal.NewFromInt(20))

	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(20)), "replacement, not merge")
	assert.Nil(t, draft.CategoryID, "old draft fields must not survive")

	got, ok := r.Get(userID)
	require.True(t, ok)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(20)))
}

func TestRegistryGetIsIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Create(userID, decimal.NewFromFloat(12.75))

	first, ok := r.Get(userID)
	require.True(t, ok)
	second, ok := r.Get(userID)
	require.True(t, ok)

	assert.Equal(t, first, second)
}

func TestRegistryGetAbsent(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get(userID)
	assert.False(t, ok)
	assert.False(t, r.Exists(userID))
}

func TestRegistryUpdate(t *testing.T) {
	r := NewRegistry()
	r.Create(userID, decimal.NewFromInt(30))

	categoryID := int64(3)
	accountID := int64(7)
	notes := "lunch"
	messageID := 42

	draft, ok := r.Update(userID, DraftUpdate{CategoryID: &categoryID})
	require.True(t, ok)
	assert.False(t, draft.IsComplete())

	draft, ok = r.Update(userID, DraftUpdate{
		AccountID: &accountID,
		Notes:     &notes,
		MessageID: &messageID,
	})
	require.True(t, ok)
	assert.True(t, draft.IsComplete())
	require.NotNil(t, draft.Notes)
	assert.Equal(t, "lunch", *draft.Notes)
	assert.Equal(t, 42, draft.MessageID)

	// Fields not named in the update are untouched.
	assert.Equal(t, int64(3), *draft.CategoryID)
	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(30)))
}

func TestRegistryUpdateAbsentDraft(t *testing.T) {
	r := NewRegistry()

	categoryID := int64(1)
	_, ok := r.Update(userID, DraftUpdate{CategoryID: &categoryID})

	assert.False(t, ok)
	assert.False(t, r.Exists(userID), "update must not create a draft")
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Create(userID, decimal.NewFromInt(5))

	assert.True(t, r.Remove(userID))
	assert.False(t, r.Exists(userID))
	assert.False(t, r.Remove(userID), "second remove reports nothing to do")
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Create(userID, decimal.NewFromInt(5))
	r.Create(userID+1, decimal.NewFromInt(6))

	snap := r.Snapshot()
	require.Len(t, snap, 2)

	delete(snap, userID)
	entry := snap[userID+1]
	entry.Amount = decimal.NewFromInt(999)
	snap[userID+1] = entry

	assert.True(t, r.Exists(userID), "deleting from the snapshot must not affect the registry")
	got, ok := r.Get(userID + 1)
	require.True(t, ok)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(6)))
}

func TestRegistryInstancesAreIndependent(t *testing.T) {
	a := NewRegistry()
	b := NewRegistry()

	a.Create(userID, decimal.NewFromInt(1))

	assert.True(t, a.Exists(userID))
	assert.False(t, b.Exists(userID))
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			id := n % 10
			r.Create(id, decimal.NewFromInt(n))
			categoryID := n
			r.Update(id, DraftUpdate{CategoryID: &categoryID})
			r.Get(id)
			r.Snapshot()
		}(int64(i))
	}
	wg.Wait()

	assert.Len(t, r.Snapshot(), 10)
}
