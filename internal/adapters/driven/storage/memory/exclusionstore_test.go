package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pensieve-labs/pensieve-cli/internal/core/domain"
)

func TestNewExclusionStore(t *testing.T) {
	store := NewExclusionStore()
	require.NotNil(t, store)
}

func TestExclusionStore_AddAndCheck(t *testing.T) {
	store := NewExclusionStore()
	ctx := context.Background()

	err := store.Add(ctx, domain.Exclusion{
		Source:   domain.SourceLimitless,
		NativeID: "abc123",
		Reason:   "private conversation",
	})
	require.NoError(t, err)

	excluded, err := store.IsExcluded(ctx, domain.SourceLimitless, "abc123")
	require.NoError(t, err)
	assert.True(t, excluded)

	// Other records from the same source are not affected.
	excluded, err = store.IsExcluded(ctx, domain.SourceLimitless, "abc124")
	require.NoError(t, err)
	assert.False(t, excluded)

	// The same native ID under another source is a different record.
	excluded, err = store.IsExcluded(ctx, domain.SourceBee, "abc123")
	require.NoError(t, err)
	assert.False(t, excluded)
}

func TestExclusionStore_Add_Invalid(t *testing.T) {
	store := NewExclusionStore()
	ctx := context.Background()

	err := store.Add(ctx, domain.Exclusion{Source: "", NativeID: "abc123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = store.Add(ctx, domain.Exclusion{Source: domain.SourceBee, NativeID: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExclusionStore_Add_UpdatesReason(t *testing.T) {
	store := NewExclusionStore()
	ctx := context.Background()

	created := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Add(ctx, domain.Exclusion{
		Source:    domain.SourceBee,
		NativeID:  "42",
		Reason:    "first",
		CreatedAt: created,
	}))
	require.NoError(t, store.Add(ctx, domain.Exclusion{
		Source:   domain.SourceBee,
		NativeID: "42",
		Reason:   "second",
	}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "second", list[0].Reason)
	assert.Equal(t, created, list[0].CreatedAt)
}

func TestExclusionStore_Add_DefaultsCreatedAt(t *testing.T) {
	store := NewExclusionStore()
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, domain.Exclusion{
		Source:   domain.SourceLimitless,
		NativeID: "abc123",
	}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.WithinDuration(t, time.Now(), list[0].CreatedAt, time.Minute)
}

func TestExclusionStore_Remove(t *testing.T) {
	store := NewExclusionStore()
	ctx := context.Background()

	_ = store.Add(ctx, domain.Exclusion{Source: domain.SourceLimitless, NativeID: "abc123"})

	err := store.Remove(ctx, domain.SourceLimitless, "abc123")
	require.NoError(t, err)

	excluded, err := store.IsExcluded(ctx, domain.SourceLimitless, "abc123")
	require.NoError(t, err)
	assert.False(t, excluded)

	// Removing an absent pair is not an error.
	err = store.Remove(ctx, domain.SourceLimitless, "abc123")
	assert.NoError(t, err)
}

func TestExclusionStore_List_NewestFirst(t *testing.T) {
	store := NewExclusionStore()
	ctx := context.Background()

	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	_ = store.Add(ctx, domain.Exclusion{Source: domain.SourceLimitless, NativeID: "old", CreatedAt: base})
	_ = store.Add(ctx, domain.Exclusion{Source: domain.SourceBee, NativeID: "new", CreatedAt: base.Add(time.Hour)})

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].NativeID)
	assert.Equal(t, "old", list[1].NativeID)
}

func TestExclusionStore_List_Empty(t *testing.T) {
	store := NewExclusionStore()
	ctx := context.Background()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExclusionStore_IsExcluded_EmptyStore(t *testing.T) {
	store := NewExclusionStore()
	ctx := context.Background()

	excluded, err := store.IsExcluded(ctx, domain.SourceLimitless, "anything")
	require.NoError(t, err)
	assert.False(t, excluded)
}
