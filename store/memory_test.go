package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryContentCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec := ContentRecord{
		ID: "c1", UserID: "u1", Platform: "Instagram", Idea: "spring lookbook",
		Status: StatusGenerated, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, m.InsertContent(ctx, rec))

	rec.Status = StatusPublished
	require.NoError(t, m.UpdateContent(ctx, rec))

	got, err := m.ListContent(ctx, "u1", ContentFilter{Status: StatusPublished})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	require.NoError(t, m.DeleteContent(ctx, "u1", "c1"))
	assert.ErrorIs(t, m.DeleteContent(ctx, "u1", "c1"), ErrNotFound)
}

func TestMemoryContentFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	for i, rec := range []ContentRecord{
		{ID: "a", Platform: "Instagram", Idea: "sustainable fashion", Status: StatusGenerated},
		{ID: "b", Platform: "Facebook", Idea: "winter sale", Status: StatusPublished},
		{ID: "c", Platform: "Instagram", Idea: "fashion week recap", Status: StatusPublished},
	} {
		rec.UserID = "u1"
		rec.CreatedAt = base.AddDate(0, 0, i)
		require.NoError(t, m.InsertContent(ctx, rec))
	}

	got, err := m.ListContent(ctx, "u1", ContentFilter{Query: "fashion"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = m.ListContent(ctx, "u1", ContentFilter{Platform: "instagram", Status: StatusPublished})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)

	since := base.AddDate(0, 0, 1)
	got, err = m.ListContent(ctx, "u1", ContentFilter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Listings are isolated per user.
	got, err = m.ListContent(ctx, "u2", ContentFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryLeadFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for _, rec := range []LeadRecord{
		{ID: "l1", Name: "John Doe", Email: "john@x.com", Status: "New"},
		{ID: "l2", Name: "Jane Roe", Email: "jane@y.com", Status: "Qualified"},
	} {
		rec.UserID = "u1"
		rec.CreatedAt = time.Now()
		require.NoError(t, m.InsertLead(ctx, rec))
	}

	got, err := m.ListLeads(ctx, "u1", LeadFilter{Query: "john"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)

	got, err = m.ListLeads(ctx, "u1", LeadFilter{Status: "qualified"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "l2", got[0].ID)

	assert.ErrorIs(t, m.UpdateLead(ctx, LeadRecord{ID: "nope", UserID: "u1"}), ErrNotFound)
}
