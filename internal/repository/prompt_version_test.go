package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/nutrilog/internal/domain"
	"github.com/alexanderramin/nutrilog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptVersionRepo_ListByTemplate_NewestFirst(t *testing.T) {
	repo := NewDocPromptVersionRepo(testutil.NewTestStore(t))
	ctx := context.Background()

	tmpl := testutil.NewTestTemplate()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	// Sub-second offsets exercise ordering within one second.
	offsets := []time.Duration{0, 500 * time.Millisecond, 1200 * time.Millisecond, 250 * time.Millisecond}
	for i, off := range offsets {
		v := domain.NewPromptVersion(tmpl, "change", "tester", base.Add(off))
		v.ChangeDescription = string(rune('a' + i))
		require.NoError(t, repo.Create(ctx, v))
	}

	versions, err := repo.ListByTemplate(ctx, tmpl.ID, 50)
	require.NoError(t, err)
	require.Len(t, versions, 4)
	assert.Equal(t, "c", versions[0].ChangeDescription)
	assert.Equal(t, "b", versions[1].ChangeDescription)
	assert.Equal(t, "d", versions[2].ChangeDescription)
	assert.Equal(t, "a", versions[3].ChangeDescription)
	assert.Equal(t, tmpl.ID, versions[0].TemplateID)
}

func TestPromptVersionRepo_ListByTemplate_LimitAndIsolation(t *testing.T) {
	repo := NewDocPromptVersionRepo(testutil.NewTestStore(t))
	ctx := context.Background()

	first := testutil.NewTestTemplate()
	second := testutil.NewTestTemplate()
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, domain.NewPromptVersion(first, "edit", "", base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Create(ctx, domain.NewPromptVersion(second, "Initial version", "", base)))

	versions, err := repo.ListByTemplate(ctx, first.ID, 2)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
	assert.True(t, versions[0].Timestamp.Equal(base.Add(4*time.Minute)))

	others, err := repo.ListByTemplate(ctx, second.ID, 50)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "Initial version", others[0].ChangeDescription)

	none, err := repo.ListByTemplate(ctx, "missing", 50)
	require.NoError(t, err)
	assert.Empty(t, none)
}
