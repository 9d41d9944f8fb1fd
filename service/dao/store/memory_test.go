package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allocsafe/banker/service/dao"
)

type record struct {
	ID    string
	Value int
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory[string, record](func(r *record) string { return r.ID })

	assert.ErrorIs(t, s.Save(ctx, nil), dao.ErrNilEntity)

	require.NoError(t, s.Save(ctx, &record{ID: "a", Value: 1}))
	require.NoError(t, s.Save(ctx, &record{ID: "b", Value: 2}))
	require.NoError(t, s.Save(ctx, &record{ID: "a", Value: 3}), "overwrite")

	loaded, err := s.Load(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 3, loaded.Value)

	missing, err := s.Load(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.Delete(ctx, "a"))
	all, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
