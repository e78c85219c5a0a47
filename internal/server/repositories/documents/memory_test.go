package documents

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
)

func TestMemoryStore_Suite(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store { return NewMemoryStore() })
}

func TestMemoryStore_FailOn(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	boom := errors.New("disk on fire")

	s.FailOn(OpCreate, boom)
	assert.ErrorIs(t, s.Create(ctx, "users", "k", testDoc{}), boom)
	assert.Equal(t, 0, s.Len("users"))

	s.FailOn(OpCreate, nil)
	require.NoError(t, s.Create(ctx, "users", "k", testDoc{}))

	s.FailOn(OpRead, boom)
	s.FailOn(OpUpdate, boom)
	s.FailOn(OpDelete, boom)
	s.FailOn(OpList, boom)

	var got testDoc
	assert.ErrorIs(t, s.Read(ctx, "users", "k", &got), boom)
	assert.ErrorIs(t, s.Update(ctx, "users", "k", testDoc{}), boom)
	assert.ErrorIs(t, s.Delete(ctx, "users", "k"), boom)
	_, err := s.List(ctx, "users")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Len("users"))
}

func TestMemoryStore_CorruptData(t *testing.T) {
	s := NewMemoryStore()
	s.PutRaw("users", "bad", []byte(`{"name":`))

	var got testDoc
	assert.ErrorIs(t, s.Read(context.Background(), "users", "bad", &got), common.ErrorCorruptData)
}

func TestMemoryStore_StoresCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	raw := []byte(`{"name":"a"}`)
	s.PutRaw("users", "k", raw)
	raw[2] = 'X'

	var got testDoc
	require.NoError(t, s.Read(ctx, "users", "k", &got))
	assert.Equal(t, "a", got.Name)
}
