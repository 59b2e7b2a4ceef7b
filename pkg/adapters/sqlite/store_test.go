package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/shopbot/pkg/adapters/sqlite"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "shopbot.db"))
	require.NoError(t, err)
	defer store.Close()

	ports.RunStateStoreContract(t, store)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	state := domain.NewState("s1", domain.StepFinalize)
	state.Profile = domain.Profile{Name: "Sam", ShoppingItem: "Watches", ShoppingProduct: "Smart"}
	require.NoError(t, store.Save(ctx, "s1", state))

	state.Profile.ShoppingMall = "Central"
	require.NoError(t, store.Save(ctx, "s1", state))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, state.Profile, loaded.Profile)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}
