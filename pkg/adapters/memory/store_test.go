package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/shopbot/pkg/adapters/memory"
	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/aretw0/shopbot/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	state := domain.NewState("s", domain.StepOfferHelp)
	state.Profile.Name = "Sam"
	require.NoError(t, store.Save(ctx, "s", state))

	state.Profile.Name = "Mutated"
	state.History = append(state.History, domain.StepFinalize)

	loaded, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "Sam", loaded.Profile.Name)
	assert.Empty(t, loaded.History)

	loaded.Profile.Name = "Again"
	again, err := store.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "Sam", again.Profile.Name)
}

func TestMemoryStore_RejectsNilState(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, "s", nil), memory.ErrNilState)
	_, err := store.Load(ctx, "s")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Save(context.Background(), "s", domain.NewState("s", domain.StepAskName)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, "t", domain.NewState("t", domain.StepAskName)), context.Canceled)
	_, err := store.Load(ctx, "s")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Delete(ctx, "s"), context.Canceled)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"s"}, ids)
}
