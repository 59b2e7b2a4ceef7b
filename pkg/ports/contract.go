package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/shopbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, domain.StepOfferHelp)
		state.UserID = "user-1"
		state.Profile = domain.Profile{Name: "Bob Fox", ShoppingItem: "Glasses"}
		state.History = []domain.StepID{domain.StepAskName, domain.StepConfirmName}
		state.Prompt = &domain.InputRequest{
			Type:    domain.InputChoice,
			Prompt:  "Which?",
			Options: []string{"Sun Glasses", "Frameless"},
		}

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.SessionID, loaded.SessionID)
		assert.Equal(t, state.UserID, loaded.UserID)
		assert.Equal(t, state.Step, loaded.Step)
		assert.Equal(t, state.Status, loaded.Status)
		assert.Equal(t, state.Profile, loaded.Profile)
		assert.Equal(t, state.History, loaded.History)
		require.NotNil(t, loaded.Prompt)
		assert.Equal(t, *state.Prompt, *loaded.Prompt)
	})

	t.Run("Overwrite", func(t *testing.T) {
		state := domain.NewState(sessionID, domain.StepFinalize)
		state.Status = domain.StatusTerminated
		state.EndReason = domain.EndCompleted
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.StepFinalize, loaded.Step)
		assert.True(t, loaded.Terminated())
		assert.Equal(t, domain.EndCompleted, loaded.EndReason)
		assert.Nil(t, loaded.Prompt)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, domain.StepAskName))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, domain.StepAskName))
		_ = store.Save(ctx, id2, domain.NewState(id2, domain.StepAskName))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
