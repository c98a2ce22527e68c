package application

import (
	"context"
	"testing"

	"github.com/rocketscienceinc/pelmanism/internal/config"
	"github.com/rocketscienceinc/pelmanism/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory storage", func(t *testing.T) {
		repo, closeStorage, err := newSnapshotRepository(ctx, &config.Config{Storage: config.StorageMemory})
		require.NoError(t, err)
		defer func() { assert.NoError(t, closeStorage()) }()

		require.NoError(t, repo.Save(ctx, &entity.Snapshot{SessionID: "s1"}))
		_, err = repo.GetByID(ctx, "s1")
		assert.NoError(t, err)
	})

	t.Run("Unknown storage", func(t *testing.T) {
		_, _, err := newSnapshotRepository(ctx, &config.Config{Storage: "tape"})

		assert.ErrorIs(t, err, ErrUnknownStorage)
	})
}
