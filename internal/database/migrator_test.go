package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metapiqma/review-service/internal/observability"
)

func TestNewMigratorValidation(t *testing.T) {
	t.Parallel()

	logger := observability.NewLogger(observability.DefaultLoggingConfig())

	t.Run("nil database", func(t *testing.T) {
		t.Parallel()
		m, err := NewMigrator(nil, "migrations", logger)
		require.Error(t, err)
		assert.Nil(t, m)
		assert.Contains(t, err.Error(), "database is required")
	})

	t.Run("uninitialized pool", func(t *testing.T) {
		t.Parallel()
		m, err := NewMigrator(&DB{}, "migrations", logger)
		require.Error(t, err)
		assert.Nil(t, m)
		assert.Contains(t, err.Error(), "pool not initialized")
	})

	t.Run("missing migrations path", func(t *testing.T) {
		t.Parallel()
		m, err := NewMigrator(&DB{}, "", logger)
		require.Error(t, err)
		assert.Nil(t, m)
	})
}
