package database

import (
	"log/slog"
	"testing"

	"recipehub/internal/config"
	"recipehub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSQLite(t *testing.T) {
	assert.True(t, isSQLite("file:recipes?mode=memory"))
	assert.True(t, isSQLite("./recipehub.db"))
	assert.True(t, isSQLite(":memory:"))
	assert.False(t, isSQLite("postgres://u:p@localhost:5432/recipehub"))
}

func TestConnect_SQLiteMigrates(t *testing.T) {
	cfg := &config.Config{
		GoEnv:       "test",
		DatabaseURL: "file:db_test_connect?mode=memory&cache=shared",
	}
	db, err := Connect(cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.Equal(t, "sqlite", db.Dialector.Name())
}
