package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	db, err := Connect(dbPath)
	require.NoError(t, err)
	require.NotNil(t, db)

	// WAL mode must actually be in effect on the connection.
	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}

func TestConnect_BadPath(t *testing.T) {
	_, err := Connect("/does/not/exist/nested/test.db")
	assert.Error(t, err)
}
