package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	require.NotEmpty(t, ups)
	assert.Equal(t, ups, downs)
}

func TestCreatePostsMigration(t *testing.T) {
	b, err := fs.ReadFile(migrationFiles, "migrations/000001_create_posts.up.sql")
	require.NoError(t, err)

	sql := string(b)
	assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS posts")
	assert.Contains(t, sql, "title VARCHAR(100) NOT NULL")
	assert.Contains(t, sql, "body  TEXT NOT NULL")
}

func TestConnectRejectsBadDSN(t *testing.T) {
	_, err := Connect("postgres://%zz", Options{})
	assert.ErrorContains(t, err, "failed to parse DSN")
}
