package migrations

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLFilesOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"010_chat.sql":  {Data: []byte("SELECT 1;")},
		"002_rides.sql": {Data: []byte("SELECT 1;")},
		"README.md":     {Data: []byte("docs")},
		"001_init.sql":  {Data: []byte("SELECT 1;")},
	}

	files, err := SQLFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_rides.sql", "010_chat.sql"}, files)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "001", Version("001_init.sql"))
	assert.Equal(t, "002", Version("sql/002_add_index.sql"))
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := SQLFiles(Files())
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_init.sql", files[0])

	content, err := fs.ReadFile(Files(), files[0])
	require.NoError(t, err)
	for _, table := range []string{"users", "rides", "ride_passengers", "attendance_records", "complaints", "chat_messages", "refresh_tokens"} {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
}

func TestEmbeddedMigrations_UserReferencesHaveDeleteAction(t *testing.T) {
	content, err := fs.ReadFile(Files(), "001_init.sql")
	require.NoError(t, err)

	for _, line := range strings.Split(string(content), "\n") {
		if strings.Contains(line, "REFERENCES users") {
			assert.Contains(t, line, "ON DELETE", line)
		}
	}
	assert.Contains(t, string(content), "created_by BIGINT       REFERENCES users (id) ON DELETE SET NULL,")
}
