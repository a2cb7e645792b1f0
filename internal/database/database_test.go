package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesRecordsTable(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	var tableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='records'").Scan(&tableName)
	require.NoError(t, err, "Querying for records table should not produce an error")
	assert.Equal(t, "records", tableName, "The 'records' table should be created")
}

func TestInitDB_IsIdempotent(t *testing.T) {
	path := t.TempDir() + "/duels.db"

	_, teardown, err := InitDB(path, "", "")
	require.NoError(t, err)
	teardown()

	db, teardown, err := InitDB(path, "", "")
	require.NoError(t, err, "re-running migrations on an existing database should succeed")
	defer teardown()

	_, err = db.Exec("INSERT INTO records (collection, key, value) VALUES ('players', '1', '{}')")
	assert.NoError(t, err)
}
