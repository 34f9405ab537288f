package database

import (
	"path/filepath"
	"testing"

	"github.com/jade/nuestro27/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGetRecord_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetRecord("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutRecord_Overwrites(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.PutRecord("k", "one"))
	require.NoError(t, db.PutRecord("k", "two"))

	val, err := db.GetRecord("k")
	require.NoError(t, err)
	assert.Equal(t, "two", val)
	assert.Equal(t, "SQLite", db.DatabaseType())
}

func TestLoad_RoundTrip(t *testing.T) {
	db := newTestDB(t)

	cfg := model.Config{
		BackgroundType:       model.BackgroundColor,
		BackgroundValue:      "#ff0000",
		AnniversaryDay:       14,
		NotificationsEnabled: true,
	}
	memories := []model.Memory{
		{ID: "1700000000001", URL: "data:image/png;base64,AAAA", Date: 1700000000001},
		{ID: "1700000000000", URL: "data:image/jpeg;base64,BBBB", Date: 1700000000000},
	}
	require.NoError(t, Save(db, model.RecordConfig, cfg))
	require.NoError(t, Save(db, model.RecordMemories, memories))

	assert.Equal(t, cfg, Load(db, model.RecordConfig, model.DefaultConfig()))
	assert.Equal(t, memories, Load(db, model.RecordMemories, []model.Memory{}))
}

func TestLoad_MissingReturnsDefault(t *testing.T) {
	db := newTestDB(t)

	assert.Equal(t, model.DefaultConfig(), Load(db, model.RecordConfig, model.DefaultConfig()))
	assert.Equal(t, []model.Memory{}, Load(db, model.RecordMemories, []model.Memory{}))
}

func TestLoad_CorruptReturnsDefault(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.PutRecord(model.RecordConfig, "{not json"))
	require.NoError(t, db.PutRecord(model.RecordMemories, `{"id": 3}`))

	assert.Equal(t, model.DefaultConfig(), Load(db, model.RecordConfig, model.DefaultConfig()))
	assert.Equal(t, []model.Memory{}, Load(db, model.RecordMemories, []model.Memory{}))
}

func TestLoad_ReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, Save(db, model.RecordOverrides, model.DefaultOverrides()))
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, model.DefaultOverrides(), Load(db, model.RecordOverrides, []model.Override(nil)))
}
