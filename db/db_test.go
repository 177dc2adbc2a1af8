package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndListMoodChanges(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.RecordMoodChange("curious"))
	require.NoError(t, db.RecordMoodChange("happy"))

	changes, err := db.RecentMoodChanges(10)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	for _, c := range changes {
		assert.Contains(t, []string{"curious", "happy"}, c.Mood)
		assert.False(t, c.At.IsZero())
	}
}

func TestRecordAndListObservations(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.RecordObservation(23.4, false))
	require.NoError(t, db.RecordObservation(31.0, true))

	obs, err := db.RecentObservations(10)
	require.NoError(t, err)
	require.Len(t, obs, 2)
}

func TestRecentLimits(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 20; i++ {
		require.NoError(t, db.RecordMoodChange("default"))
	}

	changes, err := db.RecentMoodChanges(5)
	require.NoError(t, err)
	assert.Len(t, changes, 5)
}

func TestEmptyHistory(t *testing.T) {
	db := newTestDB(t)

	changes, err := db.RecentMoodChanges(10)
	require.NoError(t, err)
	assert.Empty(t, changes)
}
