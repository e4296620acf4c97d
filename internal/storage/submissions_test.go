package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionStore_RecordAndGetRecent(t *testing.T) {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := NewSubmissionStore(db, 100, nil)

	baseTime := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		info := SubmissionInfo{
			SubmissionUUID: "sub-" + string(rune('a'+i)),
			Endpoint:       "https://irgsh.example.org/report",
			Title:          "report " + string(rune('a'+i)),
			HasLogs:        i%2 == 0,
			Outcome:        "SUCCESS",
			StatusCode:     200,
			SubmittedAt:    baseTime.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.RecordSubmission(info))
	}

	submissions, err := store.GetRecentSubmissions(3)
	require.NoError(t, err)
	require.Len(t, submissions, 3)

	// Most recent first
	assert.Equal(t, "sub-e", submissions[0].SubmissionUUID)
	assert.Equal(t, "sub-d", submissions[1].SubmissionUUID)
	assert.Equal(t, "sub-c", submissions[2].SubmissionUUID)
	assert.True(t, submissions[0].HasLogs)
	assert.False(t, submissions[1].HasLogs)
	assert.Equal(t, 200, submissions[0].StatusCode)
}

func TestSubmissionStore_RecordFailure(t *testing.T) {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := NewSubmissionStore(db, 100, nil)
	require.NoError(t, store.RecordSubmission(SubmissionInfo{
		SubmissionUUID: "sub-failed",
		Endpoint:       "https://irgsh.example.org/report",
		Title:          "t",
		Outcome:        "TRANSPORT_FAILURE",
		Error:          "dial tcp: connection refused",
		SubmittedAt:    time.Now().UTC(),
	}))

	submissions, err := store.GetRecentSubmissions(0)
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	assert.Equal(t, "TRANSPORT_FAILURE", submissions[0].Outcome)
	assert.Equal(t, "dial tcp: connection refused", submissions[0].Error)
	assert.Equal(t, 0, submissions[0].StatusCode)
}

func TestSubmissionStore_DuplicateUUID(t *testing.T) {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := NewSubmissionStore(db, 100, nil)
	info := SubmissionInfo{SubmissionUUID: "dup", Endpoint: "e", Title: "t", Outcome: "SUCCESS", SubmittedAt: time.Now().UTC()}
	require.NoError(t, store.RecordSubmission(info))
	assert.Error(t, store.RecordSubmission(info))
}

func TestSubmissionStore_Cleanup(t *testing.T) {
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	store := NewSubmissionStore(db, 3, nil)

	baseTime := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.RecordSubmission(SubmissionInfo{
			SubmissionUUID: "sub-" + string(rune('a'+i)),
			Endpoint:       "https://irgsh.example.org/report",
			Title:          "t",
			Outcome:        "REJECTED",
			StatusCode:     500,
			SubmittedAt:    baseTime.Add(time.Duration(i) * time.Hour),
		}))
	}

	submissions, err := store.GetRecentSubmissions(10)
	require.NoError(t, err)
	require.Len(t, submissions, 3)
	assert.Equal(t, "sub-e", submissions[0].SubmissionUUID)
	assert.Equal(t, "sub-c", submissions[2].SubmissionUUID)
}
