package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMessage(t *testing.T) {
	u := &UserRecord{UserID: "100"}
	d := NewEventDate(2026, 8, 30)
	u.AddMessage(d, "alice", 1000)
	u.AddMessage(d, "alice2", 1010)

	assert.Equal(t, 2, u.MessageCount)
	assert.Len(t, u.History, 2)
	assert.Equal(t, "2026-08-30", u.LastDate)
	assert.Equal(t, "alice2", u.Nickname)
	assert.Equal(t, int64(1000), u.FirstMessageTime)
	assert.Equal(t, int64(1010), u.LastMessageTime)
}

func TestAddMessage_EmptyNicknameKeepsPrevious(t *testing.T) {
	u := &UserRecord{UserID: "100", Nickname: "alice"}
	u.AddMessage(NewEventDate(2026, 8, 30), "", 1000)
	assert.Equal(t, "alice", u.Nickname)
}

func TestAddMessage_CountMatchesHistory(t *testing.T) {
	u := &UserRecord{UserID: "100"}
	for i := 0; i < 17; i++ {
		u.AddMessage(NewEventDate(2026, 8, 1+i%28), "alice", int64(1000+i))
	}
	assert.Equal(t, len(u.History), u.MessageCount)
}

func TestLastMessageDate(t *testing.T) {
	u := &UserRecord{UserID: "100"}
	_, ok := u.LastMessageDate()
	assert.False(t, ok)

	u.AddMessage(NewEventDate(2026, 8, 29), "alice", 1000)
	u.AddMessage(NewEventDate(2026, 8, 30), "alice", 1010)
	d, ok := u.LastMessageDate()
	require.True(t, ok)
	assert.Equal(t, NewEventDate(2026, 8, 30), d)
}

func TestCountBetween_Sorted(t *testing.T) {
	u := &UserRecord{UserID: "100", History: []EventDate{
		NewEventDate(2026, 8, 1),
		NewEventDate(2026, 8, 10),
		NewEventDate(2026, 8, 20),
		NewEventDate(2026, 8, 25),
		NewEventDate(2026, 8, 30),
	}}
	assert.Equal(t, 3, u.CountBetween(NewEventDate(2026, 8, 10), NewEventDate(2026, 8, 25)))
	assert.Equal(t, 5, u.CountBetween(NewEventDate(2026, 8, 1), NewEventDate(2026, 8, 31)))
	assert.Equal(t, 0, u.CountBetween(NewEventDate(2026, 9, 1), NewEventDate(2026, 9, 30)))
}

func TestCountBetween_UnsortedHistoryCountsEverything(t *testing.T) {
	// Backfilled entries land out of order; the early-stop walk must not
	// kick in and miss the late entries.
	u := &UserRecord{UserID: "100", History: []EventDate{
		NewEventDate(2026, 8, 30),
		NewEventDate(2026, 8, 1),
		NewEventDate(2026, 8, 15),
	}}
	assert.Equal(t, 2, u.CountBetween(NewEventDate(2026, 8, 10), NewEventDate(2026, 8, 30)))
}

func TestCountBetween_SingleDay(t *testing.T) {
	d := NewEventDate(2026, 8, 30)
	u := &UserRecord{UserID: "100", History: []EventDate{
		NewEventDate(2026, 8, 29), d, d,
	}}
	start, end := DayWindow(d)
	assert.Equal(t, 2, u.CountBetween(start, end))
}

func TestCountBetween_Empty(t *testing.T) {
	u := &UserRecord{UserID: "100"}
	assert.Equal(t, 0, u.CountBetween(NewEventDate(2026, 8, 1), NewEventDate(2026, 8, 31)))
}

func TestUserRecordJSON_RoundTrip(t *testing.T) {
	u := &UserRecord{UserID: "100"}
	u.AddMessage(NewEventDate(2026, 8, 29), "alice", 1000)
	u.AddMessage(NewEventDate(2026, 8, 30), "alice", 1010)

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var got UserRecord
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, u.UserID, got.UserID)
	assert.Equal(t, u.MessageCount, got.MessageCount)
	assert.Equal(t, u.History, got.History)
	assert.Equal(t, u.LastDate, got.LastDate)
}

func TestUserRecordJSON_SkipsBadHistoryEntries(t *testing.T) {
	raw := `{"user_id":"100","nickname":"alice","message_count":3,"history":["2026-08-29","not-a-date","2026-08-30"]}`
	var u UserRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Len(t, u.History, 2)
	assert.Equal(t, 3, u.MessageCount)
}

func TestUserRecordJSON_MissingUserID(t *testing.T) {
	var u UserRecord
	err := json.Unmarshal([]byte(`{"nickname":"alice"}`), &u)
	assert.Error(t, err)
}
