package models

import (
	"errors"

	json "github.com/goccy/go-json"
)

// UserRecord is one user's statistics within one group.
//
// History is append-only and may be unsorted when events arrive out of
// chronological order (backfill); nothing here assumes sortedness. LastDate
// mirrors the most recently appended date, which is deliberately not the
// same thing as max(History).
type UserRecord struct {
	UserID           string
	Nickname         string
	MessageCount     int
	History          []EventDate
	LastDate         string
	FirstMessageTime int64
	LastMessageTime  int64
}

// userRecordJSON is the persisted form: history as YYYY-MM-DD strings.
type userRecordJSON struct {
	UserID           string   `json:"user_id"`
	Nickname         string   `json:"nickname"`
	MessageCount     int      `json:"message_count"`
	History          []string `json:"history"`
	LastDate         string   `json:"last_date,omitempty"`
	FirstMessageTime int64    `json:"first_message_time,omitempty"`
	LastMessageTime  int64    `json:"last_message_time,omitempty"`
}

func (u *UserRecord) MarshalJSON() ([]byte, error) {
	history := make([]string, len(u.History))
	for i, d := range u.History {
		history[i] = d.String()
	}
	return json.Marshal(userRecordJSON{
		UserID:           u.UserID,
		Nickname:         u.Nickname,
		MessageCount:     u.MessageCount,
		History:          history,
		LastDate:         u.LastDate,
		FirstMessageTime: u.FirstMessageTime,
		LastMessageTime:  u.LastMessageTime,
	})
}

// UnmarshalJSON rebuilds the history, dropping entries that do not parse as
// dates. One bad history entry must not discard the whole record.
func (u *UserRecord) UnmarshalJSON(data []byte) error {
	var raw userRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.UserID == "" {
		return errMissingUserID
	}

	u.UserID = raw.UserID
	u.Nickname = raw.Nickname
	u.MessageCount = raw.MessageCount
	u.LastDate = raw.LastDate
	u.FirstMessageTime = raw.FirstMessageTime
	u.LastMessageTime = raw.LastMessageTime
	u.History = make([]EventDate, 0, len(raw.History))
	for _, s := range raw.History {
		d, err := ParseEventDate(s)
		if err != nil {
			continue
		}
		u.History = append(u.History, d)
	}
	return nil
}

// AddMessage records one message event: append to history, bump the count,
// refresh the nickname and the wall-clock seen timestamps.
func (u *UserRecord) AddMessage(date EventDate, nickname string, now int64) {
	u.MessageCount++
	u.History = append(u.History, date)
	u.LastDate = date.String()
	if nickname != "" {
		u.Nickname = nickname
	}
	if u.FirstMessageTime == 0 {
		u.FirstMessageTime = now
	}
	u.LastMessageTime = now
}

// LastMessageDate returns the most recently appended date.
func (u *UserRecord) LastMessageDate() (EventDate, bool) {
	if len(u.History) == 0 {
		return EventDate{}, false
	}
	return u.History[len(u.History)-1], true
}

// CountBetween counts history entries in the closed interval [start, end].
//
// A full adjacent-pair scan decides whether the history is sorted ascending;
// sampling is not good enough here, an unsorted tail would be missed. Sorted
// histories get the early-stop walk, which matters for the common case of a
// narrow window near the end of a long history. Unsorted histories fall back
// to a full scan.
func (u *UserRecord) CountBetween(start, end EventDate) int {
	if len(u.History) == 0 {
		return 0
	}

	sorted := true
	for i := 1; i < len(u.History); i++ {
		if u.History[i].Before(u.History[i-1]) {
			sorted = false
			break
		}
	}

	count := 0
	for _, d := range u.History {
		if d.Before(start) {
			continue
		}
		if d.After(end) {
			if sorted {
				break
			}
			continue
		}
		count++
	}
	return count
}

var errMissingUserID = errors.New("user record missing user_id")
