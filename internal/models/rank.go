package models

import (
	"fmt"
	"sort"
	"time"
)

type RankType string

const (
	RankTotal   RankType = "total"
	RankDaily   RankType = "daily"
	RankWeekly  RankType = "weekly"
	RankMonthly RankType = "monthly"
)

func ParseRankType(s string) (RankType, error) {
	switch s {
	case "total", "all", "":
		return RankTotal, nil
	case "daily", "day":
		return RankDaily, nil
	case "weekly", "week":
		return RankWeekly, nil
	case "monthly", "month":
		return RankMonthly, nil
	default:
		return "", fmt.Errorf("invalid rank type %q", s)
	}
}

// Window returns the closed date interval for the rank type, relative to
// today. ok is false for the all-time rank, which has no interval.
func (rt RankType) Window(today EventDate) (start, end EventDate, ok bool) {
	switch rt {
	case RankDaily:
		start, end = DayWindow(today)
	case RankWeekly:
		start, end = WeekWindow(today)
	case RankMonthly:
		start, end = MonthWindow(today)
	default:
		return EventDate{}, EventDate{}, false
	}
	return start, end, true
}

// Title renders the leaderboard heading for the rank type.
func (rt RankType) Title(now time.Time) string {
	switch rt {
	case RankDaily:
		return fmt.Sprintf("Today's leaderboard (%s)", EventDateFromTime(now))
	case RankWeekly:
		_, week := now.ISOWeek()
		return fmt.Sprintf("This week's leaderboard (%d week %d)", now.Year(), week)
	case RankMonthly:
		return fmt.Sprintf("This month's leaderboard (%d-%02d)", now.Year(), int(now.Month()))
	default:
		return "All-time leaderboard"
	}
}

type RankEntry struct {
	UserID   string  `json:"user_id"`
	Nickname string  `json:"nickname"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

type RankData struct {
	GroupID       string      `json:"group_id"`
	Type          RankType    `json:"type"`
	Title         string      `json:"title"`
	Entries       []RankEntry `json:"entries"`
	TotalMessages int         `json:"total_messages"`
	GeneratedAt   time.Time   `json:"generated_at"`
}

// RankedUser pairs a record with its windowed count.
type RankedUser struct {
	Record *UserRecord
	Count  int
}

// BuildRank filters zero counts, sorts descending by count and takes the
// first limit entries. Percentages are computed against the sum over the
// whole qualifying set, not just the displayed slice; a zero sum yields 0%
// everywhere. The sort is stable so ties keep roster order, which keeps
// rankings reproducible.
func BuildRank(users []RankedUser, limit int) ([]RankEntry, int) {
	qualified := make([]RankedUser, 0, len(users))
	total := 0
	for _, u := range users {
		if u.Count <= 0 {
			continue
		}
		qualified = append(qualified, u)
		total += u.Count
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Count > qualified[j].Count
	})

	if limit > 0 && len(qualified) > limit {
		qualified = qualified[:limit]
	}

	entries := make([]RankEntry, 0, len(qualified))
	for _, u := range qualified {
		percent := 0.0
		if total > 0 {
			percent = float64(u.Count) / float64(total) * 100
		}
		entries = append(entries, RankEntry{
			UserID:   u.Record.UserID,
			Nickname: u.Record.Nickname,
			Count:    u.Count,
			Percent:  percent,
		})
	}
	return entries, total
}
