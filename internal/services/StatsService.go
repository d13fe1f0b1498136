package services

import (
	"fmt"
	"time"

	"msd/internal/models"
	"msd/internal/platform"
	"msd/internal/providers"
	"msd/internal/store"
)

type GroupSummary struct {
	GroupID       string `json:"group_id"`
	Users         int    `json:"users"`
	TotalMessages int    `json:"total_messages"`
}

type Summary struct {
	Groups        []GroupSummary `json:"groups"`
	TotalUsers    int            `json:"total_users"`
	TotalMessages int            `json:"total_messages"`
}

type TopUser struct {
	UserID       string `json:"user_id"`
	Nickname     string `json:"nickname"`
	MessageCount int    `json:"message_count"`
}

// GroupStats is the detailed roll-up for a single group: overall totals,
// how many members have actually posted, and the most active member.
type GroupStats struct {
	TotalUsers      int      `json:"total_users"`
	TotalMessages   int      `json:"total_messages"`
	ActiveUsers     int      `json:"active_users"`
	AverageMessages float64  `json:"average_messages"`
	TopUser         *TopUser `json:"top_user"`
}

type StatsServiceInterface interface {
	RecordMessage(groupID, userID, nickname string) error
	Rank(groupID string, rankType models.RankType, limit int) (*models.RankData, error)
	Summary() (*Summary, error)
	GroupStats(groupID string) (*GroupStats, error)
	ClearGroup(groupID string) error
	Groups() ([]string, error)
}

// StatsService implements message recording and rank computation on top of
// the group store. All mutation paths take the per-group lock so concurrent
// writers never lose increments.
type StatsService struct {
	store    store.GroupStoreInterface
	guard    *store.GroupGuard
	resolver platform.MemberResolver
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger
	now      func() time.Time
}

func NewStatsService(groupStore store.GroupStoreInterface, guard *store.GroupGuard, resolver platform.MemberResolver, metrics providers.MetricsProviderInterface, logger providers.Logger) StatsServiceInterface {
	return &StatsService{
		store:    groupStore,
		guard:    guard,
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *StatsService) RecordMessage(groupID, userID, nickname string) error {
	if err := ValidateGroupID(groupID); err != nil {
		return err
	}
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	nickname = SanitizeNickname(nickname, userID)

	unlock := s.guard.Acquire(groupID)
	defer unlock()

	users, err := s.store.Load(groupID)
	if err != nil {
		return err
	}
	now := s.now()
	date := models.EventDateFromTime(now)

	var record *models.UserRecord
	for _, u := range users {
		if u.UserID == userID {
			record = u
			break
		}
	}
	if record == nil {
		record = &models.UserRecord{UserID: userID}
		users = append(users, record)
	}
	record.AddMessage(date, nickname, now.Unix())

	if err := s.store.Save(groupID, users); err != nil {
		return err
	}
	s.metrics.IncMessagesRecorded()
	return nil
}

func (s *StatsService) Rank(groupID string, rankType models.RankType, limit int) (*models.RankData, error) {
	if err := ValidateGroupID(groupID); err != nil {
		return nil, err
	}
	if limit < 1 || limit > 100 {
		return nil, fmt.Errorf("limit must be between 1 and 100, got %d", limit)
	}

	users, err := s.store.Load(groupID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := models.EventDateFromTime(now)
	start, end, bounded := rankType.Window(today)

	ranked := make([]models.RankedUser, 0, len(users))
	for _, u := range users {
		count := u.MessageCount
		if bounded {
			count = u.CountBetween(start, end)
		}
		ranked = append(ranked, models.RankedUser{Record: u, Count: count})
	}

	entries, total := models.BuildRank(ranked, limit)
	for i := range entries {
		if entries[i].Nickname == "" {
			entries[i].Nickname = s.resolveNickname(groupID, entries[i].UserID)
		}
	}
	return &models.RankData{
		GroupID:       groupID,
		Type:          rankType,
		Title:         rankType.Title(now),
		Entries:       entries,
		TotalMessages: total,
		GeneratedAt:   now,
	}, nil
}

func (s *StatsService) resolveNickname(groupID, userID string) string {
	name, err := s.resolver.MemberName(groupID, userID)
	if err != nil || name == "" {
		return fmt.Sprintf("User%s", userID)
	}
	return name
}

func (s *StatsService) Summary() (*Summary, error) {
	groups, err := s.store.ListGroups()
	if err != nil {
		return nil, err
	}
	summary := &Summary{Groups: make([]GroupSummary, 0, len(groups))}
	for _, groupID := range groups {
		users, err := s.store.Load(groupID)
		if err != nil {
			s.logger.Warnf(providers.TypeApp, "Skipping group %s in summary: %s", groupID, err)
			continue
		}
		gs := GroupSummary{GroupID: groupID, Users: len(users)}
		for _, u := range users {
			gs.TotalMessages += u.MessageCount
		}
		summary.Groups = append(summary.Groups, gs)
		summary.TotalUsers += gs.Users
		summary.TotalMessages += gs.TotalMessages
	}
	return summary, nil
}

func (s *StatsService) GroupStats(groupID string) (*GroupStats, error) {
	if err := ValidateGroupID(groupID); err != nil {
		return nil, err
	}
	users, err := s.store.Load(groupID)
	if err != nil {
		return nil, err
	}

	stats := &GroupStats{TotalUsers: len(users)}
	if len(users) == 0 {
		return stats, nil
	}

	var top *models.UserRecord
	for _, u := range users {
		stats.TotalMessages += u.MessageCount
		if u.MessageCount > 0 {
			stats.ActiveUsers++
		}
		if top == nil || u.MessageCount > top.MessageCount {
			top = u
		}
	}
	stats.AverageMessages = float64(stats.TotalMessages) / float64(len(users))

	nickname := top.Nickname
	if nickname == "" {
		nickname = s.resolveNickname(groupID, top.UserID)
	}
	stats.TopUser = &TopUser{
		UserID:       top.UserID,
		Nickname:     nickname,
		MessageCount: top.MessageCount,
	}
	return stats, nil
}

func (s *StatsService) ClearGroup(groupID string) error {
	if err := ValidateGroupID(groupID); err != nil {
		return err
	}
	unlock := s.guard.Acquire(groupID)
	defer unlock()
	return s.store.Delete(groupID)
}

func (s *StatsService) Groups() ([]string, error) {
	return s.store.ListGroups()
}
