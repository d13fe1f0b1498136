package store

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"msd/internal/models"
	"msd/internal/providers"
	"msd/internal/structures"
)

const groupsSubdir = "groups"

// trailingCommaRe matches the one corruption shape worth repairing in place:
// a dangling comma before a closing bracket or brace.
var trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)

type GroupStoreInterface interface {
	Load(groupID string) ([]*models.UserRecord, error)
	Save(groupID string, records []*models.UserRecord) error
	Delete(groupID string) error
	ListGroups() ([]string, error)
	FilePath(groupID string) string
}

// GroupStore persists one JSON document per group: a list of user records.
// A read-through cache of the serialized document sits in front of the disk;
// every successful write invalidates the group's cache entry.
type GroupStore struct {
	dir     string
	cache   providers.DataCache
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
}

func NewGroupStore(conf *structures.Config, cache providers.DataCache, metrics providers.MetricsProviderInterface, logger providers.Logger) (*GroupStore, error) {
	dir := filepath.Join(conf.Data.Dir, groupsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &GroupStore{
		dir:     dir,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}, nil
}

func (gs *GroupStore) FilePath(groupID string) string {
	return filepath.Join(gs.dir, groupID+".json")
}

func cacheKey(groupID string) string {
	return "group:" + groupID
}

// Load returns the group's roster. A missing file is an empty roster, not an
// error. Corrupt documents are repaired or quarantined, never propagated.
func (gs *GroupStore) Load(groupID string) ([]*models.UserRecord, error) {
	if data, ok := gs.cache.Get(cacheKey(groupID)); ok {
		if records, err := gs.decodeRoster(groupID, data); err == nil {
			return records, nil
		}
		gs.cache.Del(cacheKey(groupID))
	}

	path := gs.FilePath(groupID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*models.UserRecord{}, nil
		}
		return nil, err
	}

	records, err := gs.decodeRoster(groupID, data)
	if err != nil {
		return gs.quarantine(groupID, path, data)
	}

	gs.cache.Set(cacheKey(groupID), data)
	return records, nil
}

// decodeRoster parses a roster document. Both the current bare-list form and
// the legacy object form with a "users" field are accepted. Records that do
// not decode are skipped so one corrupt record cannot lose the group.
func (gs *GroupStore) decodeRoster(groupID string, data []byte) ([]*models.UserRecord, error) {
	rawRecords, err := splitRoster(data)
	if err != nil {
		repaired := trailingCommaRe.ReplaceAll(data, []byte("$1"))
		rawRecords, err = splitRoster(repaired)
		if err != nil {
			return nil, err
		}
		gs.logger.Warnf(providers.TypeApp, "Repaired trailing commas in group %s data", groupID)
	}

	records := make([]*models.UserRecord, 0, len(rawRecords))
	for _, raw := range rawRecords {
		var rec models.UserRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			gs.logger.Warnf(providers.TypeApp, "Skipping invalid user record in group %s: %s", groupID, err)
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}

func splitRoster(data []byte) ([]json.RawMessage, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	// Legacy wrapper format: {"group_id": ..., "users": [...]}
	var doc struct {
		Users []json.RawMessage `json:"users"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Users == nil {
		return nil, errNotARoster
	}
	return doc.Users, nil
}

// quarantine copies the unreadable bytes to a .backup sibling and resets the
// document to an empty list. The group degrades to "no data", it does not
// crash the caller.
func (gs *GroupStore) quarantine(groupID, path string, data []byte) ([]*models.UserRecord, error) {
	if err := os.WriteFile(path+".backup", data, 0o644); err != nil {
		gs.logger.Errorf(providers.TypeApp, "Failed to back up corrupt data for group %s: %s", groupID, err)
		return []*models.UserRecord{}, nil
	}
	if err := writeFileAtomic(path, []byte("[]")); err != nil {
		gs.logger.Errorf(providers.TypeApp, "Failed to reset corrupt data for group %s: %s", groupID, err)
		return []*models.UserRecord{}, nil
	}
	gs.cache.Del(cacheKey(groupID))
	gs.logger.Warnf(providers.TypeApp, "Quarantined corrupt data for group %s to %s.backup", groupID, path)
	return []*models.UserRecord{}, nil
}

// Save serializes the full roster and replaces the group's file atomically,
// then drops the group's cache entry as part of the same operation. Failures
// surface to the caller; there are no silent retries here.
func (gs *GroupStore) Save(groupID string, records []*models.UserRecord) error {
	start := time.Now()

	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(gs.FilePath(groupID), data); err != nil {
		return err
	}

	gs.cache.Del(cacheKey(groupID))
	gs.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

// Delete removes the group's file. A file that is already absent counts as
// success.
func (gs *GroupStore) Delete(groupID string) error {
	err := os.Remove(gs.FilePath(groupID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	gs.cache.Del(cacheKey(groupID))
	return nil
}

// ListGroups returns the ids of all groups with a data file.
func (gs *GroupStore) ListGroups() ([]string, error) {
	entries, err := os.ReadDir(gs.dir)
	if err != nil {
		return nil, err
	}
	groups := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		groups = append(groups, strings.TrimSuffix(name, ".json"))
	}
	return groups, nil
}

var errNotARoster = errors.New("document is not a roster")
