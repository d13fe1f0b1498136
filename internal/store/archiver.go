package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"msd/internal/providers"
	"msd/internal/structures"
)

// Archiver writes compressed snapshots of group rosters and removes groups
// that have gone stale. A cleanup always takes a backup before deleting so
// data is recoverable.
type Archiver struct {
	dir        string
	retention  int
	store      GroupStoreInterface
	compressor CompressorInterface
	logger     providers.Logger
}

func NewArchiver(conf *structures.Config, store GroupStoreInterface, compressor CompressorInterface, logger providers.Logger) (*Archiver, error) {
	if err := os.MkdirAll(conf.Backup.Dir, 0o755); err != nil {
		return nil, err
	}
	return &Archiver{
		dir:        conf.Backup.Dir,
		retention:  conf.Backup.RetentionDays,
		store:      store,
		compressor: compressor,
		logger:     logger,
	}, nil
}

// Backup compresses the current roster file of a group into the backup
// directory and returns the archive path.
func (a *Archiver) Backup(groupID string) (string, error) {
	data, err := os.ReadFile(a.store.FilePath(groupID))
	if err != nil {
		return "", err
	}
	compressed, err := a.compressor.Compress(data)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s_%s.json.zst", groupID, time.Now().Format("20060102T150405"))
	path := filepath.Join(a.dir, name)
	if err := writeFileAtomic(path, compressed); err != nil {
		return "", err
	}
	return path, nil
}

// BackupAll archives every known group and returns the archive paths. Groups
// whose file cannot be read are logged and skipped.
func (a *Archiver) BackupAll() ([]string, error) {
	groups, err := a.store.ListGroups()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(groups))
	for _, groupID := range groups {
		path, err := a.Backup(groupID)
		if err != nil {
			a.logger.Warnf(providers.TypeApp, "Backup of group %s failed: %s", groupID, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// CleanupOlderThan deletes groups whose roster file has not been modified for
// the given age, backing each up first. Returns the number of groups removed.
func (a *Archiver) CleanupOlderThan(age time.Duration) (int, error) {
	groups, err := a.store.ListGroups()
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-age)
	removed := 0
	for _, groupID := range groups {
		info, err := os.Stat(a.store.FilePath(groupID))
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if _, err := a.Backup(groupID); err != nil {
			a.logger.Warnf(providers.TypeApp, "Skipping cleanup of group %s, backup failed: %s", groupID, err)
			continue
		}
		if err := a.store.Delete(groupID); err != nil {
			a.logger.Warnf(providers.TypeApp, "Cleanup of group %s failed: %s", groupID, err)
			continue
		}
		a.logger.Infof(providers.TypeApp, "Removed stale group %s", groupID)
		removed++
	}
	if err := a.pruneArchives(); err != nil {
		a.logger.Warnf(providers.TypeApp, "Pruning old backups failed: %s", err)
	}
	return removed, nil
}

// pruneArchives drops backup files older than the configured retention.
func (a *Archiver) pruneArchives() error {
	retention := time.Duration(a.retention) * 24 * time.Hour
	if retention <= 0 {
		return nil
	}
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return err
	}
	cutoff := time.Now().Add(-retention)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json.zst") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(a.dir, entry.Name())); err != nil {
				a.logger.Warnf(providers.TypeApp, "Failed to remove old backup %s: %s", entry.Name(), err)
			}
		}
	}
	return nil
}
