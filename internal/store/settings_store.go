package store

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"msd/internal/models"
	"msd/internal/providers"
	"msd/internal/structures"
)

const (
	settingsFileName = "config.json"
	settingsCacheKey = "settings"
)

type SettingsStoreInterface interface {
	Load() (*models.PluginSettings, error)
	Save(settings *models.PluginSettings) error
}

// SettingsStore persists the single PluginSettings document. Reads go through
// the short-TTL settings cache; a save invalidates it so changes propagate
// within one request.
type SettingsStore struct {
	path   string
	cache  providers.SettingsCache
	logger providers.Logger
}

func NewSettingsStore(conf *structures.Config, cache providers.SettingsCache, logger providers.Logger) (*SettingsStore, error) {
	if err := os.MkdirAll(conf.Data.Dir, 0o755); err != nil {
		return nil, err
	}
	return &SettingsStore{
		path:   filepath.Join(conf.Data.Dir, settingsFileName),
		cache:  cache,
		logger: logger,
	}, nil
}

// Load returns the stored settings, or defaults when the file is absent or
// unreadable. Corruption degrades to defaults, it never propagates.
func (ss *SettingsStore) Load() (*models.PluginSettings, error) {
	if data, ok := ss.cache.Get(settingsCacheKey); ok {
		var settings models.PluginSettings
		if err := json.Unmarshal(data, &settings); err == nil {
			return &settings, nil
		}
		ss.cache.Del(settingsCacheKey)
	}

	data, err := os.ReadFile(ss.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.DefaultSettings(), nil
		}
		return nil, err
	}

	var settings models.PluginSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		ss.logger.Warnf(providers.TypeApp, "Settings file unreadable, using defaults: %s", err)
		return models.DefaultSettings(), nil
	}

	ss.cache.Set(settingsCacheKey, data)
	return &settings, nil
}

func (ss *SettingsStore) Save(settings *models.PluginSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(ss.path, data); err != nil {
		return err
	}
	ss.cache.Del(settingsCacheKey)
	return nil
}
