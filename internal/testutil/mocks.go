package testutil

import (
	"sync"

	"msd/internal/models"
	"msd/internal/platform"
	"msd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLog reports whether a log entry of the given level was recorded.
func (m *MockLogger) HasLog(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

// MockCache implements providers.CacheProviderInterface on a plain map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
}

// MockSettingsStore satisfies store.SettingsStoreInterface.
type MockSettingsStore struct {
	mu       sync.Mutex
	Settings *models.PluginSettings
	LoadErr  error
	SaveErr  error
	Saves    int
}

func (m *MockSettingsStore) Load() (*models.PluginSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Settings == nil {
		return models.DefaultSettings(), nil
	}
	return m.Settings, nil
}

func (m *MockSettingsStore) Save(settings *models.PluginSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Settings = settings
	m.Saves++
	return nil
}

// MockResolver implements platform.MemberResolver from a fixed name table
// keyed by "group:user".
type MockResolver struct {
	Names map[string]string
	Err   error
}

func (m *MockResolver) MemberName(groupID, userID string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Names[groupID+":"+userID], nil
}

// MockDelivery implements platform.Delivery and records sends.
type MockDelivery struct {
	mu    sync.Mutex
	Sends []DeliveryCall
	Err   error
}

type DeliveryCall struct {
	Route    string
	Artifact *platform.Artifact
}

func (m *MockDelivery) Send(route string, artifact *platform.Artifact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sends = append(m.Sends, DeliveryCall{Route: route, Artifact: artifact})
	return nil
}

func (m *MockDelivery) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sends)
}

// MockRenderer implements platform.Renderer.
type MockRenderer struct {
	Err error
}

func (m *MockRenderer) Render(rank *models.RankData, highlightUserID string) (*platform.Artifact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &platform.Artifact{Text: rank.Title}, nil
}
