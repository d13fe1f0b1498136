package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, 20, s.DisplayLimit)
	assert.True(t, s.AutoRecord)
	assert.False(t, s.PushEnabled)
	assert.Equal(t, "09:00", s.PushSpec)
	require.NoError(t, s.Validate())
}

func TestSettingsValidate_DisplayLimitBounds(t *testing.T) {
	s := DefaultSettings()
	s.DisplayLimit = 0
	assert.Error(t, s.Validate())

	s.DisplayLimit = 101
	assert.Error(t, s.Validate())

	s.DisplayLimit = 100
	assert.NoError(t, s.Validate())
}

func TestSettingsValidate_PushWindow(t *testing.T) {
	s := DefaultSettings()
	s.PushWindow = "hourly"
	assert.Error(t, s.Validate())

	s.PushWindow = "weekly"
	assert.NoError(t, s.Validate())
}

func TestSettingsPushRankType(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, RankDaily, s.PushRankType())

	s.PushWindow = "monthly"
	assert.Equal(t, RankMonthly, s.PushRankType())

	s.PushWindow = "bogus"
	assert.Equal(t, RankDaily, s.PushRankType())
}

func TestSettingsJSONTags(t *testing.T) {
	data, err := json.Marshal(DefaultSettings())
	require.NoError(t, err)
	for _, key := range []string{"display_limit", "send_image", "auto_record", "push_enabled", "push_spec", "push_window"} {
		assert.Contains(t, string(data), key)
	}
}
