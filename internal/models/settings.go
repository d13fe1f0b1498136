package models

import (
	"fmt"

	"github.com/gookit/validate"
)

// PluginSettings is the per-installation configuration document. It changes
// at runtime through the API, unlike structures.Config which is fixed at
// deploy time.
type PluginSettings struct {
	DisplayLimit int      `json:"display_limit" validate:"required|int|min:1|max:100"`
	SendImage    bool     `json:"send_image"`
	AutoRecord   bool     `json:"auto_record"`
	PushEnabled  bool     `json:"push_enabled"`
	PushSpec     string   `json:"push_spec" validate:"required"`
	PushTargets  []string `json:"push_targets"`
	PushWindow   string   `json:"push_window" validate:"required"`
}

func DefaultSettings() *PluginSettings {
	return &PluginSettings{
		DisplayLimit: 20,
		SendImage:    true,
		AutoRecord:   true,
		PushEnabled:  false,
		PushSpec:     "09:00",
		PushTargets:  nil,
		PushWindow:   string(RankDaily),
	}
}

func (s *PluginSettings) Validate() error {
	v := validate.Struct(s)
	if !v.Validate() {
		return v.Errors.OneError()
	}
	if _, err := ParseRankType(s.PushWindow); err != nil {
		return fmt.Errorf("invalid push window: %w", err)
	}
	return nil
}

// PushRankType resolves the configured scheduler window, falling back to the
// daily window when the stored value is unusable.
func (s *PluginSettings) PushRankType() RankType {
	rt, err := ParseRankType(s.PushWindow)
	if err != nil {
		return RankDaily
	}
	return rt
}
