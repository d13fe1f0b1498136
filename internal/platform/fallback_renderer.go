package platform

import (
	"msd/internal/models"
	"msd/internal/providers"
)

// FallbackRenderer tries a primary renderer first and degrades to the text
// renderer when it fails. A push never dies on a rendering problem alone.
type FallbackRenderer struct {
	primary  Renderer
	fallback Renderer
	logger   providers.Logger
}

func NewFallbackRenderer(primary, fallback Renderer, logger providers.Logger) *FallbackRenderer {
	return &FallbackRenderer{primary: primary, fallback: fallback, logger: logger}
}

// NewPushRenderer assembles the renderer chain used for pushes and the text
// rank endpoint. The text renderer fills both arms until a richer renderer
// takes the primary slot.
func NewPushRenderer(text *TextRenderer, logger providers.Logger) Renderer {
	return NewFallbackRenderer(text, text, logger)
}

func (r *FallbackRenderer) Render(rank *models.RankData, highlightUserID string) (*Artifact, error) {
	artifact, err := r.primary.Render(rank, highlightUserID)
	if err == nil {
		return artifact, nil
	}
	r.logger.Warnf(providers.TypeApp, "Primary renderer failed for group %s, falling back to text: %s", rank.GroupID, err)
	return r.fallback.Render(rank, highlightUserID)
}
