package platform

import "msd/internal/models"

// Artifact is a rendered leaderboard, ready for delivery. ImagePath is empty
// when the rendering produced text only.
type Artifact struct {
	Text      string `json:"text"`
	ImagePath string `json:"image_path,omitempty"`
}

// MemberResolver looks up display names on the chat platform.
type MemberResolver interface {
	MemberName(groupID, userID string) (string, error)
}

// Renderer turns rank data into a deliverable artifact. highlightUserID marks
// the requesting user's own row when non-empty.
type Renderer interface {
	Render(rank *models.RankData, highlightUserID string) (*Artifact, error)
}

// Delivery pushes an artifact to a platform route.
type Delivery interface {
	Send(route string, artifact *Artifact) error
}

// NoopResolver is used when no platform connection is configured. Name
// lookups fail so callers fall back to synthetic names.
type NoopResolver struct{}

func (NoopResolver) MemberName(groupID, userID string) (string, error) {
	return "", nil
}
