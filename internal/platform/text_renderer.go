package platform

import (
	"fmt"
	"strings"

	"msd/internal/models"
)

var medals = []string{"🥇", "🥈", "🥉"}

// TextRenderer formats a leaderboard as a plain text message with medal
// markers for the top three.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Render(rank *models.RankData, highlightUserID string) (*Artifact, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s\n", rank.Title)
	if len(rank.Entries) == 0 {
		b.WriteString("No messages recorded yet.\n")
		return &Artifact{Text: b.String()}, nil
	}
	for i, entry := range rank.Entries {
		marker := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			marker = medals[i]
		}
		fmt.Fprintf(&b, "%s %s: %d messages (%.1f%%)", marker, entry.Nickname, entry.Count, entry.Percent)
		if highlightUserID != "" && entry.UserID == highlightUserID {
			b.WriteString(" ← you")
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nTotal: %d messages · %s", rank.TotalMessages, rank.GeneratedAt.Format("2006-01-02 15:04"))
	return &Artifact{Text: b.String()}, nil
}
