package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/jose-valero/pitchduel-bot/internal/squad"
)

func formatPlayer(p *squad.Player) string {
	if p == nil {
		return "_empty_"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s (%d)", p.Name, p.Emoji(), p.Rating))
}

// humanize elapsed time
func humanSince(t time.Time) string {
	if t.IsZero() {
		return "just now"
	}
	d := time.Since(t)
	if d < time.Minute {
		return "seconds ago"
	}
	if d < time.Hour {
		return fmt.Sprintf("%d min ago", int(d.Minutes()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if m == 0 {
		return fmt.Sprintf("%dh ago", h)
	}
	return fmt.Sprintf("%dh %dm ago", h, m)
}

// fallback for blank names
func safe(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return "—"
	}
	return t
}
