package history

import (
	"fmt"

	"github.com/fragmede/safechain/internal/cache"
	"github.com/fragmede/safechain/internal/render"
)

// CheckItem wraps a history record for the bubbles list.
type CheckItem struct {
	cache.CheckRecord
	Index int
}

func (c CheckItem) Title() string {
	return c.Strength
}

func (c CheckItem) Description() string {
	parts := []string{
		fmt.Sprintf("%d issues", c.Reasons),
		fmt.Sprintf("%d suggestions", c.Suggestions),
		render.TimeAgo(c.CheckedAt),
	}
	if c.Subject != "" {
		parts = append(parts, "as "+c.Subject)
	}

	desc := ""
	for i, p := range parts {
		if i > 0 {
			desc += " | "
		}
		desc += p
	}
	return desc
}

func (c CheckItem) FilterValue() string {
	return c.Strength + " " + c.Subject
}
