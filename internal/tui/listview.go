package tui

import (
	"fmt"
	"strings"

	"github.com/papapumpkin/cosmic/internal/catalog"
)

// renderList draws at most height rows, scrolled so the cursor is visible.
func renderList(rows []catalog.Record, cursor, height int) string {
	if len(rows) == 0 {
		return styleDetailDim.Render("  no records")
	}
	height = max(height, 1)
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(start+height, len(rows))

	var b strings.Builder
	for i := start; i < end; i++ {
		r := rows[i]
		icon := styleRowClean.Render(iconClean)
		if r.HasConflict {
			icon = styleRowConflict.Render(iconConflict)
		}
		class := styleSpectral(r.Color).Render(string(r.SpectralClass))
		text := fmt.Sprintf("%-9s %-18s", r.ID, clip(r.Name, 18))
		line := fmt.Sprintf("%s %s %s %8.1f ly", icon, text, class, r.DistanceLy)

		if i == cursor {
			b.WriteString(styleSelectionIndicator.Render(selectionIndicator))
			b.WriteString(styleRowSelected.Render(line))
		} else {
			b.WriteString(" ")
			b.WriteString(styleRowNormal.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
