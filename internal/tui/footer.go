package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// CompactWidth is the terminal width below which the layout stacks
// vertically and the footer drops its descriptions.
const CompactWidth = 60

// Footer renders context-sensitive keybinding hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders the footer as a single line of keybinding hints.
func (f Footer) View() string {
	compact := f.Width < CompactWidth

	var parts []string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		var part string
		if compact {
			part = styleFooterKey.Render(help.Key)
		} else {
			part = styleFooterKey.Render(help.Key) + styleFooterSep.Render(":") + styleFooterDesc.Render(help.Desc)
		}
		parts = append(parts, part)
	}
	sep := styleFooterSep.Render("  ")
	if compact {
		sep = styleFooterSep.Render(" ")
	}
	return styleFooter.Width(f.Width).Render(strings.Join(parts, sep))
}

// ListFooterBindings returns footer bindings while the record list has focus.
func ListFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Dec, km.Inc, km.DecCoarse, km.IncCoarse, km.Focus, km.Conflicts, km.Quit}
}

// SliderFooterBindings returns footer bindings while the sliders have focus.
func SliderFooterBindings(km KeyMap) []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Dec, km.Inc, km.DecCoarse, km.IncCoarse, km.Reset, km.Focus, km.Quit}
}
