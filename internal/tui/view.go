package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/cosmic/internal/fusion"
)

// View implements tea.Model.
func (m AppModel) View() string {
	if m.Width == 0 {
		return "initializing..."
	}

	footer := Footer{Width: m.Width, Bindings: ListFooterBindings(m.Keys)}
	if m.Focus == FocusSliders {
		footer.Bindings = SliderFooterBindings(m.Keys)
	}

	status := m.renderStatus()
	foot := footer.View()
	bodyHeight := max(m.Height-lipgloss.Height(status)-lipgloss.Height(foot), 3)

	list := renderList(m.rows(), m.Cursor, bodyHeight)
	detail := m.renderDetailPane()

	var body string
	if m.Width < CompactWidth {
		body = lipgloss.JoinVertical(lipgloss.Left, detail, list)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", detail)
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, body, foot)
}

func (m AppModel) renderStatus() string {
	conflicts := len(m.Workspace.Conflicts())
	line := styleStatusLabel.Render("COSMIC") +
		fmt.Sprintf("  records %d  ", m.Workspace.Len()) +
		styleStatusConflict.Render(fmt.Sprintf("conflicts %d", conflicts))
	if m.ConflictsOnly {
		line += "  [conflicts only]"
	}
	return styleStatusBar.Width(m.Width).Render(line)
}

func (m AppModel) renderDetailPane() string {
	border := styleDetailBorder
	if m.Focus == FocusSliders {
		border = styleDetailBorderFocused
	}
	rec, ok := m.selected()
	if !ok {
		return border.Render(styleDetailDim.Render("nothing selected"))
	}
	res, err := fusion.ResolveCurrent(rec)
	if err != nil {
		return border.Render(styleError.Render(err.Error()))
	}
	content := renderDetail(rec, res, m.Slider, m.MaxWeight)
	if m.Err != nil {
		content += "\n" + styleError.Render(m.Err.Error())
	}
	return border.Render(content)
}
