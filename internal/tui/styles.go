package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan: primary accent
	colorAccent      = lipgloss.Color("#FFD700") // Gold: conflict
	colorSuccess     = lipgloss.Color("#00E676") // Green: clean
	colorDanger      = lipgloss.Color("#FF5252") // Red: errors
	colorMuted       = lipgloss.Color("#636363") // Gray: de-emphasized
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray: normal text
	colorWhite       = lipgloss.Color("#EEEEEE") // Off-white: primary text
	colorBrightWhite = lipgloss.Color("#FFFFFF") // Pure white: emphatic text
	colorSurface     = lipgloss.Color("#1E1E2E") // Dark surface: status bar bg
	colorSurfaceDim  = lipgloss.Color("#181825") // Darkest surface: footer bg
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▎"

// Row and slider glyphs.
const (
	iconConflict = "⚠"
	iconClean    = "·"
	sliderFull   = "█"
	sliderEmpty  = "░"
)

// Status bar styles use a solid background.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleStatusConflict = lipgloss.NewStyle().
				Foreground(colorAccent)
)

// List row styles.
var (
	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorBrightWhite).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleRowConflict = lipgloss.NewStyle().
				Foreground(colorAccent)

	styleRowClean = lipgloss.NewStyle().
			Foreground(colorSuccess)

	// styleSelectionIndicator styles the left-edge indicator for the selected row.
	styleSelectionIndicator = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)
)

// Detail panel styles.
var (
	styleDetailBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1)

	styleDetailBorderFocused = styleDetailBorder.
					BorderForeground(colorPrimary)

	styleDetailTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleDetailDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFused = lipgloss.NewStyle().
			Foreground(colorBrightWhite).
			Bold(true)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)
)

// Slider styles.
var (
	styleSliderActive = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleSliderIdle = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)

// Footer styles.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurfaceDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)

// styleSpectral returns a style coloring text in a record's spectral color.
func styleSpectral(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
