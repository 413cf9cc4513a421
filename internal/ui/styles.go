package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorSaffron = lipgloss.Color("#FF9933")
	ColorGold    = lipgloss.Color("#E6B422")
	ColorLotus   = lipgloss.Color("#C77DFF")
	ColorSky     = lipgloss.Color("#5FB3D9")
	ColorLeaf    = lipgloss.Color("#6BBF59")
	ColorRed     = lipgloss.Color("#E05252")
	ColorGray    = lipgloss.Color("#777777")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#F5F5F5")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSaffron)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ListeningDotStyle = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	LanguageStyle = lipgloss.NewStyle().
			Foreground(ColorSky)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	InterimTextStyle = lipgloss.NewStyle().
				Foreground(ColorGold).
				Italic(true)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	UserLabelStyle = lipgloss.NewStyle().
			Foreground(ColorSky).
			Bold(true)

	GuruLabelStyle = lipgloss.NewStyle().
			Foreground(ColorSaffron).
			Bold(true)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	PanelTitleActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorSaffron)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorSaffron).
			Bold(true)

	CurrentStyle = lipgloss.NewStyle().
			Foreground(ColorGold)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorGold).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorLotus).
			Padding(1, 4)

	PhaseInhaleStyle = lipgloss.NewStyle().
				Foreground(ColorSky).
				Bold(true)

	PhaseHoldStyle = lipgloss.NewStyle().
			Foreground(ColorLotus).
			Bold(true)

	PhaseExhaleStyle = lipgloss.NewStyle().
				Foreground(ColorLeaf).
				Bold(true)

	PhaseCompleteStyle = lipgloss.NewStyle().
				Foreground(ColorGold).
				Bold(true)

	CountdownStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)
)
