package console

import "github.com/charmbracelet/lipgloss"

var (
	colorRed    = lipgloss.Color("#E06C75")
	colorGreen  = lipgloss.Color("#98C379")
	colorBlue   = lipgloss.Color("#61AFEF")
	colorMuted  = lipgloss.Color("#636B78")
	colorBorder = lipgloss.Color("#3F4451")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	failedCellStyle = cellStyle.
			Foreground(colorRed)
)
