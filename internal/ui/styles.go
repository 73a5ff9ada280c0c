package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	ColorCyan   = lipgloss.Color("45")  // pipeline steps
	ColorGreen  = lipgloss.Color("42")  // success
	ColorYellow = lipgloss.Color("220") // warnings / hints
	ColorRed    = lipgloss.Color("196") // errors
	ColorGray   = lipgloss.Color("240") // subdued detail

	StepStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	DetailStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	RefStyle = lipgloss.NewStyle().
			Bold(true)

	IconSuccess = "✅"
	IconError   = "❌"
	IconWarning = "⚠️ "
)
