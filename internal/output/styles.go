package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	ColorDelegated = lipgloss.Color("#04B575") // green
	ColorFallback  = lipgloss.Color("#FFB800") // yellow
	ColorInvalid   = lipgloss.Color("#FF4040") // red
	ColorAccent    = lipgloss.Color("#00BFFF") // cyan
	ColorMuted     = lipgloss.Color("#666666")
	ColorLabel     = lipgloss.Color("#AAAAAA")
)

func box(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

// Box styles, one per plan verdict
var (
	BoxStyle          = box(ColorAccent)
	DelegatedBoxStyle = box(ColorDelegated)
	FallbackBoxStyle  = box(ColorFallback)
	InvalidBoxStyle   = box(ColorInvalid)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorLabel).Width(18)
	ValueStyle = lipgloss.NewStyle()

	DelegatedText = lipgloss.NewStyle().Foreground(ColorDelegated).Bold(true)
	WarningText   = lipgloss.NewStyle().Foreground(ColorFallback).Bold(true)
	InvalidText   = lipgloss.NewStyle().Foreground(ColorInvalid).Bold(true)
	MutedText     = lipgloss.NewStyle().Foreground(ColorMuted)

	// pt-online-schema-change command lines
	CommandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E0E0E0"))
)

// Indicators
const (
	IconDelegated = "✅"
	IconWarning   = "⚠"
	IconInvalid   = "❌"
	IconDirect    = "ℹ"
)
