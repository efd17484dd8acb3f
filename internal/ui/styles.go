// Package ui provides terminal UI components using Charm libraries.
//
// This package contains the styling and message helpers shared by every pwrun
// command.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. Each color has a variant for light and dark terminal backgrounds.
var (
	// Brand is the Playwright green used for headings.
	Brand = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#45BA4B"}

	Accent  = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	Danger  = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	Caution = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	Muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	Text    = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"}
)

// Text styles.
var (
	// TitleStyle for headings and command names in help
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(Brand)

	// SuccessStyle for success messages
	SuccessStyle = lipgloss.NewStyle().Bold(true).Foreground(Brand)

	// ErrorStyle for error messages
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(Danger)

	WarningStyle = lipgloss.NewStyle().Foreground(Caution)
	InfoStyle    = lipgloss.NewStyle().Foreground(Text)
	DimStyle     = lipgloss.NewStyle().Foreground(Muted)
	AccentStyle  = lipgloss.NewStyle().Foreground(Accent)

	// CodeStyle for command lines shown to the user
	CodeStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
)

// Table styles.
var (
	TableHeaderStyle = lipgloss.NewStyle().Foreground(Muted).Bold(true)
	TableCellStyle   = lipgloss.NewStyle()
)
