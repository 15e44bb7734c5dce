package ui

import (
	"fmt"

	"github.com/florishenkelman/gdpr-tool/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorMuted  = 245 // medium gray
	colorHigh   = 167 // red
	colorMedium = 179 // yellow
	colorOK     = 114 // green
)

var noColor bool

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return colorize(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return colorize(colorMuted, s)
}

// RenderStatus returns the status colored by its state: open in blue,
// in progress in yellow, closed in gray.
func RenderStatus(s model.TaskStatus) string {
	switch s {
	case model.StatusOpen:
		return colorize(colorAccent, s.String())
	case model.StatusInProgress:
		return colorize(colorMedium, s.String())
	case model.StatusClosed:
		return colorize(colorMuted, s.String())
	}
	return s.String()
}

// RenderPriority returns the priority colored by urgency: high in red,
// medium in yellow, low in gray.
func RenderPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return colorize(colorHigh, p.String())
	case model.PriorityMedium:
		return colorize(colorMedium, p.String())
	case model.PriorityLow:
		return colorize(colorMuted, p.String())
	}
	return p.String()
}

// RenderOverdue returns s highlighted as an overdue marker.
func RenderOverdue(s string) string {
	return colorize(colorHigh, s)
}

// RenderOK returns s in green.
func RenderOK(s string) string {
	return colorize(colorOK, s)
}

func colorize(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
