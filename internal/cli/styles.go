package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/careagent/internal/advisory"
	"github.com/julianstephens/careagent/internal/models"
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	DangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Italic(true)
)

// StatusStyle colours a routine task status.
func StatusStyle(status models.TaskStatus) lipgloss.Style {
	switch status {
	case models.StatusDone:
		return SuccessStyle
	case models.StatusOverdue:
		return DangerStyle
	default:
		return WarningStyle
	}
}

// AlertStyle colours an alert by the rule that raised it.
func AlertStyle(kind models.AlertKind) lipgloss.Style {
	switch kind {
	case models.AlertHighSeverity:
		return DangerStyle
	default:
		return WarningStyle
	}
}

// SeverityStyle colours a log severity label.
func SeverityStyle(sev models.Severity) lipgloss.Style {
	switch sev {
	case models.SeverityHigh:
		return DangerStyle
	case models.SeverityMedium:
		return WarningStyle
	default:
		return SuccessStyle
	}
}

// TriageStyle colours a triage level.
func TriageStyle(level advisory.TriageLevel) lipgloss.Style {
	switch level {
	case advisory.TriageEmergency:
		return DangerStyle
	case advisory.TriageUrgent:
		return WarningStyle
	case advisory.TriageNonUrgent:
		return SuccessStyle
	default:
		return MutedStyle
	}
}
