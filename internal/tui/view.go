package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateRoutine:
		content = docStyle.Render(m.routineModel.View())
	case StateLogs:
		content = docStyle.Render(m.logsModel.View())
	case StateAlerts:
		content = docStyle.Render(m.alertsModel.View())
	case StateAddLog, StateAddTask:
		content = docStyle.Render(m.form.View())
	}

	parts := []string{m.viewTabs(), content}
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render("Error: "+m.errMsg))
	} else if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if SessionState(i) == StateAlerts && m.alertsModel.Len() > 0 {
			title = fmt.Sprintf("%s (%d)", title, m.alertsModel.Len())
		}
		active := m.state == SessionState(i) ||
			(m.state == StateAddTask && i == int(StateRoutine)) ||
			(m.state == StateAddLog && i == int(StateLogs))
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
