package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/careagent/internal/constants"
	"github.com/julianstephens/careagent/internal/models"
	"github.com/julianstephens/careagent/internal/tui/components/logs"
	"github.com/julianstephens/careagent/internal/tui/components/routine"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		listHeight := msg.Height - v - 4
		m.routineModel.SetSize(msg.Width-h, listHeight)
		m.logsModel.SetSize(msg.Width-h, listHeight)
		m.alertsModel.SetSize(msg.Width-h, listHeight)
		return m, nil
	}

	switch msg := msg.(type) {
	case refreshMsg:
		m.refresh()
		return m, m.tick()
	case logSubmittedMsg:
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.status = submissionStatus(msg.sub.Entry)
		if msg.sub.Degraded != nil {
			m.status += " (AI classification unavailable)"
		}
		m.refresh()
		return m, nil
	case routine.AddTaskMsg:
		m.taskForm = &TaskFormModel{}
		m.form = NewTaskForm(m.taskForm)
		m.state = StateAddTask
		return m, m.form.Init()
	case routine.ToggleTaskMsg:
		if _, err := m.svc.ToggleTask(msg.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.refresh()
		return m, nil
	case routine.DeleteTaskMsg:
		if err := m.svc.DeleteTask(msg.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.refresh()
		return m, nil
	case logs.AddLogMsg:
		m.logForm = &LogFormModel{Author: constants.DefaultLogAuthor}
		m.form = NewLogForm(m.logForm)
		m.state = StateAddLog
		return m, m.form.Init()
	case logs.DeleteLogMsg:
		if err := m.svc.DeleteLog(msg.ID); err != nil {
			m.fail(err)
			return m, nil
		}
		m.refresh()
		return m, nil
	}

	if m.state == StateAddLog || m.state == StateAddTask {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateRoutine:
		m.routineModel, cmd = m.routineModel.Update(msg)
	case StateLogs:
		m.logsModel, cmd = m.logsModel.Update(msg)
	case StateAlerts:
		m.alertsModel, cmd = m.alertsModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	back := StateRoutine
	if m.state == StateAddLog {
		back = StateLogs
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = back
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = back
		if back == StateLogs {
			submit := m.submitLog(m.logForm.Author, m.logForm.Text)
			return m, tea.Batch(cmd, submit)
		}
		task, err := m.svc.AddRoutineTask(m.taskForm.Name, m.taskForm.Time)
		if err != nil {
			m.fail(err)
			return m, cmd
		}
		m.status = fmt.Sprintf("Added %s at %s", task.Task, task.ScheduledTime)
		m.refresh()
	case huh.StateAborted:
		m.state = back
	}
	return m, cmd
}

// submitLog classifies and stores an observation off the update loop.
func (m *Model) submitLog(author, text string) tea.Cmd {
	m.status = "Classifying observation..."
	advisor := m.advisor
	return func() tea.Msg {
		if advisor == nil {
			return logSubmittedMsg{err: fmt.Errorf("advisory service is not configured")}
		}
		svc, err := advisor()
		if err != nil {
			return logSubmittedMsg{err: err}
		}
		sub, err := svc.SubmitLog(context.Background(), author, text)
		return logSubmittedMsg{sub: sub, err: err}
	}
}

func submissionStatus(e models.LogEntry) string {
	return fmt.Sprintf("Logged as %s/%s: %s",
		e.CategoryOr(models.CategoryGeneral),
		e.SeverityOr(models.SeverityLow),
		strings.TrimSpace(e.OriginalText))
}
