// Package tui is the interactive caregiver dashboard.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/careagent/internal/care"
	"github.com/julianstephens/careagent/internal/constants"
	"github.com/julianstephens/careagent/internal/logger"
	"github.com/julianstephens/careagent/internal/tui/components/alerts"
	"github.com/julianstephens/careagent/internal/tui/components/logs"
	"github.com/julianstephens/careagent/internal/tui/components/routine"
)

type SessionState int

const (
	StateRoutine SessionState = iota
	StateLogs
	StateAlerts
	StateAddLog
	StateAddTask
)

var tabTitles = []string{"Routine", "Logs", "Alerts"}

// Advisor returns a service with the advisory gateway attached.
type Advisor func() (*care.Service, error)

type Model struct {
	svc      *care.Service
	advisor  Advisor
	interval time.Duration

	state        SessionState
	keys         KeyMap
	help         help.Model
	routineModel routine.Model
	logsModel    logs.Model
	alertsModel  alerts.Model
	form         *huh.Form
	logForm      *LogFormModel
	taskForm     *TaskFormModel

	status   string
	errMsg   string
	quitting bool
	width    int
	height   int
}

type refreshMsg struct{}

type logSubmittedMsg struct {
	sub care.Submission
	err error
}

func NewModel(svc *care.Service, advisor Advisor) Model {
	m := Model{
		svc:          svc,
		advisor:      advisor,
		interval:     constants.DefaultAlarmPollInterval,
		state:        StateRoutine,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		routineModel: routine.New(nil, 0, 0),
		logsModel:    logs.New(nil, 0, 0),
		alertsModel:  alerts.New(nil, 0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads every view from the store and re-evaluates alerts.
func (m *Model) refresh() {
	m.errMsg = ""
	entries, err := m.svc.Routine()
	if err != nil {
		m.fail(err)
		return
	}
	m.routineModel.SetEntries(entries)

	logEntries, err := m.svc.RecentLogs(constants.InsightHistoryLimit)
	if err != nil {
		m.fail(err)
		return
	}
	m.logsModel.SetEntries(logEntries)

	alertList, err := m.svc.Alerts()
	if err != nil {
		m.fail(err)
		return
	}
	m.alertsModel.SetAlerts(alertList)
}

func (m *Model) fail(err error) {
	logger.Error("Dashboard operation failed", "error", err)
	m.errMsg = err.Error()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Refresh, m.keys.Quit, m.keys.Help},
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}
