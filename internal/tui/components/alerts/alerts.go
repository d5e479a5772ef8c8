package alerts

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/careagent/internal/models"
)

type Item struct {
	Alert models.Alert
}

func (i Item) Title() string { return i.Alert.Message }

func (i Item) Description() string {
	return strings.ReplaceAll(string(i.Alert.Kind), "_", " ")
}

func (i Item) FilterValue() string { return i.Alert.Subject }

// Model is a read-only list of the alerts evaluated at the last refresh.
type Model struct {
	list list.Model
}

func New(alerts []models.Alert, width, height int) Model {
	l := list.New(items(alerts), list.NewDefaultDelegate(), width, height)
	l.Title = "Alerts"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("alert", "alerts")
	return Model{list: l}
}

func items(alerts []models.Alert) []list.Item {
	out := make([]list.Item, len(alerts))
	for i, a := range alerts {
		out[i] = Item{Alert: a}
	}
	return out
}

func (m *Model) SetAlerts(alerts []models.Alert) {
	m.list.SetItems(items(alerts))
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
