package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/careagent/internal/care"
	"github.com/julianstephens/careagent/internal/cli"
	"github.com/julianstephens/careagent/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	p := tea.NewProgram(tui.NewModel(ctx.Care(), func() (*care.Service, error) {
		return ctx.CareWithAdvisory()
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
