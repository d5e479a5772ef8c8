package alerts

import (
	"github.com/julianstephens/careagent/internal/cli"
)

// AlertsCmd evaluates missed tasks, the latest high-severity log and
// upcoming appointments.
type AlertsCmd struct{}

func (c *AlertsCmd) Run(ctx *cli.Context) error {
	alerts, err := ctx.Care().Alerts()
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		ctx.Println(cli.SuccessStyle.Render("✓ No alerts."))
		return nil
	}
	for _, a := range alerts {
		ctx.Println(cli.AlertStyle(a.Kind).Render(a.Message))
	}
	return nil
}
