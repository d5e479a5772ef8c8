package logs

import (
	"fmt"

	"github.com/julianstephens/careagent/internal/cli"
	"github.com/julianstephens/careagent/internal/constants"
	"github.com/julianstephens/careagent/internal/models"
)

type LogsCmd struct {
	Add    AddCmd    `cmd:"" help:"Record a caregiver observation and classify it."`
	List   ListCmd   `cmd:"" default:"withargs" help:"List recent observations."`
	Delete DeleteCmd `cmd:"" help:"Delete an observation."`
}

type AddCmd struct {
	Text   []string `arg:"" help:"Observation text."`
	Author string   `help:"Who recorded the observation." default:"Caregiver"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.CareWithAdvisory()
	if err != nil {
		return err
	}

	sub, err := svc.SubmitLog(ctx.Context(), c.Author, cli.JoinArgs(c.Text))
	if err != nil {
		return err
	}
	ctx.WarnAdvisory(sub.Degraded)

	e := sub.Entry
	sev := e.SeverityOr(models.SeverityLow)
	ctx.Printf("Logged #%d as %s / %s\n", e.ID, e.CategoryOr(models.CategoryGeneral), cli.SeverityStyle(sev).Render(string(sev)))
	if e.IsHighSeverity() {
		ctx.Println(cli.DangerStyle.Render("High severity entry recorded. Check alerts."))
	}
	return nil
}

type ListCmd struct {
	Limit int `help:"Number of entries to show." default:"10"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Care().RecentLogs(c.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.Println(cli.MutedStyle.Render(constants.EmptyHistoryText))
		return nil
	}

	ctx.Println(cli.HeaderStyle.Render("Recent Logs"))
	for _, e := range entries {
		sev := e.SeverityOr(models.SeverityLow)
		ctx.Printf("%4d  %s  %-9s %-8s %s\n",
			e.ID,
			e.Timestamp.Local().Format(constants.TimestampFormat),
			e.CategoryOr(models.CategoryGeneral),
			cli.SeverityStyle(sev).Render(fmt.Sprintf("%-6s", sev)),
			cli.Truncate(e.OriginalText, 60),
		)
	}
	return nil
}

type DeleteCmd struct {
	ID int64 `arg:"" help:"Log entry id."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Care().DeleteLog(c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted log #%d\n", c.ID)
	return nil
}
