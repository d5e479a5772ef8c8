package system

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/careagent/internal/cli"
	"github.com/julianstephens/careagent/internal/constants"
)

type DebugCmd struct {
	DBPath   DebugDBPathCmd   `cmd:"" name:"db-path" help:"Show database path."`
	DumpDay  DebugDumpDayCmd  `cmd:"" help:"Dump a day's routine as JSON."`
	DumpLogs DebugDumpLogsCmd `cmd:"" help:"Dump recent logs as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpDayCmd struct {
	Date string `arg:"" optional:"" help:"Date to dump (YYYY-MM-DD or 'today')." default:"today"`
}

func (cmd *DebugDumpDayCmd) Run(ctx *cli.Context) error {
	date := cmd.Date
	if date == "" || date == "today" {
		date = ctx.Care().Scheduler().Today()
	}
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD or 'today')", date)
	}

	tasks, err := ctx.Store.GetRoutineTasks(date)
	if err != nil {
		return fmt.Errorf("failed to get routine for %s: %w", date, err)
	}
	return printJSON(ctx, map[string]any{
		"date":  date,
		"tasks": tasks,
	})
}

type DebugDumpLogsCmd struct {
	Limit int `help:"Number of entries to dump." default:"20"`
}

func (cmd *DebugDumpLogsCmd) Run(ctx *cli.Context) error {
	logs, err := ctx.Store.GetRecentLogs(cmd.Limit)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}
	return printJSON(ctx, logs)
}

func printJSON(ctx *cli.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(data))
	return nil
}
