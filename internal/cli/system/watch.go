package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/careagent/internal/alarm"
	"github.com/julianstephens/careagent/internal/cli"
	"github.com/julianstephens/careagent/internal/notifier"
)

// WatchCmd polls today's routine and raises an alarm at each task's
// scheduled minute until interrupted.
type WatchCmd struct {
	TerminalOnly bool `help:"Skip the tray app and print alarms to the terminal."`
	Once         bool `help:"Poll once and exit."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	svc := ctx.Care()

	var n notifier.Notifier = notifier.NewTerminal(os.Stdout)
	if !c.TerminalOnly {
		n = notifier.Fallback{notifier.NewTray(), notifier.NewTerminal(os.Stdout)}
	}

	opts := []alarm.Option{}
	if ctx.Clock != nil {
		opts = append(opts, alarm.WithClock(ctx.Clock))
	}
	if ctx.Config != nil {
		opts = append(opts,
			alarm.WithInterval(ctx.Config.Alarm.PollInterval),
			alarm.WithDedupe(ctx.Config.Alarm.Dedupe),
		)
	}
	w := alarm.New(svc.AlarmSchedule, n, opts...)

	if c.Once {
		task, fired, err := w.Tick()
		if err != nil {
			return err
		}
		if !fired {
			ctx.Println(cli.MutedStyle.Render("No alarm due this minute."))
		} else {
			ctx.Printf("Fired alarm for %s\n", task)
		}
		return nil
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.Println(cli.InfoStyle.Render("Watching today's routine. Press Ctrl+C to stop."))
	return w.Run(runCtx)
}
