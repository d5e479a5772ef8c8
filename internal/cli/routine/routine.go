package routine

import (
	"sort"

	"github.com/julianstephens/careagent/internal/cli"
)

type RoutineCmd struct {
	List       ListCmd       `cmd:"" default:"withargs" help:"Show today's routine."`
	Add        AddCmd        `cmd:"" help:"Add a task to today's routine."`
	Reschedule RescheduleCmd `cmd:"" help:"Move a task to a new time."`
	Done       DoneCmd       `cmd:"" help:"Mark a task completed."`
	Undo       UndoCmd       `cmd:"" help:"Mark a task not completed."`
	Toggle     ToggleCmd     `cmd:"" help:"Flip a task's completion."`
	Delete     DeleteCmd     `cmd:"" help:"Remove a task from today."`
	Alarms     AlarmsCmd     `cmd:"" help:"Show the alarm times for incomplete tasks."`
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	svc := ctx.Care()
	entries, err := svc.Routine()
	if err != nil {
		return err
	}

	ctx.Println(cli.HeaderStyle.Render("Routine for " + svc.Scheduler().Today()))
	if len(entries) == 0 {
		ctx.Println(cli.MutedStyle.Render("No tasks for today."))
		return nil
	}
	for _, e := range entries {
		box := "[ ]"
		if e.Completed {
			box = "[x]"
		}
		ctx.Printf("%4d  %s %s  %-20s %s\n", e.ID, box, e.ScheduledTime, e.Task,
			cli.StatusStyle(e.Status).Render(string(e.Status)))
	}
	return nil
}

type AddCmd struct {
	Time string   `arg:"" help:"Scheduled time in HH:MM format."`
	Name []string `arg:"" help:"Task name."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Care().AddRoutineTask(cli.JoinArgs(c.Name), c.Time)
	if err != nil {
		return err
	}
	ctx.Printf("Added %s at %s as #%d\n", task.Task, task.ScheduledTime, task.ID)
	return nil
}

type RescheduleCmd struct {
	ID   int64  `arg:"" help:"Task id."`
	Time string `arg:"" help:"New time in HH:MM format."`
}

func (c *RescheduleCmd) Run(ctx *cli.Context) error {
	if err := ctx.Care().RescheduleTask(c.ID, c.Time); err != nil {
		return err
	}
	ctx.Printf("Rescheduled task #%d\n", c.ID)
	return nil
}

type DoneCmd struct {
	ID int64 `arg:"" help:"Task id."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	if err := ctx.Care().SetTaskCompleted(c.ID, true); err != nil {
		return err
	}
	ctx.Println(cli.SuccessStyle.Render("✓ Task completed"))
	return nil
}

type UndoCmd struct {
	ID int64 `arg:"" help:"Task id."`
}

func (c *UndoCmd) Run(ctx *cli.Context) error {
	if err := ctx.Care().SetTaskCompleted(c.ID, false); err != nil {
		return err
	}
	ctx.Printf("Task #%d marked not completed\n", c.ID)
	return nil
}

type ToggleCmd struct {
	ID int64 `arg:"" help:"Task id."`
}

func (c *ToggleCmd) Run(ctx *cli.Context) error {
	done, err := ctx.Care().ToggleTask(c.ID)
	if err != nil {
		return err
	}
	if done {
		ctx.Println(cli.SuccessStyle.Render("✓ Task completed"))
	} else {
		ctx.Printf("Task #%d marked not completed\n", c.ID)
	}
	return nil
}

type DeleteCmd struct {
	ID int64 `arg:"" help:"Task id."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Care().DeleteTask(c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted task #%d\n", c.ID)
	return nil
}

type AlarmsCmd struct{}

func (c *AlarmsCmd) Run(ctx *cli.Context) error {
	schedule, err := ctx.Care().AlarmSchedule()
	if err != nil {
		return err
	}
	if len(schedule) == 0 {
		ctx.Println(cli.MutedStyle.Render("No alarms pending."))
		return nil
	}

	times := make([]string, 0, len(schedule))
	for at := range schedule {
		times = append(times, at)
	}
	sort.Strings(times)
	for _, at := range times {
		ctx.Printf("%s  %s\n", at, schedule[at])
	}
	return nil
}
