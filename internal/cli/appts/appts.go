package appts

import (
	"github.com/julianstephens/careagent/internal/cli"
)

type ApptsCmd struct {
	Add    AddCmd    `cmd:"" help:"Schedule an appointment."`
	List   ListCmd   `cmd:"" default:"withargs" help:"List appointments by date."`
	Delete DeleteCmd `cmd:"" help:"Delete an appointment."`
}

type AddCmd struct {
	Date    string `arg:"" help:"Date in YYYY-MM-DD format."`
	Doctor  string `arg:"" help:"Doctor name."`
	Purpose string `help:"Reason for the visit." default:""`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	appt, err := ctx.Care().AddAppointment(c.Date, c.Doctor, c.Purpose)
	if err != nil {
		return err
	}
	ctx.Printf("Scheduled %s with %s as #%d\n", appt.Date, appt.Doctor, appt.ID)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	appts, err := ctx.Care().Appointments()
	if err != nil {
		return err
	}
	if len(appts) == 0 {
		ctx.Println(cli.MutedStyle.Render("No appointments scheduled."))
		return nil
	}

	ctx.Println(cli.HeaderStyle.Render("Appointments"))
	for _, a := range appts {
		ctx.Printf("%4d  %s  %-20s %s\n", a.ID, a.Date, a.Doctor, cli.MutedStyle.Render(a.Purpose))
	}
	return nil
}

type DeleteCmd struct {
	ID int64 `arg:"" help:"Appointment id."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Care().DeleteAppointment(c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted appointment #%d\n", c.ID)
	return nil
}
