package profile

import (
	"github.com/julianstephens/careagent/internal/cli"
)

type ProfileCmd struct {
	Show ShowCmd `cmd:"" default:"withargs" help:"Show the patient profile."`
	Set  SetCmd  `cmd:"" help:"Update the patient profile."`
}

type ShowCmd struct{}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	p, err := ctx.Care().Profile()
	if err != nil {
		return err
	}
	ctx.Println(cli.HeaderStyle.Render("Patient Profile"))
	ctx.Printf("Age:        %s\n", p.Age)
	ctx.Printf("Conditions: %s\n", p.Conditions)
	return nil
}

type SetCmd struct {
	Age        string `help:"Patient age." required:""`
	Conditions string `help:"Comma-separated chronic conditions." required:""`
}

func (c *SetCmd) Run(ctx *cli.Context) error {
	if err := ctx.Care().UpdateProfile(c.Age, c.Conditions); err != nil {
		return err
	}
	ctx.Println(cli.SuccessStyle.Render("✓ Profile updated"))
	return nil
}
