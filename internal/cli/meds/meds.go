package meds

import (
	"fmt"

	"github.com/julianstephens/careagent/internal/cli"
)

type MedsCmd struct {
	Add    AddCmd    `cmd:"" help:"Add a medication to the cabinet."`
	List   ListCmd   `cmd:"" default:"withargs" help:"List the medicine cabinet."`
	Delete DeleteCmd `cmd:"" help:"Remove a medication."`
	Check  CheckCmd  `cmd:"" help:"Check the cabinet for drug interactions."`
	Food   FoodCmd   `cmd:"" help:"Check a food against the cabinet."`
}

type AddCmd struct {
	Name    string `arg:"" help:"Medication name."`
	Dosage  string `help:"Dosage, e.g. 10mg." required:""`
	Time    string `help:"When it is taken, free text." default:""`
	Purpose string `help:"What it is for." default:""`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	med, err := ctx.Care().AddMedication(c.Name, c.Dosage, c.Time, c.Purpose)
	if err != nil {
		return err
	}
	ctx.Printf("Added %s (%s) as #%d\n", med.Name, med.Dosage, med.ID)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	meds, err := ctx.Care().Medications()
	if err != nil {
		return err
	}
	if len(meds) == 0 {
		ctx.Println(cli.MutedStyle.Render("Medicine cabinet is empty."))
		return nil
	}

	ctx.Println(cli.HeaderStyle.Render("Medicine Cabinet"))
	for _, m := range meds {
		ctx.Printf("%4d  %-20s %-10s %-15s %s\n", m.ID, m.Name, m.Dosage, m.Time, cli.MutedStyle.Render(m.Purpose))
	}
	return nil
}

type DeleteCmd struct {
	ID int64 `arg:"" help:"Medication id."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Care().DeleteMedication(c.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted medication #%d\n", c.ID)
	return nil
}

type CheckCmd struct{}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.CareWithAdvisory()
	if err != nil {
		return err
	}
	report, err := svc.CheckDrugInteractions(ctx.Context())
	if err != nil {
		return err
	}
	if report.Err != nil {
		ctx.WarnAdvisory(report.Err)
		return nil
	}

	if report.Safe {
		ctx.Println(cli.SuccessStyle.Render("✓ No known interactions found."))
	} else {
		ctx.Println(cli.DangerStyle.Render("❌ Potential interactions detected:"))
	}
	for _, w := range report.Warnings {
		ctx.Println(cli.WarningStyle.Render(fmt.Sprintf("  - %s", w)))
	}
	if report.Recommendation != "" {
		ctx.Printf("\n%s\n", report.Recommendation)
	}
	return nil
}

type FoodCmd struct {
	Food []string `arg:"" help:"Food or drink to check."`
}

func (c *FoodCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.CareWithAdvisory()
	if err != nil {
		return err
	}
	result, err := svc.CheckFoodInteraction(ctx.Context(), cli.JoinArgs(c.Food))
	if err != nil {
		return err
	}
	if result.Err != nil {
		ctx.WarnAdvisory(result.Err)
		return nil
	}

	if result.Safe {
		ctx.Println(cli.SuccessStyle.Render("✓ Safe to eat."))
	} else {
		ctx.Println(cli.DangerStyle.Render("❌ Avoid: " + result.Warning))
	}
	if result.Advice != "" {
		ctx.Println(result.Advice)
	}
	return nil
}
