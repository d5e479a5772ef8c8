package system

import (
	"fmt"
	"strings"

	"github.com/julianstephens/careagent/internal/cli"
	"github.com/julianstephens/careagent/internal/validation"
)

// ValidateCmd reports stored data that alerts and alarms would skip or
// mis-handle.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	result, err := validateAll(ctx)
	if err != nil {
		return err
	}

	if !result.HasConflicts() {
		ctx.Println(cli.SuccessStyle.Render("✓ No conflicts detected."))
		return nil
	}
	ctx.Printf("%s\n", cli.WarningStyle.Render(strings.TrimRight(result.FormatReport(), "\n")))
	return fmt.Errorf("%d conflict(s) found", len(result.Conflicts))
}

func validateAll(ctx *cli.Context) (validation.ValidationResult, error) {
	svc := ctx.Care()
	sched := svc.Scheduler()
	if _, err := sched.EnsureToday(); err != nil {
		return validation.ValidationResult{}, err
	}

	tasks, err := ctx.Store.GetRoutineTasks(sched.Today())
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to read routine: %w", err)
	}
	appts, err := svc.Appointments()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to read appointments: %w", err)
	}
	meds, err := svc.Medications()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to read medications: %w", err)
	}

	v := validation.New()
	result := v.ValidateRoutine(tasks)
	result.Merge(v.ValidateAppointments(appts))
	result.Merge(v.ValidateMedications(meds))
	return result, nil
}
