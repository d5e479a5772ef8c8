package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/careagent/internal/scheduler"
)

type LogFormModel struct {
	Author string
	Text   string
}

type TaskFormModel struct {
	Name string
	Time string
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}
		return nil
	}
}

// NewLogForm creates the caregiver observation form.
func NewLogForm(fm *LogFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Author").
				Value(&fm.Author),
			huh.NewText().
				Title("What happened?").
				Value(&fm.Text).
				Validate(notBlank("observation")),
		),
	)
}

// NewTaskForm creates the form for adding a task to today's routine.
func NewTaskForm(fm *TaskFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Value(&fm.Name).
				Validate(notBlank("task name")),
			huh.NewInput().
				Title("Time (HH:MM)").
				Value(&fm.Time).
				Validate(func(s string) error {
					_, err := scheduler.NormalizeTime(s)
					return err
				}),
		),
	)
}
