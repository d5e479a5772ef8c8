package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/careagent/internal/constants"
)

// TaskStatus is derived for display and never stored.
type TaskStatus string

const (
	StatusDone     TaskStatus = "Done"
	StatusOverdue  TaskStatus = "Overdue"
	StatusUpcoming TaskStatus = "Upcoming"
)

// RoutineTask is a checklist item scoped to exactly one calendar day.
// Identity is the row id; duplicate task names on one date are allowed.
type RoutineTask struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`           // YYYY-MM-DD format
	Task          string `json:"task"`           // display name
	ScheduledTime string `json:"scheduled_time"` // HH:MM format
	Completed     bool   `json:"completed"`
}

func (r *RoutineTask) Validate() error {
	if r.Task == "" {
		return fmt.Errorf("task name cannot be empty")
	}
	if _, err := time.Parse(constants.DateFormat, r.Date); err != nil {
		return fmt.Errorf("invalid date format (expected YYYY-MM-DD): %w", err)
	}
	if _, err := time.Parse(constants.TimeFormat, r.ScheduledTime); err != nil {
		return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	return nil
}

// ScheduledMinutes returns the scheduled time as minutes past midnight.
func (r *RoutineTask) ScheduledMinutes() (int, error) {
	t, err := time.Parse(constants.TimeFormat, r.ScheduledTime)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ScheduledHour returns the hour component of the scheduled time.
func (r *RoutineTask) ScheduledHour() (int, error) {
	m, err := r.ScheduledMinutes()
	if err != nil {
		return 0, err
	}
	return m / 60, nil
}

// Status derives the display status at now. A task is overdue once the
// current time-of-day, including seconds, is strictly after its scheduled
// time. Tasks whose time cannot be parsed are reported as upcoming.
func (r *RoutineTask) Status(now time.Time) TaskStatus {
	if r.Completed {
		return StatusDone
	}
	scheduled, err := r.ScheduledMinutes()
	if err != nil {
		return StatusUpcoming
	}
	current := now.Hour()*3600 + now.Minute()*60 + now.Second()
	if current > scheduled*60 {
		return StatusOverdue
	}
	return StatusUpcoming
}
