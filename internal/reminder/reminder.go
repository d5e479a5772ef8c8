// Package reminder derives alerts and the alarm trigger set from stored care
// state. Nothing here reads or writes storage.
package reminder

import (
	"fmt"
	"time"

	"github.com/julianstephens/careagent/internal/constants"
	"github.com/julianstephens/careagent/internal/models"
)

// Snapshot is the stored state an evaluation runs over.
type Snapshot struct {
	Tasks        []models.RoutineTask // today's tasks
	LatestHigh   *models.LogEntry     // newest High severity log, if any
	Appointments []models.Appointment
}

// Evaluate runs every rule against snap at now. Alerts are ordered missed
// tasks first, then the high severity log, then appointments.
func Evaluate(snap Snapshot, now time.Time) []models.Alert {
	var alerts []models.Alert
	alerts = append(alerts, MissedTasks(snap.Tasks, now)...)
	if alert, ok := HighSeverity(snap.LatestHigh, now); ok {
		alerts = append(alerts, alert)
	}
	alerts = append(alerts, AppointmentAlerts(snap.Appointments, now)...)
	return alerts
}

// MissedTasks flags incomplete tasks whose scheduled hour is more than one
// hour behind the current hour. The comparison is by hour bucket, so an 08:00
// task is first reported at 10:00. Tasks with unparseable times are skipped.
func MissedTasks(tasks []models.RoutineTask, now time.Time) []models.Alert {
	var alerts []models.Alert
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		hour, err := task.ScheduledHour()
		if err != nil {
			continue
		}
		if now.Hour() > hour+1 {
			alerts = append(alerts, models.Alert{
				Kind:    models.AlertMissedTask,
				Message: fmt.Sprintf("MISSED: %s (Scheduled: %s)", task.Task, task.ScheduledTime),
				Subject: task.Task,
				At:      task.ScheduledTime,
				RefID:   task.ID,
				Raised:  now,
			})
		}
	}
	return alerts
}

// HighSeverity surfaces latest as a standing alert. Only the newest High
// entry is ever reported.
func HighSeverity(latest *models.LogEntry, now time.Time) (models.Alert, bool) {
	if latest == nil || !latest.IsHighSeverity() {
		return models.Alert{}, false
	}
	stamp := latest.Timestamp.Local().Format(constants.TimestampFormat)
	return models.Alert{
		Kind:    models.AlertHighSeverity,
		Message: fmt.Sprintf("ALERT: %s (%s)", latest.OriginalText, stamp),
		Subject: latest.OriginalText,
		At:      stamp,
		RefID:   latest.ID,
		Raised:  now,
	}, true
}

// AppointmentAlerts reports appointments falling on the calendar day of now
// or the day after. Malformed dates are skipped without affecting the rest.
func AppointmentAlerts(appts []models.Appointment, now time.Time) []models.Alert {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	tomorrow := today.AddDate(0, 0, 1)

	var alerts []models.Alert
	for _, appt := range appts {
		date, err := appt.ParsedDate(loc)
		if err != nil {
			continue
		}

		var (
			kind models.AlertKind
			when string
		)
		switch {
		case date.Equal(today):
			kind, when = models.AlertAppointmentToday, "TODAY"
		case date.Equal(tomorrow):
			kind, when = models.AlertAppointmentTomorrow, "TOMORROW"
		default:
			continue
		}

		alerts = append(alerts, models.Alert{
			Kind:    kind,
			Message: fmt.Sprintf("REMINDER: Appointment with %s is %s!", appt.Doctor, when),
			Subject: appt.Doctor,
			At:      appt.Date,
			RefID:   appt.ID,
			Raised:  now,
		})
	}
	return alerts
}

// AlarmSchedule maps "HH:MM" to the task name for every incomplete task.
// Tasks are taken in the given order, so when two share a time the later
// one wins.
func AlarmSchedule(tasks []models.RoutineTask) map[string]string {
	schedule := make(map[string]string)
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		schedule[task.ScheduledTime] = task.Task
	}
	return schedule
}
