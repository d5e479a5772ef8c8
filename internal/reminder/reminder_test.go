package reminder

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/careagent/internal/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 6, 15, hour, minute, 0, 0, time.Local)
}

func TestMissedTasksHourBucket(t *testing.T) {
	tasks := []models.RoutineTask{
		{ID: 1, Task: "Breakfast", ScheduledTime: "08:00"},
	}

	tests := []struct {
		name   string
		now    time.Time
		missed bool
	}{
		{"same hour", at(8, 30), false},
		{"next hour", at(9, 59), false},
		{"two hours later", at(10, 0), true},
		{"evening", at(21, 15), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := MissedTasks(tasks, tt.now)
			if got := len(alerts) == 1; got != tt.missed {
				t.Fatalf("missed = %v, want %v (%+v)", got, tt.missed, alerts)
			}
			if tt.missed {
				want := "MISSED: Breakfast (Scheduled: 08:00)"
				if alerts[0].Message != want {
					t.Errorf("message = %q, want %q", alerts[0].Message, want)
				}
				if alerts[0].Kind != models.AlertMissedTask || alerts[0].RefID != 1 {
					t.Errorf("unexpected alert: %+v", alerts[0])
				}
			}
		})
	}
}

func TestMissedTasksSkipsCompletedAndMalformed(t *testing.T) {
	tasks := []models.RoutineTask{
		{ID: 1, Task: "Breakfast", ScheduledTime: "08:00", Completed: true},
		{ID: 2, Task: "Broken", ScheduledTime: "eight"},
		{ID: 3, Task: "Morning Meds", ScheduledTime: "09:00"},
	}

	alerts := MissedTasks(tasks, at(12, 0))
	if len(alerts) != 1 || alerts[0].Subject != "Morning Meds" {
		t.Errorf("expected only Morning Meds, got %+v", alerts)
	}
}

func TestHighSeverity(t *testing.T) {
	high := models.SeverityHigh
	low := models.SeverityLow

	if _, ok := HighSeverity(nil, at(9, 0)); ok {
		t.Error("expected no alert without a log")
	}
	if _, ok := HighSeverity(&models.LogEntry{OriginalText: "fine", Severity: &low}, at(9, 0)); ok {
		t.Error("expected no alert for a Low log")
	}

	entry := &models.LogEntry{
		ID:           7,
		Timestamp:    time.Date(2026, 6, 15, 7, 45, 0, 0, time.Local),
		OriginalText: "Fell getting out of bed",
		Severity:     &high,
	}
	alert, ok := HighSeverity(entry, at(9, 0))
	if !ok {
		t.Fatal("expected an alert for a High log")
	}
	if alert.Kind != models.AlertHighSeverity || alert.RefID != 7 {
		t.Errorf("unexpected alert: %+v", alert)
	}
	if alert.Message != "ALERT: Fell getting out of bed (2026-06-15 07:45:00)" {
		t.Errorf("unexpected message %q", alert.Message)
	}
}

func TestAppointmentAlerts(t *testing.T) {
	appts := []models.Appointment{
		{ID: 1, Date: "2026-06-15", Doctor: "Dr. Lee"},
		{ID: 2, Date: "not-a-date", Doctor: "Dr. Broken"},
		{ID: 3, Date: "2026-06-16", Doctor: "Dr. Patel"},
		{ID: 4, Date: "2026-06-17", Doctor: "Dr. Later"},
		{ID: 5, Date: "2026-06-14", Doctor: "Dr. Past"},
	}

	alerts := AppointmentAlerts(appts, at(23, 59))
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d: %+v", len(alerts), alerts)
	}
	if alerts[0].Kind != models.AlertAppointmentToday || alerts[0].Message != "REMINDER: Appointment with Dr. Lee is TODAY!" {
		t.Errorf("unexpected today alert: %+v", alerts[0])
	}
	if alerts[1].Kind != models.AlertAppointmentTomorrow || alerts[1].Message != "REMINDER: Appointment with Dr. Patel is TOMORROW!" {
		t.Errorf("unexpected tomorrow alert: %+v", alerts[1])
	}
}

func TestAppointmentAlertsAcrossMonthEnd(t *testing.T) {
	now := time.Date(2026, 1, 31, 10, 0, 0, 0, time.Local)
	alerts := AppointmentAlerts([]models.Appointment{{Date: "2026-02-01", Doctor: "Dr. Ng"}}, now)
	if len(alerts) != 1 || alerts[0].Kind != models.AlertAppointmentTomorrow {
		t.Errorf("expected tomorrow alert across month end, got %+v", alerts)
	}
}

func TestEvaluateOrder(t *testing.T) {
	high := models.SeverityHigh
	snap := Snapshot{
		Tasks:        []models.RoutineTask{{ID: 1, Task: "Breakfast", ScheduledTime: "08:00"}},
		LatestHigh:   &models.LogEntry{ID: 3, OriginalText: "Chest pain", Severity: &high},
		Appointments: []models.Appointment{{ID: 2, Date: "2026-06-15", Doctor: "Dr. Lee"}},
	}

	alerts := Evaluate(snap, at(11, 0))
	want := []models.AlertKind{models.AlertMissedTask, models.AlertHighSeverity, models.AlertAppointmentToday}
	if len(alerts) != len(want) {
		t.Fatalf("expected %d alerts, got %+v", len(want), alerts)
	}
	for i, kind := range want {
		if alerts[i].Kind != kind {
			t.Errorf("alert %d kind = %s, want %s", i, alerts[i].Kind, kind)
		}
	}

	if got := Evaluate(Snapshot{}, at(11, 0)); len(got) != 0 {
		t.Errorf("expected no alerts for empty snapshot, got %+v", got)
	}
}

func TestAlarmSchedule(t *testing.T) {
	tasks := []models.RoutineTask{
		{ID: 1, Task: "Breakfast", ScheduledTime: "08:00", Completed: true},
		{ID: 2, Task: "Morning Meds", ScheduledTime: "09:00"},
		{ID: 3, Task: "Vitamins", ScheduledTime: "09:00"},
		{ID: 4, Task: "Lunch", ScheduledTime: "13:00"},
	}

	schedule := AlarmSchedule(tasks)
	if len(schedule) != 2 {
		t.Fatalf("expected 2 alarm times, got %v", schedule)
	}
	if _, ok := schedule["08:00"]; ok {
		t.Error("completed task must not be scheduled")
	}
	if schedule["09:00"] != "Vitamins" {
		t.Errorf("expected later task to win the 09:00 slot, got %q", schedule["09:00"])
	}
	if !strings.EqualFold(schedule["13:00"], "lunch") {
		t.Errorf("unexpected 13:00 entry %q", schedule["13:00"])
	}
}
