package care

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/careagent/internal/advisory"
	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/models"
	"github.com/julianstephens/careagent/internal/storage/sqlite"
)

// scriptedCompleter answers every request with the same reply.
type scriptedCompleter struct {
	text    string
	err     error
	prompts []string
}

func (c *scriptedCompleter) Complete(ctx context.Context, req advisory.Request) (string, error) {
	c.prompts = append(c.prompts, req.Prompt)
	return c.text, c.err
}

func setupService(t *testing.T, completer advisory.Completer, now string) (*Service, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "care.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ts, err := time.ParseInLocation("2006-01-02 15:04", now, time.Local)
	if err != nil {
		t.Fatalf("bad clock value: %v", err)
	}

	var gateway *advisory.Gateway
	if completer != nil {
		gateway = advisory.New(completer, advisory.WithRetryBackoff(0))
	}
	return New(store, gateway, WithClock(func() time.Time { return ts })), store
}

func TestSubmitLogClassifies(t *testing.T) {
	completer := &scriptedCompleter{text: `{"category": "Incident", "severity": "High"}`}
	svc, _ := setupService(t, completer, "2026-04-10 09:00")

	sub, err := svc.SubmitLog(context.Background(), "Nurse", "Mom fell in the hallway")
	if err != nil {
		t.Fatalf("SubmitLog failed: %v", err)
	}
	if sub.Degraded != nil {
		t.Errorf("unexpected degradation: %v", sub.Degraded)
	}
	if sub.Entry.CategoryOr("") != models.CategoryIncident || !sub.Entry.IsHighSeverity() {
		t.Errorf("unexpected classification: %+v", sub.Entry)
	}
	if !strings.Contains(completer.prompts[0], "Mom fell in the hallway") {
		t.Errorf("prompt does not contain log text: %q", completer.prompts[0])
	}

	alerts, err := svc.Alerts()
	if err != nil {
		t.Fatalf("Alerts failed: %v", err)
	}
	found := false
	for _, a := range alerts {
		if a.Kind == models.AlertHighSeverity && a.RefID == sub.Entry.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("expected high severity alert for submitted log, got %+v", alerts)
	}
}

func TestSubmitLogDegradesWhenModelFails(t *testing.T) {
	completer := &scriptedCompleter{err: errors.New("provider unreachable")}
	svc, store := setupService(t, completer, "2026-04-10 09:00")

	sub, err := svc.SubmitLog(context.Background(), "", "Ate half of dinner")
	if err != nil {
		t.Fatalf("SubmitLog must not fail on advisory errors: %v", err)
	}
	if sub.Degraded == nil {
		t.Error("expected the degradation reason to be reported")
	}

	stored, err := store.GetLog(sub.Entry.ID)
	if err != nil {
		t.Fatalf("log was not persisted: %v", err)
	}
	if stored.CategoryOr("") != models.CategoryGeneral || stored.SeverityOr("") != models.SeverityLow {
		t.Errorf("expected General/Low defaults, got %+v", stored)
	}
	if stored.Author != "Caregiver" {
		t.Errorf("expected default author, got %q", stored.Author)
	}
}

func TestSubmitLogValidation(t *testing.T) {
	svc, _ := setupService(t, &scriptedCompleter{text: "{}"}, "2026-04-10 09:00")
	if _, err := svc.SubmitLog(context.Background(), "Son", "   "); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}

	noGateway, _ := setupService(t, nil, "2026-04-10 09:00")
	_, err := noGateway.SubmitLog(context.Background(), "Son", "Walked to the park")
	var cfgErr *apperrors.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError without a gateway, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	svc, store := setupService(t, nil, "2026-04-10 09:00")

	history, err := svc.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if history != "No logs available." {
		t.Errorf("unexpected empty history %q", history)
	}

	for i := 0; i < 25; i++ {
		text := "entry"
		if i == 24 {
			text = "newest"
		}
		if _, err := store.AddLog(models.LogEntry{OriginalText: text}); err != nil {
			t.Fatalf("AddLog failed: %v", err)
		}
	}

	history, err = svc.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	lines := strings.Split(history, "\n")
	if len(lines) != 20 {
		t.Errorf("expected 20 history lines, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "newest") {
		t.Errorf("expected newest entry first, got %q", lines[0])
	}
}

func TestMedicationChecks(t *testing.T) {
	completer := &scriptedCompleter{text: `{"safe": true, "warnings": [], "recommendation": "Fine", "warning": "", "advice": "Enjoy"}`}
	svc, _ := setupService(t, completer, "2026-04-10 09:00")
	ctx := context.Background()

	if _, err := svc.CheckDrugInteractions(ctx); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError for empty cabinet, got %v", err)
	}
	if _, err := svc.CheckFoodInteraction(ctx, "Grapefruit"); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError for empty cabinet, got %v", err)
	}

	if _, err := svc.AddMedication("", "5mg", "", ""); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError for unnamed medication, got %v", err)
	}
	if _, err := svc.AddMedication("Warfarin", "5mg", "Evening", ""); err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}

	report, err := svc.CheckDrugInteractions(ctx)
	if err != nil {
		t.Fatalf("CheckDrugInteractions failed: %v", err)
	}
	if !report.Safe || report.Recommendation != "Fine" {
		t.Errorf("unexpected report: %+v", report)
	}

	if _, err := svc.CheckFoodInteraction(ctx, " "); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError for empty food, got %v", err)
	}
	food, err := svc.CheckFoodInteraction(ctx, "Spinach")
	if err != nil {
		t.Fatalf("CheckFoodInteraction failed: %v", err)
	}
	if !food.Safe || food.Advice != "Enjoy" {
		t.Errorf("unexpected food result: %+v", food)
	}
	if !strings.Contains(completer.prompts[len(completer.prompts)-1], "['Warfarin']") {
		t.Errorf("food prompt missing medication list: %q", completer.prompts[len(completer.prompts)-1])
	}
}

func TestAppointments(t *testing.T) {
	svc, _ := setupService(t, nil, "2026-04-10 09:00")

	if _, err := svc.AddAppointment("04/11/2026", "Dr. Lee", "Checkup"); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError for non-ISO date, got %v", err)
	}
	if _, err := svc.AddAppointment("2026-04-11", "Dr. Lee", "Checkup"); err != nil {
		t.Fatalf("AddAppointment failed: %v", err)
	}
	if _, err := svc.AddAppointment("2026-04-10", "Dr. Patel", "Bloods"); err != nil {
		t.Fatalf("AddAppointment failed: %v", err)
	}

	appts, err := svc.Appointments()
	if err != nil {
		t.Fatalf("Appointments failed: %v", err)
	}
	if len(appts) != 2 || appts[0].Doctor != "Dr. Patel" {
		t.Errorf("expected date order, got %+v", appts)
	}

	alerts, err := svc.Alerts()
	if err != nil {
		t.Fatalf("Alerts failed: %v", err)
	}
	var kinds []models.AlertKind
	for _, a := range alerts {
		kinds = append(kinds, a.Kind)
	}
	if len(kinds) != 2 || kinds[0] != models.AlertAppointmentToday || kinds[1] != models.AlertAppointmentTomorrow {
		t.Errorf("unexpected alerts: %v", kinds)
	}

	if err := svc.DeleteAppointment(appts[0].ID); err != nil {
		t.Fatalf("DeleteAppointment failed: %v", err)
	}
}

func TestRoutineAndAlarms(t *testing.T) {
	svc, _ := setupService(t, nil, "2026-04-10 10:30")

	entries, err := svc.Routine()
	if err != nil {
		t.Fatalf("Routine failed: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("expected 6 seeded tasks, got %d", len(entries))
	}

	// At 10:30 Breakfast (08:00) is missed; Morning Meds (09:00) is not yet.
	alerts, err := svc.Alerts()
	if err != nil {
		t.Fatalf("Alerts failed: %v", err)
	}
	if len(alerts) != 1 || alerts[0].Subject != "Breakfast" {
		t.Errorf("expected only Breakfast missed, got %+v", alerts)
	}

	if err := svc.SetTaskCompleted(entries[0].ID, true); err != nil {
		t.Fatalf("SetTaskCompleted failed: %v", err)
	}
	alarms, err := svc.AlarmSchedule()
	if err != nil {
		t.Fatalf("AlarmSchedule failed: %v", err)
	}
	if _, ok := alarms["08:00"]; ok {
		t.Error("completed task should not have an alarm")
	}
	if alarms["21:00"] != "Night Meds" {
		t.Errorf("unexpected alarm mapping: %v", alarms)
	}

	task, err := svc.AddRoutineTask("Eye drops", "21:00")
	if err != nil {
		t.Fatalf("AddRoutineTask failed: %v", err)
	}
	alarms, _ = svc.AlarmSchedule()
	if alarms["21:00"] != "Eye drops" {
		t.Errorf("expected later task to own 21:00, got %q", alarms["21:00"])
	}

	if err := svc.RescheduleTask(task.ID, "21:30"); err != nil {
		t.Fatalf("RescheduleTask failed: %v", err)
	}
	if done, err := svc.ToggleTask(task.ID); err != nil || !done {
		t.Fatalf("ToggleTask: done=%v err=%v", done, err)
	}
	if err := svc.DeleteTask(task.ID); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if _, err := svc.AddRoutineTask("Nap", "after lunch"); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestProfile(t *testing.T) {
	svc, _ := setupService(t, nil, "2026-04-10 09:00")

	profile, err := svc.Profile()
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile.Age != "75" {
		t.Errorf("expected default age, got %q", profile.Age)
	}

	if err := svc.UpdateProfile("", "Diabetes"); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	if err := svc.UpdateProfile("80", "Diabetes"); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	profile, _ = svc.Profile()
	if profile.Age != "80" || profile.Conditions != "Diabetes" {
		t.Errorf("profile not updated: %+v", profile)
	}
}

func TestTriageUsesProfileAndMedications(t *testing.T) {
	completer := &scriptedCompleter{text: `{"triage_level": "Emergency - Call 911", "analysis": "a", "action_plan": "b", "disclaimer": "c"}`}
	svc, _ := setupService(t, completer, "2026-04-10 09:00")
	ctx := context.Background()

	if _, err := svc.TriageSymptoms(ctx, ""); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}

	report, err := svc.TriageSymptoms(ctx, "Chest pain")
	if err != nil {
		t.Fatalf("TriageSymptoms failed: %v", err)
	}
	if report.Level != advisory.TriageEmergency {
		t.Errorf("expected emergency, got %s", report.Level)
	}
	prompt := completer.prompts[0]
	for _, want := range []string{"Age: 75", "Hypertension, Arthritis", "No medications listed", `"Chest pain"`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("triage prompt missing %q", want)
		}
	}
}

func TestInsightsAndDecode(t *testing.T) {
	completer := &scriptedCompleter{text: `{"concern_detected": false}`}
	svc, _ := setupService(t, completer, "2026-04-10 09:00")
	ctx := context.Background()

	patterns, err := svc.DetectPatterns(ctx)
	if err != nil {
		t.Fatalf("DetectPatterns failed: %v", err)
	}
	if patterns.ConcernDetected {
		t.Error("expected no concern")
	}
	if !strings.Contains(completer.prompts[0], "No logs available.") {
		t.Errorf("expected empty history placeholder in prompt: %q", completer.prompts[0])
	}

	if _, err := svc.DecodeReport(ctx, ""); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	decoded, err := svc.DecodeReport(ctx, "Creatinine: 1.4")
	if err != nil {
		t.Fatalf("DecodeReport failed: %v", err)
	}
	if decoded.Err != nil || decoded.Text == "" {
		t.Errorf("unexpected decode result: %+v", decoded)
	}

	summary, err := svc.FamilySummary(ctx)
	if err != nil {
		t.Fatalf("FamilySummary failed: %v", err)
	}
	if summary.Err != nil {
		t.Errorf("unexpected summary error: %v", summary.Err)
	}
}
