package sqlite

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/models"
	"github.com/julianstephens/careagent/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "care.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT count(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return count
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "care.db")

	for i := 0; i < 3; i++ {
		store := NewStore(path)
		if err := store.Init(); err != nil {
			t.Fatalf("Init() run %d failed: %v", i+1, err)
		}
		if got := countRows(t, store.GetDB(), "patient_profile"); got != 1 {
			t.Errorf("run %d: expected exactly 1 profile row, got %d", i+1, got)
		}
		store.Close()
	}
}

func TestInitCreatesTables(t *testing.T) {
	store := setupTestStore(t)

	for _, table := range []string{"logs", "medications", "appointments", "routines", "patient_profile", "schema_version"} {
		exists, err := store.tableExists(table)
		if err != nil {
			t.Fatalf("tableExists(%s) returned unexpected error: %v", table, err)
		}
		if !exists {
			t.Errorf("tableExists(%s) = false, want true after Init", table)
		}
	}
}

func TestInitDefaultProfile(t *testing.T) {
	store := setupTestStore(t)

	profile, err := store.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.Age != "75" || profile.Conditions != "Hypertension, Arthritis" {
		t.Errorf("unexpected default profile: %+v", profile)
	}

	if err := store.UpdateProfile(models.PatientProfile{Age: "82", Conditions: "COPD"}); err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	// Re-initialising must not reset an edited profile
	if err := store.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	profile, err = store.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.Age != "82" || profile.Conditions != "COPD" {
		t.Errorf("profile changed by Init: %+v", profile)
	}
	if got := countRows(t, store.GetDB(), "patient_profile"); got != 1 {
		t.Errorf("expected 1 profile row, got %d", got)
	}
}

func TestInitEvolvesLegacySchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "care.db")

	// Tables as written by the first release: no optional columns, no schema_version.
	legacy, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open legacy db: %v", err)
	}
	stmts := []string{
		`CREATE TABLE logs (id INTEGER PRIMARY KEY AUTOINCREMENT, timestamp DATETIME DEFAULT CURRENT_TIMESTAMP, original_text TEXT)`,
		`CREATE TABLE medications (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, dosage TEXT)`,
		`INSERT INTO logs (timestamp, original_text) VALUES ('2026-01-05 09:30:00', 'Slept well')`,
		`INSERT INTO medications (name, dosage) VALUES ('Warfarin', '5mg')`,
	}
	for _, stmt := range stmts {
		if _, err := legacy.Exec(stmt); err != nil {
			t.Fatalf("legacy setup %q failed: %v", stmt, err)
		}
	}
	legacy.Close()

	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init on legacy database failed: %v", err)
	}
	defer store.Close()

	logs, err := store.GetRecentLogs(0)
	if err != nil {
		t.Fatalf("GetRecentLogs failed: %v", err)
	}
	if len(logs) != 1 || logs[0].OriginalText != "Slept well" {
		t.Fatalf("legacy log lost: %+v", logs)
	}
	if logs[0].Category != nil || logs[0].Severity != nil {
		t.Errorf("legacy log should be unclassified, got %+v", logs[0])
	}
	want := time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC)
	if !logs[0].Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", logs[0].Timestamp, want)
	}

	meds, err := store.GetAllMedications()
	if err != nil {
		t.Fatalf("GetAllMedications failed: %v", err)
	}
	if len(meds) != 1 || meds[0].Name != "Warfarin" || meds[0].Time != "" {
		t.Errorf("legacy medication lost or altered: %+v", meds)
	}

	// New columns are usable
	if _, err := store.AddMedication(models.Medication{Name: "Aspirin", Dosage: "81mg", Time: "Morning", Purpose: "Heart"}); err != nil {
		t.Fatalf("AddMedication after evolution failed: %v", err)
	}
}

func TestLoadPreparesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "care.db")

	legacy, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open legacy db: %v", err)
	}
	if _, err := legacy.Exec(`CREATE TABLE medications (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, dosage TEXT)`); err != nil {
		t.Fatalf("legacy setup failed: %v", err)
	}
	legacy.Close()

	store := NewStore(path)
	if err := store.Load(); err != nil {
		t.Fatalf("Load on legacy database failed: %v", err)
	}
	defer store.Close()

	if _, err := store.AddMedication(models.Medication{Name: "Aspirin", Dosage: "81mg", Time: "Morning"}); err != nil {
		t.Fatalf("optional columns missing after Load: %v", err)
	}
	if countRows(t, store.db, "routines") != 0 {
		t.Error("routines table should exist and be empty")
	}
	profile, err := store.GetProfile()
	if err != nil {
		t.Fatalf("GetProfile after Load failed: %v", err)
	}
	if profile.Age != models.DefaultProfile().Age {
		t.Errorf("expected default profile, got %+v", profile)
	}
}

func TestLoadRestoresProfileRow(t *testing.T) {
	store := setupTestStore(t)
	if _, err := store.db.Exec("DELETE FROM patient_profile"); err != nil {
		t.Fatalf("failed to delete profile: %v", err)
	}
	store.Close()

	if err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if countRows(t, store.db, "patient_profile") != 1 {
		t.Error("expected Load to recreate the profile singleton")
	}
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil {
		t.Fatal("expected error loading uninitialized store")
	}
	if !apperrors.IsStorage(err) {
		t.Errorf("expected StorageError, got %T", err)
	}
}

func TestLogCRUD(t *testing.T) {
	store := setupTestStore(t)

	high := models.SeverityHigh
	incident := models.CategoryIncident
	low := models.SeverityLow

	first, err := store.AddLog(models.LogEntry{Author: "Nurse", OriginalText: "Mom fell in the hallway", Category: &incident, Severity: &high})
	if err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	second, err := store.AddLog(models.LogEntry{Author: "Son", OriginalText: "Ate all of lunch", Severity: &low})
	if err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("expected monotonic ids, got %d then %d", first.ID, second.ID)
	}

	logs, err := store.GetRecentLogs(10)
	if err != nil {
		t.Fatalf("GetRecentLogs failed: %v", err)
	}
	if len(logs) != 2 || logs[0].ID != second.ID || logs[1].ID != first.ID {
		t.Fatalf("expected logs newest first, got %+v", logs)
	}
	if logs[1].CategoryOr("") != models.CategoryIncident || !logs[1].IsHighSeverity() {
		t.Errorf("classification not persisted: %+v", logs[1])
	}

	limited, err := store.GetRecentLogs(1)
	if err != nil {
		t.Fatalf("GetRecentLogs(1) failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 log, got %d", len(limited))
	}

	latest, ok, err := store.GetLatestLogWithSeverity(models.SeverityHigh)
	if err != nil || !ok {
		t.Fatalf("GetLatestLogWithSeverity failed: ok=%v err=%v", ok, err)
	}
	if latest.ID != first.ID {
		t.Errorf("expected latest high log %d, got %d", first.ID, latest.ID)
	}

	if err := store.DeleteLog(first.ID); err != nil {
		t.Fatalf("DeleteLog failed: %v", err)
	}
	if _, ok, _ := store.GetLatestLogWithSeverity(models.SeverityHigh); ok {
		t.Error("expected no high severity log after delete")
	}

	err = store.DeleteLog(first.ID)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := store.GetLog(first.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound from GetLog, got %v", err)
	}
}

func TestAddLogRequiresText(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.AddLog(models.LogEntry{Author: "Nurse", OriginalText: "   "})
	if !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestMedicationRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	if _, err := store.AddMedication(models.Medication{Name: "Lisinopril", Dosage: "10mg", Time: "8:00 AM"}); err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}
	before, err := store.GetAllMedications()
	if err != nil {
		t.Fatalf("GetAllMedications failed: %v", err)
	}

	added, err := store.AddMedication(models.Medication{Name: "Warfarin", Dosage: "5mg", Time: "Evening"})
	if err != nil {
		t.Fatalf("AddMedication failed: %v", err)
	}
	during, _ := store.GetAllMedications()
	if len(during) != len(before)+1 {
		t.Fatalf("expected %d medications, got %d", len(before)+1, len(during))
	}

	if err := store.DeleteMedication(added.ID); err != nil {
		t.Fatalf("DeleteMedication failed: %v", err)
	}
	after, _ := store.GetAllMedications()
	if len(after) != len(before) {
		t.Fatalf("expected %d medications after delete, got %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("medication %d changed: %+v -> %+v", i, before[i], after[i])
		}
	}
}

func TestAppointmentsOrderedByDate(t *testing.T) {
	store := setupTestStore(t)

	for _, appt := range []models.Appointment{
		{Date: "2026-05-10", Doctor: "Dr. Patel", Purpose: "Cardiology"},
		{Date: "2026-04-01", Doctor: "Dr. Lee", Purpose: "Blood work"},
		{Date: "2026-04-20", Doctor: "Dr. Gomez", Purpose: "Eye exam"},
	} {
		if _, err := store.AddAppointment(appt); err != nil {
			t.Fatalf("AddAppointment failed: %v", err)
		}
	}

	appts, err := store.GetAllAppointments()
	if err != nil {
		t.Fatalf("GetAllAppointments failed: %v", err)
	}
	want := []string{"2026-04-01", "2026-04-20", "2026-05-10"}
	for i, w := range want {
		if appts[i].Date != w {
			t.Errorf("appointment %d date = %s, want %s", i, appts[i].Date, w)
		}
	}

	if err := store.DeleteAppointment(appts[0].ID); err != nil {
		t.Fatalf("DeleteAppointment failed: %v", err)
	}
	if err := store.DeleteAppointment(9999); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSeedRoutineTasksOncePerDate(t *testing.T) {
	store := setupTestStore(t)

	defaults := []models.RoutineTask{
		{Task: "Breakfast", ScheduledTime: "08:00"},
		{Task: "Lunch", ScheduledTime: "13:00"},
	}

	seeded, err := store.SeedRoutineTasks("2026-03-14", defaults)
	if err != nil || !seeded {
		t.Fatalf("first seed: seeded=%v err=%v", seeded, err)
	}
	seeded, err = store.SeedRoutineTasks("2026-03-14", defaults)
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if seeded {
		t.Error("second seed on same date should be a no-op")
	}

	count, err := store.CountRoutineTasks("2026-03-14")
	if err != nil {
		t.Fatalf("CountRoutineTasks failed: %v", err)
	}
	if count != len(defaults) {
		t.Errorf("expected %d tasks, got %d", len(defaults), count)
	}

	// Another date is independent
	if seeded, _ := store.SeedRoutineTasks("2026-03-15", defaults); !seeded {
		t.Error("expected seeding a new date to insert rows")
	}
}

func TestRoutineTaskMutations(t *testing.T) {
	store := setupTestStore(t)

	task, err := store.AddRoutineTask(models.RoutineTask{Date: "2026-03-14", Task: "Physiotherapy", ScheduledTime: "10:00"})
	if err != nil {
		t.Fatalf("AddRoutineTask failed: %v", err)
	}
	// Duplicate names are allowed
	dup, err := store.AddRoutineTask(models.RoutineTask{Date: "2026-03-14", Task: "Physiotherapy", ScheduledTime: "15:00"})
	if err != nil {
		t.Fatalf("AddRoutineTask duplicate failed: %v", err)
	}
	if dup.ID == task.ID {
		t.Error("duplicate task should get its own id")
	}

	if err := store.UpdateRoutineTaskTime(task.ID, "11:30"); err != nil {
		t.Fatalf("UpdateRoutineTaskTime failed: %v", err)
	}
	if err := store.SetRoutineTaskCompleted(task.ID, true); err != nil {
		t.Fatalf("SetRoutineTaskCompleted failed: %v", err)
	}

	got, err := store.GetRoutineTask(task.ID)
	if err != nil {
		t.Fatalf("GetRoutineTask failed: %v", err)
	}
	if got.ScheduledTime != "11:30" || !got.Completed {
		t.Errorf("unexpected task state: %+v", got)
	}

	other, _ := store.GetRoutineTask(dup.ID)
	if other.Completed || other.ScheduledTime != "15:00" {
		t.Errorf("mutation leaked to duplicate: %+v", other)
	}

	if err := store.DeleteRoutineTask(task.ID); err != nil {
		t.Fatalf("DeleteRoutineTask failed: %v", err)
	}
	tasks, _ := store.GetRoutineTasks("2026-03-14")
	if len(tasks) != 1 || tasks[0].ID != dup.ID {
		t.Errorf("unexpected tasks after delete: %+v", tasks)
	}

	if _, err := store.AddRoutineTask(models.RoutineTask{Date: "2026-03-14", Task: "Nap", ScheduledTime: "2pm"}); !apperrors.IsValidation(err) {
		t.Errorf("expected ValidationError for bad time, got %v", err)
	}
	if err := store.SetRoutineTaskCompleted(424242, true); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOperationsOnClosedStore(t *testing.T) {
	store := setupTestStore(t)
	db := store.GetDB()
	db.Close()

	_, err := store.GetAllMedications()
	if !apperrors.IsStorage(err) {
		t.Errorf("expected StorageError on closed database, got %v", err)
	}
}
