package storage

import (
	"errors"

	"github.com/julianstephens/careagent/internal/models"
)

// ErrNotFound is wrapped by the StorageError returned when a row id does not exist.
var ErrNotFound = errors.New("record not found")

// Provider is the persistent store for the five care record kinds. Every
// method is one atomic unit against a single row unless documented otherwise.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Logs, newest first
	AddLog(models.LogEntry) (models.LogEntry, error)
	GetLog(id int64) (models.LogEntry, error)
	GetRecentLogs(limit int) ([]models.LogEntry, error)
	// GetLatestLogWithSeverity returns the highest-id entry classified with sev.
	// The boolean is false when no such entry exists.
	GetLatestLogWithSeverity(sev models.Severity) (models.LogEntry, bool, error)
	DeleteLog(id int64) error

	// Medications, in insertion order
	AddMedication(models.Medication) (models.Medication, error)
	GetAllMedications() ([]models.Medication, error)
	DeleteMedication(id int64) error

	// Appointments, by date ascending
	AddAppointment(models.Appointment) (models.Appointment, error)
	GetAllAppointments() ([]models.Appointment, error)
	DeleteAppointment(id int64) error

	// Routine tasks, scoped to one date, by id ascending
	CountRoutineTasks(date string) (int, error)
	// SeedRoutineTasks inserts tasks for date only when the date has no rows.
	// Count and inserts share one transaction. Reports whether rows were inserted.
	SeedRoutineTasks(date string, tasks []models.RoutineTask) (bool, error)
	AddRoutineTask(models.RoutineTask) (models.RoutineTask, error)
	GetRoutineTask(id int64) (models.RoutineTask, error)
	GetRoutineTasks(date string) ([]models.RoutineTask, error)
	UpdateRoutineTaskTime(id int64, scheduledTime string) error
	SetRoutineTaskCompleted(id int64, completed bool) error
	DeleteRoutineTask(id int64) error

	// Patient profile singleton
	GetProfile() (models.PatientProfile, error)
	UpdateProfile(models.PatientProfile) error

	// Utils
	GetConfigPath() string
}
