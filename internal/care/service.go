// Package care exposes every caregiver interaction as one synchronous call
// over the store, the routine scheduler, the alert rules and the advisory
// gateway.
package care

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/careagent/internal/advisory"
	"github.com/julianstephens/careagent/internal/constants"
	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/logger"
	"github.com/julianstephens/careagent/internal/models"
	"github.com/julianstephens/careagent/internal/reminder"
	"github.com/julianstephens/careagent/internal/scheduler"
	"github.com/julianstephens/careagent/internal/storage"
)

type Service struct {
	store     storage.Provider
	gateway   *advisory.Gateway
	scheduler *scheduler.Scheduler
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now for the service and its scheduler.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New wires a service. gateway may be nil, in which case every advisory
// operation fails with a ConfigurationError.
func New(store storage.Provider, gateway *advisory.Gateway, opts ...Option) *Service {
	s := &Service{
		store:   store,
		gateway: gateway,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scheduler = scheduler.New(store, scheduler.WithClock(s.now))
	return s
}

// Scheduler exposes the routine scheduler bound to this service's clock.
func (s *Service) Scheduler() *scheduler.Scheduler {
	return s.scheduler
}

func (s *Service) requireGateway() error {
	if s.gateway == nil {
		return apperrors.Configuration("GROQ_API_KEY", "no API key configured for the advisory provider")
	}
	return nil
}

// Submission is a persisted log entry plus the reason its classification
// fell back to defaults, if it did.
type Submission struct {
	Entry    models.LogEntry
	Degraded *apperrors.AdvisoryError
}

// SubmitLog classifies text and stores it. A failed classification stores
// the entry as General/Low instead of failing the submission.
func (s *Service) SubmitLog(ctx context.Context, author, text string) (Submission, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Submission{}, apperrors.Validation("log text", "", "cannot be empty")
	}
	if err := s.requireGateway(); err != nil {
		return Submission{}, err
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = constants.DefaultLogAuthor
	}

	class := s.gateway.Classify(ctx, text)
	if class.Err != nil {
		logger.Warn("Classification degraded to defaults", "error", class.Err)
	}

	category, severity := class.Category, class.Severity
	entry, err := s.store.AddLog(models.LogEntry{
		Timestamp:    s.now(),
		Author:       author,
		OriginalText: text,
		Category:     &category,
		Severity:     &severity,
	})
	if err != nil {
		return Submission{}, err
	}

	logger.Info("Log submitted", "id", entry.ID, "category", category, "severity", severity)
	return Submission{Entry: entry, Degraded: class.Err}, nil
}

// RecentLogs returns the newest entries first. A non-positive limit uses the
// dashboard default.
func (s *Service) RecentLogs(limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = constants.RecentLogsLimit
	}
	return s.store.GetRecentLogs(limit)
}

func (s *Service) DeleteLog(id int64) error {
	return s.store.DeleteLog(id)
}

// History renders the recent log history fed to insight prompts, newest
// first.
func (s *Service) History() (string, error) {
	logs, err := s.store.GetRecentLogs(constants.InsightHistoryLimit)
	if err != nil {
		return "", err
	}
	if len(logs) == 0 {
		return constants.EmptyHistoryText, nil
	}

	var b strings.Builder
	for _, entry := range logs {
		fmt.Fprintf(&b, "%s  %s\n",
			entry.Timestamp.Local().Format(constants.TimestampFormat), entry.OriginalText)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (s *Service) AddMedication(name, dosage, schedule, purpose string) (models.Medication, error) {
	return s.store.AddMedication(models.Medication{
		Name:    strings.TrimSpace(name),
		Dosage:  strings.TrimSpace(dosage),
		Time:    strings.TrimSpace(schedule),
		Purpose: strings.TrimSpace(purpose),
	})
}

func (s *Service) Medications() ([]models.Medication, error) {
	return s.store.GetAllMedications()
}

func (s *Service) DeleteMedication(id int64) error {
	return s.store.DeleteMedication(id)
}

func (s *Service) medicationNames() ([]string, error) {
	meds, err := s.store.GetAllMedications()
	if err != nil {
		return nil, err
	}
	return models.MedicationNames(meds), nil
}

// CheckDrugInteractions asks the model about the whole medicine cabinet.
func (s *Service) CheckDrugInteractions(ctx context.Context) (advisory.DrugInteractionReport, error) {
	if err := s.requireGateway(); err != nil {
		return advisory.DrugInteractionReport{}, err
	}
	names, err := s.medicationNames()
	if err != nil {
		return advisory.DrugInteractionReport{}, err
	}
	if len(names) == 0 {
		return advisory.DrugInteractionReport{}, apperrors.Validation("medications", "", "cabinet is empty")
	}
	return s.gateway.CheckDrugInteractions(ctx, names), nil
}

func (s *Service) CheckFoodInteraction(ctx context.Context, food string) (advisory.FoodInteraction, error) {
	food = strings.TrimSpace(food)
	if food == "" {
		return advisory.FoodInteraction{}, apperrors.Validation("food item", "", "cannot be empty")
	}
	if err := s.requireGateway(); err != nil {
		return advisory.FoodInteraction{}, err
	}
	names, err := s.medicationNames()
	if err != nil {
		return advisory.FoodInteraction{}, err
	}
	if len(names) == 0 {
		return advisory.FoodInteraction{}, apperrors.Validation("medications", "", "cabinet is empty, add medicines first")
	}
	return s.gateway.CheckFoodInteraction(ctx, food, names), nil
}

// AddAppointment stores an appointment on an ISO calendar date.
func (s *Service) AddAppointment(date, doctor, purpose string) (models.Appointment, error) {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return models.Appointment{}, apperrors.Validation("appointment date", date, "expected YYYY-MM-DD")
	}
	return s.store.AddAppointment(models.Appointment{
		Date:    date,
		Doctor:  strings.TrimSpace(doctor),
		Purpose: strings.TrimSpace(purpose),
	})
}

func (s *Service) Appointments() ([]models.Appointment, error) {
	return s.store.GetAllAppointments()
}

func (s *Service) DeleteAppointment(id int64) error {
	return s.store.DeleteAppointment(id)
}

// Routine makes sure today is seeded and returns its tasks ordered by time.
func (s *Service) Routine() ([]scheduler.Entry, error) {
	return s.scheduler.TodayRoutine()
}

func (s *Service) AddRoutineTask(name, at string) (models.RoutineTask, error) {
	if _, err := s.scheduler.EnsureToday(); err != nil {
		return models.RoutineTask{}, err
	}
	return s.scheduler.AddTask(name, at)
}

func (s *Service) RescheduleTask(id int64, at string) error {
	return s.scheduler.Reschedule(id, at)
}

func (s *Service) SetTaskCompleted(id int64, completed bool) error {
	return s.scheduler.SetCompleted(id, completed)
}

func (s *Service) ToggleTask(id int64) (bool, error) {
	return s.scheduler.Toggle(id)
}

func (s *Service) DeleteTask(id int64) error {
	return s.scheduler.Remove(id)
}

func (s *Service) Profile() (models.PatientProfile, error) {
	return s.store.GetProfile()
}

func (s *Service) UpdateProfile(age, conditions string) error {
	profile := models.PatientProfile{
		Age:        strings.TrimSpace(age),
		Conditions: strings.TrimSpace(conditions),
	}
	if profile.Age == "" {
		return apperrors.Validation("age", "", "cannot be empty")
	}
	if profile.Conditions == "" {
		return apperrors.Validation("conditions", "", "cannot be empty")
	}
	return s.store.UpdateProfile(profile)
}

// Snapshot gathers the state the alert rules run over, seeding today first.
func (s *Service) Snapshot() (reminder.Snapshot, error) {
	if _, err := s.scheduler.EnsureToday(); err != nil {
		return reminder.Snapshot{}, err
	}

	tasks, err := s.store.GetRoutineTasks(s.scheduler.Today())
	if err != nil {
		return reminder.Snapshot{}, err
	}
	appts, err := s.store.GetAllAppointments()
	if err != nil {
		return reminder.Snapshot{}, err
	}

	snap := reminder.Snapshot{Tasks: tasks, Appointments: appts}
	latest, ok, err := s.store.GetLatestLogWithSeverity(models.SeverityHigh)
	if err != nil {
		return reminder.Snapshot{}, err
	}
	if ok {
		snap.LatestHigh = &latest
	}
	return snap, nil
}

// Alerts evaluates every alert rule at the current time.
func (s *Service) Alerts() ([]models.Alert, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return reminder.Evaluate(snap, s.now()), nil
}

// AlarmSchedule returns the "HH:MM" to task name mapping of today's
// incomplete tasks.
func (s *Service) AlarmSchedule() (map[string]string, error) {
	if _, err := s.scheduler.EnsureToday(); err != nil {
		return nil, err
	}
	tasks, err := s.store.GetRoutineTasks(s.scheduler.Today())
	if err != nil {
		return nil, err
	}
	return reminder.AlarmSchedule(tasks), nil
}

func (s *Service) DetectPatterns(ctx context.Context) (advisory.PatternReport, error) {
	if err := s.requireGateway(); err != nil {
		return advisory.PatternReport{}, err
	}
	history, err := s.History()
	if err != nil {
		return advisory.PatternReport{}, err
	}
	return s.gateway.DetectPatterns(ctx, history), nil
}

func (s *Service) FamilySummary(ctx context.Context) (advisory.TextResult, error) {
	if err := s.requireGateway(); err != nil {
		return advisory.TextResult{}, err
	}
	history, err := s.History()
	if err != nil {
		return advisory.TextResult{}, err
	}
	return s.gateway.FamilySummary(ctx, history), nil
}

func (s *Service) DecodeReport(ctx context.Context, report string) (advisory.TextResult, error) {
	report = strings.TrimSpace(report)
	if report == "" {
		return advisory.TextResult{}, apperrors.Validation("report text", "", "cannot be empty")
	}
	if err := s.requireGateway(); err != nil {
		return advisory.TextResult{}, err
	}
	return s.gateway.DecodeReport(ctx, report), nil
}

// TriageSymptoms assesses symptoms against the patient profile and the
// current medication list.
func (s *Service) TriageSymptoms(ctx context.Context, symptoms string) (advisory.TriageReport, error) {
	symptoms = strings.TrimSpace(symptoms)
	if symptoms == "" {
		return advisory.TriageReport{}, apperrors.Validation("symptoms", "", "cannot be empty")
	}
	if err := s.requireGateway(); err != nil {
		return advisory.TriageReport{}, err
	}

	profile, err := s.store.GetProfile()
	if err != nil {
		return advisory.TriageReport{}, err
	}
	names, err := s.medicationNames()
	if err != nil {
		return advisory.TriageReport{}, err
	}

	return s.gateway.Triage(ctx, advisory.TriageInput{
		Symptoms:    symptoms,
		Age:         profile.Age,
		Conditions:  profile.Conditions,
		Medications: names,
	}), nil
}
