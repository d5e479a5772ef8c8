package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/careagent/internal/constants"
	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/logger"
	"github.com/julianstephens/careagent/internal/models"
	"github.com/julianstephens/careagent/internal/storage"
)

// DefaultTask is one entry of the routine seeded on a fresh day.
type DefaultTask struct {
	Task string
	Time string
}

// Entry pairs a stored task with its status at evaluation time.
type Entry struct {
	models.RoutineTask
	Status models.TaskStatus
}

type Scheduler struct {
	store    storage.Provider
	now      func() time.Time
	defaults []DefaultTask
}

type Option func(*Scheduler)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithDefaults replaces the seeded routine.
func WithDefaults(defaults []DefaultTask) Option {
	return func(s *Scheduler) {
		s.defaults = defaults
	}
}

func New(store storage.Provider, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		now:      time.Now,
		defaults: builtinDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func builtinDefaults() []DefaultTask {
	defaults := make([]DefaultTask, 0, len(constants.DefaultRoutine))
	for _, d := range constants.DefaultRoutine {
		defaults = append(defaults, DefaultTask{Task: d.Task, Time: d.Time})
	}
	return defaults
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.now()
}

// Today returns the local calendar date in YYYY-MM-DD form.
func (s *Scheduler) Today() string {
	return s.now().Format(constants.DateFormat)
}

// EnsureToday seeds the default routine for the current date.
func (s *Scheduler) EnsureToday() (bool, error) {
	return s.EnsureDay(s.Today())
}

// EnsureDay seeds the default routine for date if the date has no tasks yet.
// It reports whether rows were inserted. Tasks added or removed by the user
// on a seeded date are never restored.
func (s *Scheduler) EnsureDay(date string) (bool, error) {
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return false, apperrors.Validation("date", date, "expected YYYY-MM-DD")
	}

	tasks := make([]models.RoutineTask, 0, len(s.defaults))
	for _, d := range s.defaults {
		tasks = append(tasks, models.RoutineTask{
			Date:          date,
			Task:          d.Task,
			ScheduledTime: d.Time,
		})
	}

	seeded, err := s.store.SeedRoutineTasks(date, tasks)
	if err != nil {
		return false, err
	}
	if seeded {
		logger.Info("Seeded daily routine", "date", date, "tasks", len(tasks))
	}
	return seeded, nil
}

// Routine returns the tasks of date with their status at the current time,
// ordered by scheduled time and then id.
func (s *Scheduler) Routine(date string) ([]Entry, error) {
	tasks, err := s.store.GetRoutineTasks(date)
	if err != nil {
		return nil, err
	}

	now := s.now()
	entries := make([]Entry, 0, len(tasks))
	for _, task := range tasks {
		entries = append(entries, Entry{RoutineTask: task, Status: task.Status(now)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ScheduledTime != entries[j].ScheduledTime {
			return entries[i].ScheduledTime < entries[j].ScheduledTime
		}
		return entries[i].ID < entries[j].ID
	})

	return entries, nil
}

// TodayRoutine seeds today if needed and returns its entries.
func (s *Scheduler) TodayRoutine() ([]Entry, error) {
	if _, err := s.EnsureToday(); err != nil {
		return nil, err
	}
	return s.Routine(s.Today())
}

// AddTask adds a task to today's routine. Duplicate names are allowed.
func (s *Scheduler) AddTask(name, at string) (models.RoutineTask, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.RoutineTask{}, apperrors.Validation("task name", "", "cannot be empty")
	}
	normalized, err := NormalizeTime(at)
	if err != nil {
		return models.RoutineTask{}, err
	}

	task, err := s.store.AddRoutineTask(models.RoutineTask{
		Date:          s.Today(),
		Task:          name,
		ScheduledTime: normalized,
	})
	if err != nil {
		return models.RoutineTask{}, err
	}
	logger.Debug("Added routine task", "id", task.ID, "task", task.Task, "time", task.ScheduledTime)
	return task, nil
}

// Reschedule moves a task to a new time of day.
func (s *Scheduler) Reschedule(id int64, at string) error {
	normalized, err := NormalizeTime(at)
	if err != nil {
		return err
	}
	return s.store.UpdateRoutineTaskTime(id, normalized)
}

// SetCompleted marks a task done or not done.
func (s *Scheduler) SetCompleted(id int64, completed bool) error {
	return s.store.SetRoutineTaskCompleted(id, completed)
}

// Toggle flips the completion flag of a task and returns the new value.
func (s *Scheduler) Toggle(id int64) (bool, error) {
	task, err := s.store.GetRoutineTask(id)
	if err != nil {
		return false, err
	}
	completed := !task.Completed
	if err := s.store.SetRoutineTaskCompleted(id, completed); err != nil {
		return false, err
	}
	return completed, nil
}

func (s *Scheduler) Remove(id int64) error {
	return s.store.DeleteRoutineTask(id)
}

// NormalizeTime validates a time of day and returns it as zero-padded HH:MM.
func NormalizeTime(value string) (string, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(constants.TimeFormat, value)
	if err != nil {
		return "", apperrors.Validation("time", value, fmt.Sprintf("expected HH:MM: %v", err))
	}
	return t.Format(constants.TimeFormat), nil
}
