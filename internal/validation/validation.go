// Package validation finds inconsistencies in stored care data that the
// write path tolerates but a caregiver should know about.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/careagent/internal/constants"
	"github.com/julianstephens/careagent/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidDateTime     ConflictType = "invalid_datetime"
	ConflictAlarmCollision      ConflictType = "alarm_collision"
	ConflictDuplicateMedication ConflictType = "duplicate_medication"
)

// Conflict represents a detected problem in one or more rows
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string // YYYY-MM-DD format (if applicable)
	Items       []string
	IDs         []int64
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateRoutine checks one day's tasks. Incomplete tasks sharing a minute
// collide because only one alarm can fire for that minute. Repeated task
// names are allowed.
func (v *Validator) ValidateRoutine(tasks []models.RoutineTask) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byTime := make(map[string][]models.RoutineTask)
	for _, t := range tasks {
		if !isValidTime(t.ScheduledTime) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Task \"%s\" has invalid time: %s", t.Task, t.ScheduledTime),
				Date:        t.Date,
				Items:       []string{t.Task},
				IDs:         []int64{t.ID},
			})
			continue
		}
		if !t.Completed {
			byTime[t.Date+" "+t.ScheduledTime] = append(byTime[t.Date+" "+t.ScheduledTime], t)
		}
	}

	for _, key := range sortedKeys(byTime) {
		group := byTime[key]
		if len(group) < 2 {
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type: ConflictAlarmCollision,
			Description: fmt.Sprintf("Tasks %s share the alarm time %s on %s; only \"%s\" will sound",
				quoteAll(taskNames(group)), group[0].ScheduledTime, group[0].Date, latest(group).Task),
			Date:  group[0].Date,
			Items: taskNames(group),
			IDs:   taskIDs(group),
		})
	}

	return result
}

// ValidateAppointments reports dates the reminder rules will skip.
func (v *Validator) ValidateAppointments(appts []models.Appointment) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	for _, a := range appts {
		if _, err := time.Parse(constants.DateFormat, a.Date); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Appointment with %s has invalid date: %s", a.Doctor, a.Date),
				Items:       []string{a.Doctor},
				IDs:         []int64{a.ID},
			})
		}
	}
	return result
}

// ValidateMedications reports drugs entered more than once, ignoring case.
func (v *Validator) ValidateMedications(meds []models.Medication) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	byName := make(map[string][]models.Medication)
	for _, m := range meds {
		name := strings.ToLower(strings.TrimSpace(m.Name))
		if name == "" {
			continue
		}
		byName[name] = append(byName[name], m)
	}

	for _, key := range sortedKeys(byName) {
		group := byName[key]
		if len(group) < 2 {
			continue
		}
		ids := make([]int64, len(group))
		for i, m := range group {
			ids[i] = m.ID
		}
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictDuplicateMedication,
			Description: fmt.Sprintf("Medication \"%s\" is listed %d times (IDs: %v)", group[0].Name, len(group), ids),
			Items:       []string{group[0].Name},
			IDs:         ids,
		})
	}
	return result
}

func isValidTime(s string) bool {
	_, err := time.Parse(constants.TimeFormat, s)
	return err == nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func taskIDs(tasks []models.RoutineTask) []int64 {
	ids := make([]int64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func taskNames(tasks []models.RoutineTask) []string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Task
	}
	return names
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}

// latest is the task whose alarm wins a shared minute.
func latest(tasks []models.RoutineTask) models.RoutineTask {
	win := tasks[0]
	for _, t := range tasks[1:] {
		if t.ID > win.ID {
			win = t
		}
	}
	return win
}
