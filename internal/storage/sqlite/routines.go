package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/models"
	"github.com/julianstephens/careagent/internal/storage"
)

func (s *Store) CountRoutineTasks(date string) (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT count(*) FROM routines WHERE date = ?`, date).Scan(&count); err != nil {
		return 0, apperrors.Storage("count routine tasks", fmt.Errorf("failed to count routine tasks: %w", err))
	}
	return count, nil
}

func (s *Store) SeedRoutineTasks(date string, tasks []models.RoutineTask) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, apperrors.Storage("seed routine", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT count(*) FROM routines WHERE date = ?`, date).Scan(&count); err != nil {
		return false, apperrors.Storage("seed routine", fmt.Errorf("failed to count routine tasks: %w", err))
	}
	if count > 0 {
		return false, nil
	}

	stmt, err := tx.Prepare(`INSERT INTO routines (date, task, scheduled_time, completed) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return false, apperrors.Storage("seed routine", fmt.Errorf("failed to prepare insert: %w", err))
	}
	defer stmt.Close()

	for _, task := range tasks {
		if _, err := stmt.Exec(date, task.Task, task.ScheduledTime, task.Completed); err != nil {
			return false, apperrors.Storage("seed routine", fmt.Errorf("failed to insert %q: %w", task.Task, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return false, apperrors.Storage("seed routine", fmt.Errorf("failed to commit: %w", err))
	}
	return true, nil
}

func (s *Store) AddRoutineTask(task models.RoutineTask) (models.RoutineTask, error) {
	if err := task.Validate(); err != nil {
		return models.RoutineTask{}, apperrors.Validation("routine task", task.Task, err.Error())
	}

	result, err := s.db.Exec(`
		INSERT INTO routines (date, task, scheduled_time, completed) VALUES (?, ?, ?, ?)
	`, task.Date, task.Task, task.ScheduledTime, task.Completed)
	if err != nil {
		return models.RoutineTask{}, apperrors.Storage("add routine task", fmt.Errorf("failed to insert routine task: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.RoutineTask{}, apperrors.Storage("add routine task", fmt.Errorf("failed to read routine task id: %w", err))
	}
	task.ID = id
	return task, nil
}

func (s *Store) GetRoutineTask(id int64) (models.RoutineTask, error) {
	row := s.db.QueryRow(`SELECT id, date, task, scheduled_time, completed FROM routines WHERE id = ?`, id)
	task, err := scanRoutineTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RoutineTask{}, apperrors.Storage("get routine task", fmt.Errorf("routine task %d: %w", id, storage.ErrNotFound))
	}
	if err != nil {
		return models.RoutineTask{}, apperrors.Storage("get routine task", fmt.Errorf("failed to get routine task: %w", err))
	}
	return task, nil
}

func (s *Store) GetRoutineTasks(date string) ([]models.RoutineTask, error) {
	rows, err := s.db.Query(`
		SELECT id, date, task, scheduled_time, completed
		FROM routines
		WHERE date = ?
		ORDER BY id ASC
	`, date)
	if err != nil {
		return nil, apperrors.Storage("list routine tasks", fmt.Errorf("failed to query routine tasks: %w", err))
	}
	defer rows.Close()

	var tasks []models.RoutineTask
	for rows.Next() {
		task, err := scanRoutineTask(rows)
		if err != nil {
			return nil, apperrors.Storage("list routine tasks", fmt.Errorf("failed to scan routine task: %w", err))
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list routine tasks", fmt.Errorf("error iterating routine tasks: %w", err))
	}

	return tasks, nil
}

func (s *Store) UpdateRoutineTaskTime(id int64, scheduledTime string) error {
	result, err := s.db.Exec(`UPDATE routines SET scheduled_time = ? WHERE id = ?`, scheduledTime, id)
	if err != nil {
		return apperrors.Storage("reschedule routine task", fmt.Errorf("failed to update routine task: %w", err))
	}
	return apperrors.Storage("reschedule routine task", checkAffected(result, "routine task", id))
}

func (s *Store) SetRoutineTaskCompleted(id int64, completed bool) error {
	result, err := s.db.Exec(`UPDATE routines SET completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return apperrors.Storage("complete routine task", fmt.Errorf("failed to update routine task: %w", err))
	}
	return apperrors.Storage("complete routine task", checkAffected(result, "routine task", id))
}

func (s *Store) DeleteRoutineTask(id int64) error {
	result, err := s.db.Exec(`DELETE FROM routines WHERE id = ?`, id)
	if err != nil {
		return apperrors.Storage("delete routine task", fmt.Errorf("failed to delete routine task: %w", err))
	}
	return apperrors.Storage("delete routine task", checkAffected(result, "routine task", id))
}

func scanRoutineTask(row rowScanner) (models.RoutineTask, error) {
	var (
		task                      models.RoutineTask
		date, name, scheduledTime sql.NullString
		completed                 sql.NullBool
	)
	if err := row.Scan(&task.ID, &date, &name, &scheduledTime, &completed); err != nil {
		return models.RoutineTask{}, err
	}
	task.Date = nullString(date)
	task.Task = nullString(name)
	task.ScheduledTime = nullString(scheduledTime)
	task.Completed = completed.Valid && completed.Bool
	return task, nil
}
