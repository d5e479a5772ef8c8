package sqlite

import (
	"database/sql"
	"fmt"

	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/models"
)

// AddAppointment stores the date as given. Date format is checked by the
// caller so that rows written by older releases stay readable.
func (s *Store) AddAppointment(appt models.Appointment) (models.Appointment, error) {
	result, err := s.db.Exec(`
		INSERT INTO appointments (date, doctor, purpose) VALUES (?, ?, ?)
	`, appt.Date, appt.Doctor, appt.Purpose)
	if err != nil {
		return models.Appointment{}, apperrors.Storage("add appointment", fmt.Errorf("failed to insert appointment: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Appointment{}, apperrors.Storage("add appointment", fmt.Errorf("failed to read appointment id: %w", err))
	}
	appt.ID = id
	return appt, nil
}

func (s *Store) GetAllAppointments() ([]models.Appointment, error) {
	query, args, err := builder.Select("id", "date", "doctor", "purpose").
		From("appointments").
		OrderBy("date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, apperrors.Storage("list appointments", fmt.Errorf("failed to build appointment query: %w", err))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperrors.Storage("list appointments", fmt.Errorf("failed to query appointments: %w", err))
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		var (
			appt                  models.Appointment
			date, doctor, purpose sql.NullString
		)
		if err := rows.Scan(&appt.ID, &date, &doctor, &purpose); err != nil {
			return nil, apperrors.Storage("list appointments", fmt.Errorf("failed to scan appointment: %w", err))
		}
		appt.Date = nullString(date)
		appt.Doctor = nullString(doctor)
		appt.Purpose = nullString(purpose)
		appts = append(appts, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list appointments", fmt.Errorf("error iterating appointments: %w", err))
	}

	return appts, nil
}

func (s *Store) DeleteAppointment(id int64) error {
	result, err := s.db.Exec(`DELETE FROM appointments WHERE id = ?`, id)
	if err != nil {
		return apperrors.Storage("delete appointment", fmt.Errorf("failed to delete appointment: %w", err))
	}
	return apperrors.Storage("delete appointment", checkAffected(result, "appointment", id))
}
