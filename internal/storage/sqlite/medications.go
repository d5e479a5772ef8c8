package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/models"
)

func (s *Store) AddMedication(med models.Medication) (models.Medication, error) {
	if strings.TrimSpace(med.Name) == "" {
		return models.Medication{}, apperrors.Validation("medication name", "", "cannot be empty")
	}

	var purpose sql.NullString
	if med.Purpose != "" {
		purpose = sql.NullString{String: med.Purpose, Valid: true}
	}

	result, err := s.db.Exec(`
		INSERT INTO medications (name, dosage, time, purpose) VALUES (?, ?, ?, ?)
	`, med.Name, med.Dosage, med.Time, purpose)
	if err != nil {
		return models.Medication{}, apperrors.Storage("add medication", fmt.Errorf("failed to insert medication: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Medication{}, apperrors.Storage("add medication", fmt.Errorf("failed to read medication id: %w", err))
	}
	med.ID = id
	return med, nil
}

func (s *Store) GetAllMedications() ([]models.Medication, error) {
	rows, err := s.db.Query(`SELECT id, name, dosage, time, purpose FROM medications ORDER BY id ASC`)
	if err != nil {
		return nil, apperrors.Storage("list medications", fmt.Errorf("failed to query medications: %w", err))
	}
	defer rows.Close()

	var meds []models.Medication
	for rows.Next() {
		var (
			med                         models.Medication
			name, dosage, when, purpose sql.NullString
		)
		if err := rows.Scan(&med.ID, &name, &dosage, &when, &purpose); err != nil {
			return nil, apperrors.Storage("list medications", fmt.Errorf("failed to scan medication: %w", err))
		}
		med.Name = nullString(name)
		med.Dosage = nullString(dosage)
		med.Time = nullString(when)
		med.Purpose = nullString(purpose)
		meds = append(meds, med)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list medications", fmt.Errorf("error iterating medications: %w", err))
	}

	return meds, nil
}

func (s *Store) DeleteMedication(id int64) error {
	result, err := s.db.Exec(`DELETE FROM medications WHERE id = ?`, id)
	if err != nil {
		return apperrors.Storage("delete medication", fmt.Errorf("failed to delete medication: %w", err))
	}
	return apperrors.Storage("delete medication", checkAffected(result, "medication", id))
}
