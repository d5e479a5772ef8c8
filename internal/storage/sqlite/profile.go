package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/models"
	"github.com/julianstephens/careagent/internal/storage"
)

// GetProfile returns the singleton profile row. Should more than one row
// exist, the oldest wins.
func (s *Store) GetProfile() (models.PatientProfile, error) {
	var (
		profile         models.PatientProfile
		age, conditions sql.NullString
	)
	err := s.db.QueryRow(`SELECT id, age, conditions FROM patient_profile ORDER BY id ASC LIMIT 1`).
		Scan(&profile.ID, &age, &conditions)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PatientProfile{}, apperrors.Storage("get profile", fmt.Errorf("patient profile: %w", storage.ErrNotFound))
	}
	if err != nil {
		return models.PatientProfile{}, apperrors.Storage("get profile", fmt.Errorf("failed to get profile: %w", err))
	}
	profile.Age = nullString(age)
	profile.Conditions = nullString(conditions)
	return profile, nil
}

func (s *Store) UpdateProfile(profile models.PatientProfile) error {
	result, err := s.db.Exec(`
		UPDATE patient_profile SET age = ?, conditions = ?
		WHERE id = (SELECT MIN(id) FROM patient_profile)
	`, profile.Age, profile.Conditions)
	if err != nil {
		return apperrors.Storage("update profile", fmt.Errorf("failed to update profile: %w", err))
	}
	return apperrors.Storage("update profile", checkAffected(result, "patient profile", profile.ID))
}
