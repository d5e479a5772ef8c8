package models

import "github.com/julianstephens/careagent/internal/constants"

// PatientProfile is the singleton context row fed into triage prompts.
type PatientProfile struct {
	ID         int64  `json:"id"`
	Age        string `json:"age"`
	Conditions string `json:"conditions"` // free-text comma list
}

// DefaultProfile is the row created on first initialization.
func DefaultProfile() PatientProfile {
	return PatientProfile{
		Age:        constants.DefaultProfileAge,
		Conditions: constants.DefaultProfileConditions,
	}
}
