package models

import (
	"time"

	"github.com/julianstephens/careagent/internal/constants"
)

type Appointment struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"` // YYYY-MM-DD format
	Doctor  string `json:"doctor"`
	Purpose string `json:"purpose"`
}

// ParsedDate returns the appointment date at midnight in loc.
func (a Appointment) ParsedDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(constants.DateFormat, a.Date, loc)
}
