package models

import "time"

// AlertKind names the rule that produced an alert.
type AlertKind string

const (
	AlertMissedTask          AlertKind = "missed"
	AlertHighSeverity        AlertKind = "high_severity"
	AlertAppointmentToday    AlertKind = "appointment_today"
	AlertAppointmentTomorrow AlertKind = "appointment_tomorrow"
)

// Alert is a human-readable signal derived from stored state. Alerts are
// never persisted.
type Alert struct {
	Kind    AlertKind `json:"kind"`
	Message string    `json:"message"`
	Subject string    `json:"subject"`      // task name, log text or doctor
	At      string    `json:"at,omitempty"` // scheduled time, timestamp or date
	RefID   int64     `json:"ref_id"`       // row id of the source record
	Raised  time.Time `json:"raised"`       // evaluation instant
}
