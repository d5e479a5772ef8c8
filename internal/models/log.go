package models

import (
	"strings"
	"time"
)

// Category is the classified topic of a caregiver log entry.
type Category string

const (
	CategoryVitals   Category = "Vitals"
	CategoryActivity Category = "Activity"
	CategoryMood     Category = "Mood"
	CategoryIncident Category = "Incident"
	CategoryGeneral  Category = "General"
)

// Severity is the classified urgency of a caregiver log entry.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

var categories = []Category{CategoryVitals, CategoryActivity, CategoryMood, CategoryIncident, CategoryGeneral}

var severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

// ParseCategory matches s case-insensitively against the known categories.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// ParseSeverity matches s case-insensitively against the known severities.
func ParseSeverity(s string) (Severity, bool) {
	s = strings.TrimSpace(s)
	for _, sev := range severities {
		if strings.EqualFold(s, string(sev)) {
			return sev, true
		}
	}
	return "", false
}

// LogEntry is a free-text caregiver observation. Category and Severity stay
// nil until the entry has been classified.
type LogEntry struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Author       string    `json:"author"`
	OriginalText string    `json:"original_text"`
	Category     *Category `json:"category,omitempty"`
	Severity     *Severity `json:"severity,omitempty"`
}

// CategoryOr returns the entry category, or def when unclassified.
func (l LogEntry) CategoryOr(def Category) Category {
	if l.Category == nil {
		return def
	}
	return *l.Category
}

// SeverityOr returns the entry severity, or def when unclassified.
func (l LogEntry) SeverityOr(def Severity) Severity {
	if l.Severity == nil {
		return def
	}
	return *l.Severity
}

// IsHighSeverity reports whether the entry was classified High.
func (l LogEntry) IsHighSeverity() bool {
	return l.Severity != nil && *l.Severity == SeverityHigh
}
