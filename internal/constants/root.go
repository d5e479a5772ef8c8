package constants

import "time"

const (
	AppName            = "careagent"
	DefaultKeyringUser = "groq-api-key"
	DefaultConfigDir   = "~/.config/careagent"
	DefaultDBPath      = "~/.config/careagent/care_data.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat matches SQLite's CURRENT_TIMESTAMP text representation
	TimestampFormat = "2006-01-02 15:04:05"

	// Patient profile defaults
	DefaultProfileAge        = "75"
	DefaultProfileConditions = "Hypertension, Arthritis"

	// Log entry defaults
	DefaultLogAuthor     = "Caregiver"
	RecentLogsLimit      = 10
	InsightHistoryLimit  = 20
	EmptyHistoryText     = "No logs available."
	EmptyMedicationsText = "No medications listed"

	// Advisory gateway
	DefaultProviderBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel           = "llama-3.3-70b-versatile"
	SystemPersona          = "You are a senior care medical expert."
	DefaultRequestTimeout  = 30 * time.Second
	DefaultRetryBackoff    = 500 * time.Millisecond

	// Alarm polling
	DefaultAlarmPollInterval = 10 * time.Second

	// Notify constants
	NotifierLockfileName   = "careagent-notifier.lock"
	NotificationDurationMs = 8000
	TrayAppIdentifier      = "com.julianstephens.careagent"
	TrayAppExecutable      = "careagent-tray"
)

// DefaultRoutine is the task list materialized once per calendar day.
var DefaultRoutine = []struct {
	Task string
	Time string
}{
	{"Breakfast", "08:00"},
	{"Morning Meds", "09:00"},
	{"Lunch", "13:00"},
	{"Afternoon Walk", "17:00"},
	{"Dinner", "20:00"},
	{"Night Meds", "21:00"},
}
