package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/careagent/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Exit codes by error kind.
const (
	ExitInternal      = 1
	ExitValidation    = 2
	ExitStorage       = 3
	ExitConfiguration = 4
	ExitAdvisory      = 5
)

var exitFunc = os.Exit

var stderr io.Writer = os.Stderr

// ExitCode maps err to the process exit status for its kind. A nil err is 0.
func ExitCode(err error) int {
	switch KindOf(err) {
	case "":
		return 0
	case "validation":
		return ExitValidation
	case "storage":
		return ExitStorage
	case "configuration":
		return ExitConfiguration
	case "advisory":
		return ExitAdvisory
	default:
		return ExitInternal
	}
}

// Hint suggests the caregiver's next step for err, or "" when there is none.
func Hint(err error) string {
	switch KindOf(err) {
	case "configuration":
		return "Set GROQ_API_KEY or run 'careagent keyring set <api-key>'."
	case "storage":
		return "Run 'careagent doctor' to check the database."
	default:
		return ""
	}
}

// Fatal logs an error, prints it with a hint for its kind and exits with
// the kind's exit code.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err, "kind", KindOf(err))
	fmt.Fprintf(stderr, "%s\n", Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(stderr, "%s\n", hint)
	}
	exitFunc(ExitCode(err))
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(stderr, "%s\n", Formatf(format, args...))
	exitFunc(ExitInternal)
}
