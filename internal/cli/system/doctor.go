package system

import (
	"fmt"
	"time"

	"github.com/julianstephens/careagent/internal/cli"
	"github.com/julianstephens/careagent/internal/keyring"
)

// schemaReporter is implemented by stores that track migrations.
type schemaReporter interface {
	SchemaStatus() (current, latest int, err error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	pass := func(name string) {
		ctx.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s: OK", name)))
	}
	fail := func(name string, err error) {
		ctx.Println(cli.DangerStyle.Render(fmt.Sprintf("❌ %s: FAIL", name)))
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, msg string) {
		ctx.Println(cli.WarningStyle.Render(fmt.Sprintf("⚠ %s: WARNING", name)))
		ctx.Printf("   %s\n", msg)
	}
	skip := func(name string) {
		ctx.Println(cli.MutedStyle.Render(fmt.Sprintf("⊘ %s: SKIPPED (database not reachable)", name)))
	}

	dbReachable := false
	if err := checkDBReachable(ctx); err != nil {
		fail("Database reachable", err)
	} else {
		pass("Database reachable")
		dbReachable = true
	}

	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fail("Schema version", err)
		} else {
			pass("Schema version")
		}
		if err := checkValidation(ctx); err != nil {
			fail("Data validation", err)
		} else {
			pass("Data validation")
		}
	} else {
		skip("Schema version")
		skip("Data validation")
	}

	if err := checkClockTimezone(); err != nil {
		fail("Clock/timezone", err)
	} else {
		pass("Clock/timezone")
	}

	if ctx.Config != nil {
		if _, err := ctx.Config.ResolveAPIKey(); err != nil {
			warn("Advisory API key", err.Error())
		} else {
			pass("Advisory API key")
		}
	}

	if keyring.IsAvailable() {
		pass("OS keyring")
	} else {
		warn("OS keyring", "not available, the API key must come from GROQ_API_KEY")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetProfile(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	reporter, ok := ctx.Store.(schemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := reporter.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("schema version %d is behind latest %d, run 'careagent init'", current, latest)
	}
	if current > latest {
		return fmt.Errorf("schema version %d is newer than this binary supports (%d)", current, latest)
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	result, err := validateAll(ctx)
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("found %d conflict(s), run 'careagent validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock appears to be wrong (year %d)", now.Year())
	}
	if now.Location() == nil {
		return fmt.Errorf("local timezone is not configured")
	}
	return nil
}
