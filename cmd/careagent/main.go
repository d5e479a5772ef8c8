package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/careagent/internal/advisory"
	"github.com/julianstephens/careagent/internal/cli"
	"github.com/julianstephens/careagent/internal/cli/alerts"
	"github.com/julianstephens/careagent/internal/cli/appts"
	"github.com/julianstephens/careagent/internal/cli/backups"
	"github.com/julianstephens/careagent/internal/cli/insights"
	"github.com/julianstephens/careagent/internal/cli/logs"
	"github.com/julianstephens/careagent/internal/cli/meds"
	"github.com/julianstephens/careagent/internal/cli/profile"
	"github.com/julianstephens/careagent/internal/cli/routine"
	"github.com/julianstephens/careagent/internal/cli/system"
	"github.com/julianstephens/careagent/internal/config"
	"github.com/julianstephens/careagent/internal/constants"
	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/logger"
	"github.com/julianstephens/careagent/internal/storage/sqlite"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Path to a YAML config file." type:"path"`
	DB       string `help:"Override the database path." name:"db"`
	DebugLog bool   `help:"Enable debug logging." name:"debug"`

	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Init     system.InitCmd       `cmd:"" help:"Initialize careagent storage."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd   `cmd:"" help:"Check stored data for conflicts."`
	Debug    system.DebugCmd      `cmd:"" help:"Debug commands for troubleshooting."`
	Watch    system.WatchCmd      `cmd:"" help:"Raise alarms for today's routine."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the advisory API key in the OS keyring."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Log      logs.LogsCmd         `cmd:"" help:"Record and review caregiver observations."`
	Meds     meds.MedsCmd         `cmd:"" help:"Manage the medicine cabinet."`
	Appts    appts.ApptsCmd       `cmd:"" help:"Manage appointments."`
	Routine  routine.RoutineCmd   `cmd:"" help:"Manage today's routine."`
	Profile  profile.ProfileCmd   `cmd:"" help:"View or edit the patient profile."`
	Alerts   alerts.AlertsCmd     `cmd:"" help:"Show current alerts."`
	Insights insights.InsightsCmd `cmd:"" help:"AI insights over logs, reports and symptoms."`
}

// commandsWithoutLoad either open the store themselves or never touch it.
var commandsWithoutLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Care coordination companion for family caregivers"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.Database.Path = config.ExpandHome(CLI.DB)
	}
	if CLI.DebugLog {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, LogDir: cfg.Log.Dir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store := sqlite.NewStore(cfg.Database.Path)
	defer store.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appCtx := &cli.Context{
		Store:   store,
		Config:  cfg,
		Out:     os.Stdout,
		Ctx:     runCtx,
		Gateway: gatewayFactory(cfg),
	}

	if !commandsWithoutLoad[topLevelCommand(ctx.Command())] {
		if err := store.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}

func gatewayFactory(cfg *config.Config) func() (*advisory.Gateway, error) {
	return func() (*advisory.Gateway, error) {
		key, err := cfg.ResolveAPIKey()
		if err != nil {
			return nil, err
		}
		completer, err := advisory.NewOpenAICompleter(key,
			advisory.WithBaseURL(cfg.Advisory.BaseURL),
			advisory.WithModel(cfg.Advisory.Model),
		)
		if err != nil {
			return nil, err
		}
		logger.Debug("Advisory gateway ready", "model", completer.Model(), "base_url", cfg.Advisory.BaseURL)
		return advisory.New(completer,
			advisory.WithTimeout(cfg.Advisory.Timeout),
			advisory.WithRetryBackoff(cfg.Advisory.RetryBackoff),
		), nil
	}
}

func topLevelCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
