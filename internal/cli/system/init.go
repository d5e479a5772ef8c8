package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/careagent/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized careagent storage at: %s\n", ctx.Store.GetConfigPath())

	// Seed today's routine so the first listing is not empty.
	seeded, err := ctx.Care().Scheduler().EnsureToday()
	if err != nil {
		return err
	}
	if seeded {
		ctx.Println("Seeded today's default routine.")
	}
	return nil
}
