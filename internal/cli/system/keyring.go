package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/careagent/internal/cli"
	"github.com/julianstephens/careagent/internal/keyring"
)

// KeyringSetCmd stores the advisory provider API key in the OS keyring
type KeyringSetCmd struct {
	APIKey string `arg:"" name:"api-key" help:"Advisory provider API key to store in keyring"`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	key := strings.TrimSpace(cmd.APIKey)
	if key == "" {
		return errors.New("API key cannot be empty")
	}
	if err := keyring.SetAPIKey(key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}

	ctx.Println(cli.SuccessStyle.Render("✓ API key stored successfully in OS keyring"))
	ctx.Println("  GROQ_API_KEY no longer needs to be set in the environment")
	return nil
}

// KeyringDeleteCmd removes the API key from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}

	ctx.Println(cli.SuccessStyle.Render("✓ API key deleted from OS keyring"))
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println(cli.DangerStyle.Render("❌ OS keyring is not available on this system"))
		return errors.New("keyring unavailable")
	}

	ctx.Println(cli.SuccessStyle.Render("✓ OS keyring is available"))
	_, err := keyring.GetAPIKey()
	switch {
	case err == nil:
		ctx.Println(cli.SuccessStyle.Render("✓ API key is stored in keyring"))
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println(cli.InfoStyle.Render("ℹ No API key stored in keyring"))
	default:
		return fmt.Errorf("failed to read keyring: %w", err)
	}
	return nil
}

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store the advisory API key in the OS keyring."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the advisory API key from the OS keyring."`
	Status KeyringStatusCmd `cmd:"" help:"Check keyring availability."`
}
