package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/careagent/internal/advisory"
	"github.com/julianstephens/careagent/internal/care"
	"github.com/julianstephens/careagent/internal/config"
	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Config *config.Config
	Out    io.Writer
	// Clock overrides time.Now when set.
	Clock func() time.Time
	// Gateway builds the advisory gateway on demand so that commands which
	// never call the model do not require an API key.
	Gateway func() (*advisory.Gateway, error)
	// Ctx is the parent context for advisory calls.
	Ctx context.Context
}

func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) serviceOptions() []care.Option {
	if c.Clock == nil {
		return nil
	}
	return []care.Option{care.WithClock(c.Clock)}
}

// Care returns a service without advisory features.
func (c *Context) Care() *care.Service {
	return care.New(c.Store, nil, c.serviceOptions()...)
}

// CareWithAdvisory returns a service wired to the model provider. It fails
// with a ConfigurationError when no API key is available.
func (c *Context) CareWithAdvisory() (*care.Service, error) {
	if c.Gateway == nil {
		return c.Care(), nil
	}
	gw, err := c.Gateway()
	if err != nil {
		return nil, err
	}
	return care.New(c.Store, gw, c.serviceOptions()...), nil
}

// WarnAdvisory reports a recovered advisory failure without failing the
// command.
func (c *Context) WarnAdvisory(err *apperrors.AdvisoryError) {
	if err == nil {
		return
	}
	c.Println(WarningStyle.Render(fmt.Sprintf("⚠ AI advice unavailable: %v", err)))
}

// Truncate shortens s to max runes, marking the cut with "...".
func Truncate(s string, max int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= max {
		return string(r)
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// JoinArgs turns positional words back into one free-text value.
func JoinArgs(words []string) string {
	return strings.TrimSpace(strings.Join(words, " "))
}
