package profile

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/careagent/internal/cli"
	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out}, out
}

func TestShowCmd_Defaults(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&ShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out.String(), "75") || !strings.Contains(out.String(), "Hypertension, Arthritis") {
		t.Errorf("expected default profile, got %q", out.String())
	}
}

func TestSetCmd(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&SetCmd{Age: "82", Conditions: "Diabetes"}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	out.Reset()
	if err := (&ShowCmd{}).Run(ctx); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out.String(), "82") || !strings.Contains(out.String(), "Diabetes") {
		t.Errorf("expected updated profile, got %q", out.String())
	}
}

func TestSetCmd_RejectsBlankFields(t *testing.T) {
	tests := []struct {
		name       string
		age        string
		conditions string
	}{
		{"blank age", " ", "Diabetes"},
		{"blank conditions", "82", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestContext(t)
			err := (&SetCmd{Age: tt.age, Conditions: tt.conditions}).Run(ctx)
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			p, err := ctx.Store.GetProfile()
			if err != nil {
				t.Fatalf("failed to read profile: %v", err)
			}
			if p.Age != "75" {
				t.Errorf("profile changed after rejected update: %+v", p)
			}
		})
	}
}
