package insights

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/careagent/internal/advisory"
	"github.com/julianstephens/careagent/internal/cli"
)

type InsightsCmd struct {
	Patterns PatternsCmd `cmd:"" help:"Look for worrying trends in recent logs."`
	Summary  SummaryCmd  `cmd:"" help:"Write a family update from recent logs."`
	Decode   DecodeCmd   `cmd:"" help:"Explain a medical report in plain language."`
	Triage   TriageCmd   `cmd:"" help:"Assess symptoms against the patient profile."`
}

type PatternsCmd struct{}

func (c *PatternsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.CareWithAdvisory()
	if err != nil {
		return err
	}
	report, err := svc.DetectPatterns(ctx.Context())
	if err != nil {
		return err
	}
	if report.Err != nil {
		ctx.WarnAdvisory(report.Err)
		return nil
	}

	if report.ConcernDetected {
		ctx.Println(cli.DangerStyle.Render("Concern detected"))
	} else {
		ctx.Println(cli.SuccessStyle.Render("No concerning pattern found"))
	}
	if report.PatternDescription != "" {
		ctx.Println(report.PatternDescription)
	}
	if report.Advice != "" {
		ctx.Printf("\n%s\n", cli.InfoStyle.Render(report.Advice))
	}
	return nil
}

type SummaryCmd struct{}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.CareWithAdvisory()
	if err != nil {
		return err
	}
	result, err := svc.FamilySummary(ctx.Context())
	if err != nil {
		return err
	}
	if result.Err != nil {
		ctx.WarnAdvisory(result.Err)
		return nil
	}
	ctx.Println(result.Text)
	return nil
}

type DecodeCmd struct {
	File string `arg:"" optional:"" type:"existingfile" help:"Report file to read. Reads stdin when omitted."`
}

func (c *DecodeCmd) Run(ctx *cli.Context) error {
	report, err := c.read()
	if err != nil {
		return err
	}

	svc, err := ctx.CareWithAdvisory()
	if err != nil {
		return err
	}
	result, err := svc.DecodeReport(ctx.Context(), report)
	if err != nil {
		return err
	}
	if result.Err != nil {
		ctx.WarnAdvisory(result.Err)
		return nil
	}
	ctx.Println(result.Text)
	return nil
}

func (c *DecodeCmd) read() (string, error) {
	var r io.Reader = os.Stdin
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return "", fmt.Errorf("failed to open report: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}
	return string(data), nil
}

type TriageCmd struct {
	Symptoms []string `arg:"" help:"Symptom description."`
}

func (c *TriageCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.CareWithAdvisory()
	if err != nil {
		return err
	}
	report, err := svc.TriageSymptoms(ctx.Context(), cli.JoinArgs(c.Symptoms))
	if err != nil {
		return err
	}
	if report.Err != nil {
		ctx.WarnAdvisory(report.Err)
		return nil
	}

	ctx.Println(cli.TriageStyle(report.Level).Render(triageHeadline(report)))
	if report.Analysis != "" {
		ctx.Printf("\n%s\n", report.Analysis)
	}
	if report.ActionPlan != "" {
		ctx.Printf("\n%s\n%s\n", cli.HeaderStyle.Render("Action plan"), report.ActionPlan)
	}
	if report.Disclaimer != "" {
		ctx.Printf("\n%s\n", cli.MutedStyle.Render(report.Disclaimer))
	}
	return nil
}

// triageHeadline appends the model's label when it matched no known level.
func triageHeadline(report advisory.TriageReport) string {
	raw := strings.TrimSpace(report.RawLevel)
	if report.Level == advisory.TriageUnknown && raw != "" {
		return fmt.Sprintf("%s (model said: %q)", report.Level, raw)
	}
	return string(report.Level)
}
