package advisory

import (
	"context"
	"strings"

	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/models"
)

const (
	OpClassify         = "classify"
	OpDecodeReport     = "decode_report"
	OpDrugInteractions = "drug_interactions"
	OpFoodInteraction  = "food_interaction"
	OpDetectPatterns   = "detect_patterns"
	OpFamilySummary    = "family_summary"
	OpTriage           = "triage"
)

// Classification is the topic and urgency assigned to a log entry. On
// failure it carries General/Low together with Err.
type Classification struct {
	Category models.Category
	Severity models.Severity
	Err      *apperrors.AdvisoryError
}

// TextResult holds free-form Markdown output.
type TextResult struct {
	Text string
	Err  *apperrors.AdvisoryError
}

type DrugInteractionReport struct {
	Safe           bool
	Warnings       []string
	Recommendation string
	Err            *apperrors.AdvisoryError
}

type FoodInteraction struct {
	Safe    bool
	Warning string
	Advice  string
	Err     *apperrors.AdvisoryError
}

type PatternReport struct {
	ConcernDetected    bool
	PatternDescription string
	Advice             string
	Err                *apperrors.AdvisoryError
}

// TriageLevel is the normalized urgency of a symptom assessment.
type TriageLevel string

const (
	TriageEmergency TriageLevel = "Emergency - Call 911"
	TriageUrgent    TriageLevel = "Urgent - See Doctor 24h"
	TriageNonUrgent TriageLevel = "Non-Urgent - Monitor"
	TriageUnknown   TriageLevel = "Unknown"
)

// ParseTriageLevel maps a model label onto the fixed set. "Non-Urgent" is
// checked before "Urgent" since the latter is a substring of the former.
func ParseTriageLevel(raw string) TriageLevel {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case s == "":
		return TriageUnknown
	case strings.Contains(s, "emergency"), strings.Contains(s, "911"):
		return TriageEmergency
	case strings.Contains(s, "non-urgent"), strings.Contains(s, "non urgent"), strings.Contains(s, "nonurgent"), strings.Contains(s, "monitor"):
		return TriageNonUrgent
	case strings.Contains(s, "urgent"):
		return TriageUrgent
	default:
		return TriageUnknown
	}
}

// TriageInput is the patient context sent with a symptom description.
type TriageInput struct {
	Symptoms    string
	Age         string
	Conditions  string
	Medications []string
}

type TriageReport struct {
	Level      TriageLevel
	RawLevel   string
	Analysis   string
	ActionPlan string
	Disclaimer string
	Err        *apperrors.AdvisoryError
}

// Classify labels a caregiver note. Unknown or missing labels fall back to
// General and Low.
func (g *Gateway) Classify(ctx context.Context, text string) Classification {
	c := Classification{Category: models.CategoryGeneral, Severity: models.SeverityLow}

	res := g.Invoke(ctx, OpClassify, classifyPrompt(text), true)
	if res.Failed() {
		c.Err = res.Err
		return c
	}
	if category, ok := models.ParseCategory(stringField(res.Fields, "category")); ok {
		c.Category = category
	}
	if severity, ok := models.ParseSeverity(stringField(res.Fields, "severity")); ok {
		c.Severity = severity
	}
	return c
}

// DecodeReport explains lab report text in plain language.
func (g *Gateway) DecodeReport(ctx context.Context, report string) TextResult {
	res := g.Invoke(ctx, OpDecodeReport, decodeReportPrompt(report), false)
	return TextResult{Text: res.Text, Err: res.Err}
}

func (g *Gateway) CheckDrugInteractions(ctx context.Context, meds []string) DrugInteractionReport {
	res := g.Invoke(ctx, OpDrugInteractions, drugInteractionPrompt(meds), true)
	if res.Failed() {
		return DrugInteractionReport{Err: res.Err}
	}
	safe, _ := boolField(res.Fields, "safe")
	return DrugInteractionReport{
		Safe:           safe,
		Warnings:       listField(res.Fields, "warnings"),
		Recommendation: stringField(res.Fields, "recommendation"),
	}
}

func (g *Gateway) CheckFoodInteraction(ctx context.Context, food string, meds []string) FoodInteraction {
	res := g.Invoke(ctx, OpFoodInteraction, foodInteractionPrompt(food, meds), true)
	if res.Failed() {
		return FoodInteraction{Err: res.Err}
	}
	safe, _ := boolField(res.Fields, "safe")
	return FoodInteraction{
		Safe:    safe,
		Warning: stringField(res.Fields, "warning"),
		Advice:  stringField(res.Fields, "advice"),
	}
}

// DetectPatterns looks for slow declines across recent log history.
func (g *Gateway) DetectPatterns(ctx context.Context, history string) PatternReport {
	res := g.Invoke(ctx, OpDetectPatterns, patternPrompt(history), true)
	if res.Failed() {
		return PatternReport{Err: res.Err}
	}
	concern, _ := boolField(res.Fields, "concern_detected")
	return PatternReport{
		ConcernDetected:    concern,
		PatternDescription: stringField(res.Fields, "pattern_description"),
		Advice:             stringField(res.Fields, "advice"),
	}
}

// FamilySummary writes a short update for relatives from recent history.
func (g *Gateway) FamilySummary(ctx context.Context, history string) TextResult {
	res := g.Invoke(ctx, OpFamilySummary, summaryPrompt(history), false)
	return TextResult{Text: res.Text, Err: res.Err}
}

func (g *Gateway) Triage(ctx context.Context, in TriageInput) TriageReport {
	res := g.Invoke(ctx, OpTriage, triagePrompt(in), true)
	if res.Failed() {
		return TriageReport{Level: TriageUnknown, Err: res.Err}
	}
	raw := stringField(res.Fields, "triage_level")
	return TriageReport{
		Level:      ParseTriageLevel(raw),
		RawLevel:   raw,
		Analysis:   stringField(res.Fields, "analysis"),
		ActionPlan: stringField(res.Fields, "action_plan"),
		Disclaimer: stringField(res.Fields, "disclaimer"),
	}
}
