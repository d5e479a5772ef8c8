package advisory

import (
	"fmt"
	"strings"

	"github.com/julianstephens/careagent/internal/constants"
)

func classifyPrompt(text string) string {
	return fmt.Sprintf("Analyze: '%s'. Return JSON: category (Vitals/Activity/Mood/Incident), severity (Low/Medium/High).", text)
}

func decodeReportPrompt(report string) string {
	return fmt.Sprintf(`You are a helpful medical assistant for a family.
Here is the text from a medical report/lab result: "%s"
1. Identify the key test names and values.
2. Translate what they mean into plain English for a non-doctor.
3. If values seem high/low based on general knowledge, mention it gently.
Return the response in clear Markdown format.`, report)
}

func drugInteractionPrompt(meds []string) string {
	return fmt.Sprintf(`Analyze this list of medications for dangerous interactions: %s. Return JSON: "safe": bool, "warnings": list, "recommendation": str`, medicationList(meds))
}

func foodInteractionPrompt(food string, meds []string) string {
	return fmt.Sprintf(`Patient's Meds: %s. Food: "%s". Analyze Food-Drug interactions. Return JSON: "safe": bool, "warning": str, "advice": str`, medicationList(meds), food)
}

func patternPrompt(history string) string {
	return fmt.Sprintf(`Analyze logs for "Slow Declines". Return JSON: "concern_detected": bool, "pattern_description": str, "advice": str. Logs: %s`, history)
}

func summaryPrompt(history string) string {
	return fmt.Sprintf(`Summarize these logs: %s. Organize by "Physical Health", "Mood", "Upcoming Needs". Direct message format. No "Dear Family".`, history)
}

func triagePrompt(in TriageInput) string {
	return fmt.Sprintf(`Act as a professional medical triage nurse (Dr. AI).

PATIENT PROFILE:
- Age: %s
- Known Conditions: %s
- Current Medications: %s

NEW SYMPTOMS:
"%s"

Analyze the symptoms specifically in the context of their age, conditions, and meds.

Return JSON with:
- "triage_level": (String: "%s", "%s", "%s")
- "analysis": (String: Explain WHY, linking symptoms to conditions/meds if relevant)
- "action_plan": (String: Bullet points of what to do right now)
- "disclaimer": (String: Strict medical disclaimer)`,
		in.Age, in.Conditions, medicationList(in.Medications), in.Symptoms,
		TriageEmergency, TriageUrgent, TriageNonUrgent)
}

// medicationList renders names as a bracketed, quoted list.
func medicationList(names []string) string {
	if len(names) == 0 {
		return constants.EmptyMedicationsText
	}
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
