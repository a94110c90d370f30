// Package convo implements the guided intake conversation: the ordered flow
// script, the per-field validation rules, and the session state machine that
// drives mode selection and step advancement.
package convo

import "strings"

// Intake field keys. Step keys and record field names are identical, the way
// the original flow definition keyed both off the same identifier.
const (
	FieldName        = "name"
	FieldProjectType = "projectType"
	FieldDuration    = "duration"
	FieldBudget      = "budget"
)

// Step is one question in the flow script. Field names the intake record
// field this step fills; Key is the step's identity in answers and history.
type Step struct {
	Key         string
	Prompt      string
	Placeholder string
	Field       string
}

// Script is an ordered, immutable sequence of steps. Position in the slice is
// the step index.
type Script []Step

// DefaultScript returns the project-intake flow: four questions, one intake
// field each.
func DefaultScript() Script {
	return Script{
		{
			Key:         FieldName,
			Prompt:      "Welcome! To start, what is your **full name**?",
			Placeholder: "e.g., Alex Johnson",
			Field:       FieldName,
		},
		{
			Key:         FieldProjectType,
			Prompt:      "What **type of project** are you planning?",
			Placeholder: "e.g., Web App, Data Analysis, Chatbot",
			Field:       FieldProjectType,
		},
		{
			Key:         FieldDuration,
			Prompt:      "Approximately how many **weeks** will the project take?",
			Placeholder: "e.g., 8",
			Field:       FieldDuration,
		},
		{
			Key:         FieldBudget,
			Prompt:      "What is the approximate **budget** for this project (in USD)?",
			Placeholder: "e.g., 10000",
			Field:       FieldBudget,
		},
	}
}

// RenderPrompt substitutes the collected name into a step prompt. Before the
// name is known the placeholder collapses to a neutral "there".
func RenderPrompt(step Step, answers map[string]string) string {
	name := answers[FieldName]
	if name == "" {
		name = "there"
	}
	return strings.ReplaceAll(step.Prompt, "[name]", name)
}
