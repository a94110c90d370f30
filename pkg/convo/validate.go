package convo

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldRule validates a single raw input value and returns the coerced value
// on success. Rules are pure: validating one field never needs the rest of
// the record, because the engine checks exactly one field per turn.
type FieldRule func(raw string) (string, error)

// fieldRules is the static per-field rule table.
var fieldRules = map[string]FieldRule{
	FieldName:        validateName,
	FieldProjectType: validateProjectType,
	FieldDuration:    validateDuration,
	FieldBudget:      validateBudget,
}

// ValidateField checks raw against the rule for the named intake field.
// Unknown field names are a programming error in the script, not user input,
// and are reported as such.
func ValidateField(field, raw string) (string, error) {
	rule, ok := fieldRules[field]
	if !ok {
		return "", fmt.Errorf("no validation rule for field %q", field)
	}
	return rule(raw)
}

func validateName(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	// Character count, not byte count: multibyte names must not slip through.
	if utf8.RuneCountInString(v) < 3 {
		return "", fmt.Errorf("Name must be at least 3 characters long.")
	}
	return v, nil
}

func validateProjectType(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if len(strings.Fields(v)) < 2 {
		return "", fmt.Errorf("Project type must be described in at least two words.")
	}
	return v, nil
}

func validateDuration(raw string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("Duration must be a valid integer.")
	}
	if n <= 0 {
		return "", fmt.Errorf("Duration must be a positive number of weeks.")
	}
	return strconv.Itoa(n), nil
}

func validateBudget(raw string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("Budget must be a valid integer.")
	}
	if n <= 100 {
		return "", fmt.Errorf("Budget must be greater than $100.")
	}
	return strconv.Itoa(n), nil
}

// ValidateRecord re-checks a full set of answers against the rule table. The
// engine uses it as a display-time confirmation once the flow completes; the
// result is never persisted back into session state.
func ValidateRecord(answers map[string]string) error {
	for field := range fieldRules {
		if _, err := ValidateField(field, answers[field]); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	return nil
}
