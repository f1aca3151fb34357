// Package validation implements the stateless field rules for the expense
// entry form. Every function is pure: malformed input never produces a Go
// error, only a structured result with a user-facing message.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"expensetracker/internal/core"
)

const (
	MinTitleLength = 3
	MaxTitleLength = 50
	MaxNotesLength = 200
	minAmount      = 0.01
	maxAmount      = 999999.99
)

var (
	titleCharset = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.,()]+$`)
	notesDenied  = regexp.MustCompile(`[<>"'&]`)
)

// ValidationResult is the verdict for a single field.
type ValidationResult struct {
	IsValid      bool
	ErrorMessage string
}

func valid() ValidationResult {
	return ValidationResult{IsValid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{ErrorMessage: msg}
}

// FormValidationState aggregates the per-field results. IsFormValid is the
// AND of all four field verdicts.
type FormValidationState struct {
	Title       ValidationResult
	Amount      ValidationResult
	Category    ValidationResult
	Notes       ValidationResult
	IsFormValid bool
}

// ValidateTitle checks blankness first, then length, then charset. The order
// decides which single message surfaces.
func ValidateTitle(title string) ValidationResult {
	switch {
	case strings.TrimSpace(title) == "":
		return invalid("Title is required")
	case utf8.RuneCountInString(title) < MinTitleLength:
		return invalid("Title must be at least 3 characters")
	case utf8.RuneCountInString(title) > MaxTitleLength:
		return invalid("Title must not exceed 50 characters")
	case !titleCharset.MatchString(title):
		return invalid("Title contains invalid characters")
	default:
		return valid()
	}
}

// ValidateAmount checks the raw amount string: blank, format, then the parsed
// value against the bounds. The trailing decimal-places check overlaps with
// the format pattern; both guards are kept because they fail from different
// entry points.
func ValidateAmount(amount string) ValidationResult {
	if strings.TrimSpace(amount) == "" {
		return invalid("Amount is required")
	}
	if !core.ValidAmountFormat(amount) {
		return invalid("Please enter a valid amount")
	}

	value, err := strconv.ParseFloat(amount, 64)
	switch {
	case err != nil:
		return invalid("Invalid amount format")
	case value < minAmount:
		return invalid("Amount must be at least 0.01")
	case value > maxAmount:
		return invalid("Amount cannot exceed 999999.99")
	case !validDecimalPlaces(amount):
		return invalid("Amount can have at most 2 decimal places")
	default:
		return valid()
	}
}

func validDecimalPlaces(amount string) bool {
	i := strings.IndexByte(amount, '.')
	if i == -1 {
		return true
	}
	return len(amount)-i-1 <= 2
}

// ValidateCategory fails only when no category was supplied. The entry form
// always provides a default, so this path is rarely taken in practice.
func ValidateCategory(category *core.Category) ValidationResult {
	if category == nil {
		return invalid("Please select a category")
	}
	return valid()
}

// ValidateNotes allows empty input; when present, notes are length-capped and
// must not contain markup-sensitive characters.
func ValidateNotes(notes string) ValidationResult {
	switch {
	case utf8.RuneCountInString(notes) > MaxNotesLength:
		return invalid("Notes must not exceed 200 characters")
	case notesDenied.MatchString(notes):
		return invalid("Notes contain invalid characters")
	default:
		return valid()
	}
}

// ValidateForm runs all four field validations independently, without
// short-circuiting, so every field error surfaces at once.
func ValidateForm(title, amount string, category *core.Category, notes string) FormValidationState {
	titleResult := ValidateTitle(title)
	amountResult := ValidateAmount(amount)
	categoryResult := ValidateCategory(category)
	notesResult := ValidateNotes(notes)

	return FormValidationState{
		Title:       titleResult,
		Amount:      amountResult,
		Category:    categoryResult,
		Notes:       notesResult,
		IsFormValid: titleResult.IsValid && amountResult.IsValid &&
			categoryResult.IsValid && notesResult.IsValid,
	}
}

// SanitizeInput trims, collapses whitespace runs to single spaces, and caps
// the input length. Applied by callers before field validation.
func SanitizeInput(input string) string {
	s := strings.Join(strings.Fields(input), " ")
	if len(s) > 1000 {
		s = s[:1000]
	}
	return s
}
