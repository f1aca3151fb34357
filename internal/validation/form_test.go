package validation

import (
	"strings"
	"testing"

	"expensetracker/internal/core"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		valid   bool
		message string
	}{
		{"valid", "Lunch", true, ""},
		{"valid with allowed punctuation", "Team lunch (Q3), on-site", true, ""},
		{"blank", "", false, "Title is required"},
		{"whitespace only", "   ", false, "Title is required"},
		{"too short", "ab", false, "Title must be at least 3 characters"},
		{"too long", strings.Repeat("a", 51), false, "Title must not exceed 50 characters"},
		{"max length ok", strings.Repeat("a", 50), true, ""},
		{"invalid characters", "Lunch <script>", false, "Title contains invalid characters"},
		{"ampersand", "Fish & Chips", false, "Title contains invalid characters"},
		{"blank precedes length", " ", false, "Title is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateTitle(tt.title)
			if got.IsValid != tt.valid {
				t.Fatalf("ValidateTitle(%q).IsValid = %v, want %v", tt.title, got.IsValid, tt.valid)
			}
			if got.ErrorMessage != tt.message {
				t.Fatalf("ValidateTitle(%q) message = %q, want %q", tt.title, got.ErrorMessage, tt.message)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		valid   bool
		message string
	}{
		{"valid integer", "42", true, ""},
		{"valid one decimal", "42.5", true, ""},
		{"valid two decimals", "42.50", true, ""},
		{"minimum", "0.01", true, ""},
		{"maximum", "999999.99", true, ""},
		{"blank", "", false, "Amount is required"},
		{"whitespace only", "  ", false, "Amount is required"},
		{"negative", "-5", false, "Please enter a valid amount"},
		{"letters", "abc", false, "Please enter a valid amount"},
		{"comma separator", "12,34", false, "Please enter a valid amount"},
		{"exponent", "1e3", false, "Please enter a valid amount"},
		{"three decimals", "12.345", false, "Please enter a valid amount"},
		{"below minimum", "0", false, "Amount must be at least 0.01"},
		{"below minimum decimal", "0.00", false, "Amount must be at least 0.01"},
		{"above maximum", "1000000", false, "Amount cannot exceed 999999.99"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateAmount(tt.amount)
			if got.IsValid != tt.valid {
				t.Fatalf("ValidateAmount(%q).IsValid = %v, want %v", tt.amount, got.IsValid, tt.valid)
			}
			if got.ErrorMessage != tt.message {
				t.Fatalf("ValidateAmount(%q) message = %q, want %q", tt.amount, got.ErrorMessage, tt.message)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	if got := ValidateCategory(nil); got.IsValid || got.ErrorMessage != "Please select a category" {
		t.Fatalf("ValidateCategory(nil) = %+v", got)
	}
	c := core.CategoryFood
	if got := ValidateCategory(&c); !got.IsValid {
		t.Fatalf("ValidateCategory(FOOD) = %+v", got)
	}
}

func TestValidateNotes(t *testing.T) {
	tests := []struct {
		name    string
		notes   string
		valid   bool
		message string
	}{
		{"empty is fine", "", true, ""},
		{"normal", "paid in cash", true, ""},
		{"max length ok", strings.Repeat("n", 200), true, ""},
		{"too long", strings.Repeat("n", 201), false, "Notes must not exceed 200 characters"},
		{"angle bracket", "a < b", false, "Notes contain invalid characters"},
		{"quote", `say "hi"`, false, "Notes contain invalid characters"},
		{"apostrophe", "it's fine", false, "Notes contain invalid characters"},
		{"ampersand", "tom & jerry", false, "Notes contain invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateNotes(tt.notes)
			if got.IsValid != tt.valid {
				t.Fatalf("ValidateNotes(%q).IsValid = %v, want %v", tt.notes, got.IsValid, tt.valid)
			}
			if got.ErrorMessage != tt.message {
				t.Fatalf("ValidateNotes(%q) message = %q, want %q", tt.notes, got.ErrorMessage, tt.message)
			}
		})
	}
}

func TestValidateFormAggregates(t *testing.T) {
	food := core.CategoryFood

	form := ValidateForm("Lunch", "12.50", &food, "")
	if !form.IsFormValid {
		t.Fatalf("valid form rejected: %+v", form)
	}

	// Every field is validated independently, no short-circuiting.
	form = ValidateForm("", "bad", nil, strings.Repeat("n", 201))
	if form.IsFormValid {
		t.Fatal("invalid form accepted")
	}
	if form.Title.IsValid || form.Amount.IsValid || form.Category.IsValid || form.Notes.IsValid {
		t.Fatalf("expected all fields invalid: %+v", form)
	}
	if form.Title.ErrorMessage != "Title is required" {
		t.Errorf("title message = %q", form.Title.ErrorMessage)
	}
	if form.Amount.ErrorMessage != "Please enter a valid amount" {
		t.Errorf("amount message = %q", form.Amount.ErrorMessage)
	}

	// One bad field is enough to invalidate the aggregate.
	form = ValidateForm("Lunch", "12.50", &food, "a & b")
	if form.IsFormValid {
		t.Fatal("form with bad notes accepted")
	}
	if !form.Title.IsValid || !form.Amount.IsValid || !form.Category.IsValid {
		t.Fatalf("unrelated fields flagged: %+v", form)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  world  ", "hello world"},
		{"a\t\nb", "a b"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeInput(tt.input); got != tt.want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	long := strings.Repeat("x", 1500)
	if got := SanitizeInput(long); len(got) != 1000 {
		t.Errorf("SanitizeInput(long) length = %d, want 1000", len(got))
	}
}
