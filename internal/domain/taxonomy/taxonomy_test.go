package taxonomy

import "testing"

func TestDefault_Categories(t *testing.T) {
	tax := Default()

	tests := []struct {
		category Category
		want     int
	}{
		{CategoryKeyword, 31},
		{CategoryColor, 28},
		{CategoryPerformance, 9},
		{CategoryApplication, 10},
	}
	for _, tt := range tests {
		if got := len(tax.Values(tt.category)); got != tt.want {
			t.Errorf("len(Values(%s)) = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestContains_CaseSensitive(t *testing.T) {
	tax := Default()

	if !tax.Contains(CategoryKeyword, "Minimal") {
		t.Error("expected Minimal to be a keyword")
	}
	if tax.Contains(CategoryKeyword, "minimal") {
		t.Error("membership must be case-sensitive")
	}
	if tax.Contains(CategoryKeyword, "Brutalist") {
		t.Error("Brutalist is not in the vocabulary")
	}
	if !tax.Contains(CategoryColor, "Off-white") {
		t.Error("expected Off-white to be a color")
	}
	if !tax.Contains(CategoryApplication, "Interior Film") {
		t.Error("expected Interior Film to be an application")
	}
}

func TestValues_ReturnsCopy(t *testing.T) {
	tax := Default()

	values := tax.Values(CategoryPerformance)
	values[0] = "mutated"

	if tax.Values(CategoryPerformance)[0] == "mutated" {
		t.Error("Values must return a copy")
	}
}

func TestPromptList(t *testing.T) {
	tax := Default()

	list := tax.PromptList(CategoryApplication)
	if list == "" {
		t.Fatal("expected non-empty prompt list")
	}
	for _, v := range tax.Values(CategoryApplication) {
		if !containsLine(list, v) {
			t.Errorf("prompt list missing %q", v)
		}
	}
}

func containsLine(list, value string) bool {
	start := 0
	for i := 0; i <= len(list); i++ {
		if i == len(list) || list[i] == '\n' {
			if list[start:i] == value {
				return true
			}
			start = i + 1
		}
	}
	return false
}
