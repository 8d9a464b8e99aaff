package core

import "testing"

func TestParseConfirmation(t *testing.T) {
	tests := []struct {
		in   string
		want Confirmation
	}{
		{in: "y", want: ConfirmYes},
		{in: "Y", want: ConfirmYes},
		{in: "yes", want: ConfirmYes},
		{in: "YeS", want: ConfirmYes},
		{in: "  yes \t", want: ConfirmYes},
		{in: "n", want: ConfirmNo},
		{in: "No", want: ConfirmNo},
		{in: "", want: ConfirmUnrecognized},
		{in: "ye", want: ConfirmUnrecognized},
		{in: "yess", want: ConfirmUnrecognized},
		{in: "sure", want: ConfirmUnrecognized},
		{in: "1", want: ConfirmUnrecognized},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseConfirmation(tt.in); got != tt.want {
				t.Errorf("ParseConfirmation(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestConfirmation_Affirmative(t *testing.T) {
	if !ConfirmYes.Affirmative() {
		t.Error("ConfirmYes should be affirmative")
	}
	if ConfirmNo.Affirmative() {
		t.Error("ConfirmNo should not be affirmative")
	}
	if ConfirmUnrecognized.Affirmative() {
		t.Error("unrecognized answers should count as no")
	}
}

func TestCleanString(t *testing.T) {
	if got := CleanString("  CS101 \n"); got != "CS101" {
		t.Errorf("CleanString() = %q", got)
	}
	if got := CleanString(" YES ", true); got != "yes" {
		t.Errorf("CleanString(lower) = %q", got)
	}
}
