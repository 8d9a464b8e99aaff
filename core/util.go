package core

import "strings"

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Confirmation is the operator's answer to a y/n question.
type Confirmation int

const (
	ConfirmUnrecognized Confirmation = iota
	ConfirmYes
	ConfirmNo
)

// ParseConfirmation accepts y/yes and n/no in any case. Anything else is unrecognized.
func ParseConfirmation(s string) Confirmation {
	switch CleanString(s, true /* lower */) {
	case "y", "yes":
		return ConfirmYes
	case "n", "no":
		return ConfirmNo
	default:
		return ConfirmUnrecognized
	}
}

// Affirmative reports whether the answer allows the guarded action. Unrecognized answers count as no.
func (c Confirmation) Affirmative() bool {
	return c == ConfirmYes
}

func (c Confirmation) String() string {
	switch c {
	case ConfirmYes:
		return "yes"
	case ConfirmNo:
		return "no"
	default:
		return "unrecognized"
	}
}
