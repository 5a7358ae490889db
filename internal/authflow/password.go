// Package authflow holds the form rules of the login, sign-up, OTP and
// password-reset screens. The visitor service re-validates everything; these
// checks only decide whether a form may be submitted.
package authflow

import (
	"strings"
	"unicode/utf8"
)

// SpecialCharacters is the punctuation a password must draw at least one
// character from.
const SpecialCharacters = `!@#$%^&*(),.?":{}|<>`

const MinPasswordLength = 8

// PasswordChecks is the outcome of each password rule, shown to the user as
// a checklist while typing.
type PasswordChecks struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
}

func CheckPassword(pw string) PasswordChecks {
	c := PasswordChecks{
		Length:  utf8.RuneCountInString(pw) >= MinPasswordLength,
		Special: strings.ContainsAny(pw, SpecialCharacters),
	}
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			c.Uppercase = true
		case r >= 'a' && r <= 'z':
			c.Lowercase = true
		case r >= '0' && r <= '9':
			c.Number = true
		}
	}
	return c
}

// Valid is true only when every rule passes.
func (c PasswordChecks) Valid() bool {
	return c.Length && c.Uppercase && c.Lowercase && c.Number && c.Special
}
