package handler

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

const minPasswordLength = 10

var classificationNamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// validator collects form errors in the order the checks run.
type validator struct {
	errs []string
}

func (v *validator) check(ok bool, msg string) {
	if !ok {
		v.errs = append(v.errs, msg)
	}
}

func (v *validator) required(value, msg string) {
	v.check(strings.TrimSpace(value) != "", msg)
}

func (v *validator) email(value string) {
	v.check(validEmail(value), "A valid email is required.")
}

func (v *validator) password(value string) {
	v.check(strongPassword(value), "Password does not meet requirements.")
}

func (v *validator) valid() bool {
	return len(v.errs) == 0
}

// validEmail accepts a bare address only, no display name.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// strongPassword requires minPasswordLength characters including an
// uppercase letter, a lowercase letter, a digit and a symbol.
func strongPassword(s string) bool {
	if len([]rune(s)) < minPasswordLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, c := range s {
		switch {
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsLower(c):
			lower = true
		case unicode.IsDigit(c):
			digit = true
		case unicode.IsSpace(c):
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
