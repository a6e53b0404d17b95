package admin

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/paycollect/paycollect/core"
)

// password policy
var (
	pwdMinLen     = 6
	pwdMinLenText = "password must contain at least 6 characters"

	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimText = "password cannot be similar to the username"
)

// validatePassword enforces the admin password policy.
func validatePassword(pwd, username string) error {
	var fldErrs []core.FieldError
	fldErr := func(text string) {
		fldErrs = append(fldErrs, core.FieldError{Field: "password", Error: text})
	}

	if len(pwd) < pwdMinLen {
		fldErr(pwdMinLenText)
	}
	if strings.IndexFunc(pwd, unicode.IsSpace) >= 0 {
		fldErr(pwdNoSpaceText)
	}
	if allNumeric(pwd) {
		fldErr(pwdNotAllNumText)
	}
	if tooSimilar(pwd, username) {
		fldErr(pwdAttrSimText)
	}

	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}

func allNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func tooSimilar(pwd, attr string) bool {
	if attr == "" {
		return false
	}
	matcher := difflib.NewMatcher(
		strings.Split(strings.ToLower(pwd), ""),
		strings.Split(strings.ToLower(attr), ""),
	)
	return matcher.Ratio() >= pwdMaxSim
}
