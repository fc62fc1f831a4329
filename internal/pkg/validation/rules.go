package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Subject codes are uppercase letters followed by digits, e.g. CS101.
	SubjectCodePattern = `^[A-Z]{2,6}[0-9]{2,4}[A-Z]?$`

	// Password min length
	PasswordMinLength = 8
	// bcrypt ignores everything past 72 bytes
	PasswordMaxLength = 72

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	SubjectCode *regexp.Regexp
}{
	SubjectCode: regexp.MustCompile(SubjectCodePattern),
}

// IsValidPassword requires the length bounds plus at least one letter and one digit.
func IsValidPassword(password string) bool {
	if len(password) < PasswordMinLength || len(password) > PasswordMaxLength {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

// NormalizeSubjectCode trims and uppercases a subject code.
func NormalizeSubjectCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidSubjectCode checks a code after normalization.
func IsValidSubjectCode(code string) bool {
	return CompiledPatterns.SubjectCode.MatchString(NormalizeSubjectCode(code))
}

// RegisterCustomValidators adds the "password" and "subjectcode" tags to v.
func RegisterCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return IsValidPassword(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("subjectcode", func(fl validator.FieldLevel) bool {
		return IsValidSubjectCode(fl.Field().String())
	})
}
