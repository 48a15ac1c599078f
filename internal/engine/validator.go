package engine

import (
	"errors"
	"regexp"
	"strings"

	"github.com/tartampluch/go-jubileum/internal/config"
)

// Classified outcomes surfaced to the presentation layer.
var (
	ErrInvalidName     = errors.New(config.ErrInvalidName)
	ErrInvalidDate     = errors.New(config.ErrInvalidDate)
	ErrEmptyRegistry   = errors.New(config.ErrEmptyRegistry)
	ErrNoJubileumFound = errors.New(config.ErrNoJubileumFound)
)

var (
	namePattern = regexp.MustCompile(config.PatternName)
	datePattern = regexp.MustCompile(config.PatternDate)
)

// IsNameValid reports whether the trimmed name is 2-26 letters or spaces.
func IsNameValid(name string) bool {
	return namePattern.MatchString(strings.TrimSpace(name))
}

// IsDateValid reports whether text is DD-MM-YYYY and names an existing calendar day.
func IsDateValid(text string) bool {
	if !datePattern.MatchString(text) {
		return false
	}
	_, err := ParseDate(text)
	return err == nil
}

// ValidateInput returns the first rule the input violates, or nil.
func ValidateInput(name, birthdate string) error {
	if !IsNameValid(name) {
		return ErrInvalidName
	}
	if !IsDateValid(birthdate) {
		return ErrInvalidDate
	}
	return nil
}
