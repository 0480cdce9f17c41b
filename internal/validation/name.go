package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateName validates an optional display name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if utf8.RuneCountInString(trimmed) > 100 {
		return errors.New("이름이 너무 깁니다. (최대 100자)")
	}

	return nil
}
