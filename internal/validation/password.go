package validation

import (
	"errors"
	"unicode/utf8"
)

const MinPasswordLength = 8

// ValidatePassword enforces the minimum length. It must run before any hashing.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return errors.New("비밀번호는 8자 이상이어야 합니다.")
	}

	return nil
}
