package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail validates email format and length
// Uses Go's built-in net/mail parser which follows RFC 5322
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("이메일을 입력해주세요.")
	}

	// RFC 5321: total max 254 with @
	if len(email) > 254 {
		return errors.New("이메일이 너무 깁니다. (최대 254자)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("올바른 이메일 형식이 아닙니다.")
	}

	return nil
}
