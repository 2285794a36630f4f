package validator

import (
	"strings"
	"unicode"

	"zajil/internal/apperr"
)

const minPasswordLength = 8

// よくあるパスワード（小文字で比較）
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"1234567890":  {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"letmein123":  {},
	"admin123":    {},
	"welcome1":    {},
	"azerty123":   {},
	"football":    {},
	"baseball":    {},
	"sunshine":    {},
	"princess":    {},
	"11111111":    {},
	"00000000":    {},
	"abc12345":    {},
}

// ValidatePassword はパスワード強度を見る。field はエラーに載せる項目名
func ValidatePassword(field, password, email string) error {
	if tooSimilar(password, email) {
		return apperr.Validation(field, "The password is too similar to the email.")
	}
	if len([]rune(password)) < minPasswordLength {
		return apperr.Validation(field, "This password is too short. It must contain at least 8 characters.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return apperr.Validation(field, "This password is too common.")
	}
	if isAllDigits(password) {
		return apperr.Validation(field, "This password is entirely numeric.")
	}
	return nil
}

// email全体かローカル部分と、どちらかが他方を含むなら似すぎ
func tooSimilar(password, email string) bool {
	p := strings.ToLower(password)
	e := strings.ToLower(strings.TrimSpace(email))
	if p == "" || e == "" {
		return false
	}
	local := e
	if i := strings.Index(e, "@"); i > 0 {
		local = e[:i]
	}
	for _, part := range []string{e, local} {
		if len(part) < 3 {
			continue
		}
		if strings.Contains(p, part) || strings.Contains(part, p) {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
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
