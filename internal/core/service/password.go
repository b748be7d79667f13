package service

import "unicode"

const minPasswordLength = 12

// CheckPasswordStrength enforces the registration password policy: at least
// twelve characters with one lowercase letter, one uppercase letter, one
// digit and one symbol. Checked before hashing so weak passwords never cost
// a bcrypt round.
func CheckPasswordStrength(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
