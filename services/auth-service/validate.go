package main

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// isValidEmail validates email format
func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// isValidPassword checks password strength
func isValidPassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > 100 {
		return false, "Password too long"
	}
	return true, ""
}

// isValidName rejects blank or too-short display names
func isValidName(name string) bool {
	return len(strings.TrimSpace(name)) >= 3
}

// isValidPhone accepts digits with an optional leading + and common separators
func isValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, phone)

	if strings.HasPrefix(cleaned, "+") {
		cleaned = cleaned[1:]
	}
	if len(cleaned) < 7 || len(cleaned) > 15 {
		return false
	}
	for _, c := range cleaned {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
