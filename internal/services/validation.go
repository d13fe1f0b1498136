package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxNicknameLen = 50

var (
	ErrInvalidGroupID = errors.New("group id must be a non-empty digit string")
	ErrInvalidUserID  = errors.New("user id must be a non-empty digit string")
)

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func ValidateGroupID(id string) error {
	if !isDigits(id) {
		return ErrInvalidGroupID
	}
	return nil
}

func ValidateUserID(id string) error {
	if !isDigits(id) {
		return ErrInvalidUserID
	}
	return nil
}

// SanitizeNickname trims whitespace and caps overly long names. An empty
// result falls back to a synthetic name derived from the user id.
func SanitizeNickname(nickname, userID string) string {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return fmt.Sprintf("User%s", userID)
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLen {
		runes := []rune(nickname)
		nickname = string(runes[:maxNicknameLen])
	}
	return nickname
}
