package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// checkText rejects bytes no backend can store as text.
func checkText(field, s string) error {
	if !utf8.ValidString(s) {
		return &ValidationError{Field: field, Message: "must be valid UTF-8"}
	}
	if strings.IndexByte(s, 0) >= 0 {
		return &ValidationError{Field: field, Message: "must not contain NUL bytes"}
	}
	return nil
}

// NormalizeTitle trims the title and checks it is non-empty and within MaxTitleLength.
func NormalizeTitle(title string) (string, error) {
	if err := checkText("title", title); err != nil {
		return "", err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Message: "must not be empty"}
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return "", &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("must be at most %d characters, got %d", MaxTitleLength, n),
		}
	}
	return title, nil
}

// ValidateDescription checks the optional description is storable text within MaxDescriptionLength.
func ValidateDescription(description string) error {
	if err := checkText("description", description); err != nil {
		return err
	}
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return &ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("must be at most %d characters, got %d", MaxDescriptionLength, n),
		}
	}
	return nil
}
