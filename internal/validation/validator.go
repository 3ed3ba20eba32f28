package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 8
	// MaxUsernameLength is the maximum accepted username length
	MaxUsernameLength = 50
	// MaxHeadingLength is the maximum accepted post heading length
	MaxHeadingLength = 200
)

// FieldError represents a single field validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateEmail checks the email format
func ValidateEmail(email string) *FieldError {
	if strings.TrimSpace(email) == "" {
		return &FieldError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return &FieldError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateUsername checks the username is present and within bounds
func ValidateUsername(username string) *FieldError {
	username = strings.TrimSpace(username)
	if username == "" {
		return &FieldError{Field: "username", Message: "username is required"}
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return &FieldError{Field: "username", Message: "username is too long"}
	}
	return nil
}

// ValidatePassword checks the password length
func ValidatePassword(password string) *FieldError {
	if password == "" {
		return &FieldError{Field: "password", Message: "password is required"}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &FieldError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidatePost checks heading and content for post creation
func ValidatePost(heading, content string) *FieldError {
	if strings.TrimSpace(heading) == "" || strings.TrimSpace(content) == "" {
		return &FieldError{Field: "heading", Message: "heading and content are required"}
	}
	if utf8.RuneCountInString(heading) > MaxHeadingLength {
		return &FieldError{Field: "heading", Message: "heading is too long"}
	}
	return nil
}

// ValidateCommentText checks a comment body is non-empty
func ValidateCommentText(text string) *FieldError {
	if strings.TrimSpace(text) == "" {
		return &FieldError{Field: "text", Message: "comment text is required"}
	}
	return nil
}
