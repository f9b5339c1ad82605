// Package validation provides request input validation for the MediCure API.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/medicure/medicure-api/assistant"
	"github.com/medicure/medicure-api/interfaces"
)

// ErrInvalid is wrapped into every validation failure, so callers can map
// any rejected input to a client error with errors.Is.
var ErrInvalid = errors.New("invalid input")

// Input length limits in bytes. Query terms are medicine names or health
// issues; messages are free-form chat text.
const (
	maxQueryTermLength = 200
	maxMessageLength   = 4000
)

// Dangerous patterns as strings (faster than regex for simple substring
// matching). Query terms are echoed back inside JSON responses, so markup
// and script fragments are rejected outright. Free-form chat messages are
// not screened this way: they go to the AI provider as plain text and
// legitimate medical questions use arbitrary punctuation.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "vbscript:", "onload=", "onerror=",
	"onclick=", "onmouseover=", "eval(", "expression(",
	"../", "..\\", "%2e%2e", "file://",
}

// InputValidatorImpl implements the interfaces.InputValidator interface
type InputValidatorImpl struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() interfaces.InputValidator {
	return &InputValidatorImpl{}
}

// ValidateQueryTerm checks a medicine name or health issue and returns the
// trimmed value. The term must be non-empty after trimming, fit the length
// limit, and be free of control characters and markup fragments.
func (v *InputValidatorImpl) ValidateQueryTerm(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("%w: input cannot be empty", ErrInvalid)
	}

	if len(trimmed) > maxQueryTermLength {
		return "", fmt.Errorf("%w: input too long, maximum %d characters", ErrInvalid, maxQueryTermLength)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: input contains control characters", ErrInvalid)
		}
	}

	lowerInput := strings.ToLower(trimmed)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return "", fmt.Errorf("%w: input contains potentially dangerous content", ErrInvalid)
		}
	}

	if hasExcessiveRepetition(trimmed) {
		return "", fmt.Errorf("%w: input contains excessive character repetition", ErrInvalid)
	}

	return trimmed, nil
}

// ValidateMessage checks a free-form chat message and returns the trimmed
// value. Only emptiness and length are enforced; content is unrestricted.
func (v *InputValidatorImpl) ValidateMessage(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("%w: message cannot be empty", ErrInvalid)
	}

	if len(trimmed) > maxMessageLength {
		return "", fmt.Errorf("%w: message too long, maximum %d characters", ErrInvalid, maxMessageLength)
	}

	return trimmed, nil
}

// ValidateChatHistory checks that every prior turn carries a known role.
// Accepted roles are "user", "model" and "assistant" (case-insensitive);
// anything else means the client is sending a shape we do not understand.
func (v *InputValidatorImpl) ValidateChatHistory(history []assistant.Turn) error {
	for i, turn := range history {
		switch strings.ToLower(strings.TrimSpace(turn.Role)) {
		case "user", "model", "assistant":
		default:
			return fmt.Errorf("%w: chat history turn %d has unknown role %q", ErrInvalid, i, turn.Role)
		}

		if len(turn.Content) > maxMessageLength {
			return fmt.Errorf("%w: chat history turn %d too long, maximum %d characters", ErrInvalid, i, maxMessageLength)
		}
	}
	return nil
}

// hasExcessiveRepetition checks for potential DoS patterns with excessive character repetition
func hasExcessiveRepetition(input string) bool {
	// Check for the same character repeated more than 10 times consecutively
	for i := 0; i < len(input)-10; i++ {
		allSame := true
		for j := 1; j <= 10; j++ {
			if input[i] != input[i+j] {
				allSame = false
				break
			}
		}
		if allSame {
			return true
		}
	}
	return false
}
