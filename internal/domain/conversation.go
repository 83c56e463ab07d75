// Package domain provides the core types for conversation evaluation:
// conversation messages, per-evaluator results, aggregate evaluations,
// and model comparison results. Types are designed to be immutable once
// constructed, with every numeric score clamped into [0, 1] so that
// downstream consumers never observe an out-of-range value regardless of
// what an external judge returned.
package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Role identifies who authored a conversation message.
type Role string

const (
	// RoleUser marks a message written by the end user.
	RoleUser Role = "user"

	// RoleAssistant marks a message written by the AI assistant.
	RoleAssistant Role = "assistant"
)

// Common conversation errors returned by domain operations.
var (
	// ErrEmptyConversation indicates that a conversation contains no messages.
	ErrEmptyConversation = errors.New("conversation must contain at least one message")

	// ErrInvalidRole indicates a message role outside the user/assistant set.
	ErrInvalidRole = errors.New("invalid message role")
)

// validate is the package-level validator instance used for struct validation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ConversationMessage is a single turn in a conversation. Ordering within a
// conversation is semantically meaningful: the last assistant message is the
// response under evaluation and the last user message is the prompt under
// evaluation.
type ConversationMessage struct {
	Role    Role   `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// Conversation is an ordered, immutable sequence of messages.
type Conversation []ConversationMessage

// Validate checks that the conversation is non-empty and every message
// carries a known role and non-empty content.
func (c Conversation) Validate() error {
	if len(c) == 0 {
		return ErrEmptyConversation
	}
	for i, msg := range c {
		if err := validate.Struct(msg); err != nil {
			return fmt.Errorf("message %d: %w", i, errors.Join(ErrInvalidRole, err))
		}
	}
	return nil
}

// LastAssistant returns the content of the most recent assistant message.
// The boolean reports whether any assistant message exists.
func (c Conversation) LastAssistant() (string, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == RoleAssistant {
			return c[i].Content, true
		}
	}
	return "", false
}

// LastUser returns the content of the most recent user message.
// The boolean reports whether any user message exists.
func (c Conversation) LastUser() (string, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Role == RoleUser {
			return c[i].Content, true
		}
	}
	return "", false
}

// Text renders the full conversation as newline-joined message contents.
// This is the canonical input for local token counting.
func (c Conversation) Text() string {
	parts := make([]string, len(c))
	for i, msg := range c {
		parts[i] = msg.Content
	}
	return strings.Join(parts, "\n")
}

// Transcript renders the conversation with role prefixes for judge prompts,
// e.g. "USER: ...\nASSISTANT: ...".
func (c Conversation) Transcript() string {
	var b strings.Builder
	for i, msg := range c {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.ToUpper(string(msg.Role)))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}
