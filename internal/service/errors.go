package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"agcbo/internal/model/sql"
	"agcbo/internal/storage"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("insufficient privileges")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountPending     = errors.New("account is awaiting approval")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidToken       = errors.New("token is invalid or has been revoked")
)

// Business rule codes surfaced to clients.
const (
	RuleEventFull          = "ERR_EVENT_FULL"
	RuleDeadlinePassed     = "ERR_DEADLINE_PASSED"
	RuleAlreadyRegistered  = "ERR_ALREADY_REGISTERED"
	RuleCannotDeleteSelf   = "ERR_CANNOT_DELETE_SELF"
	RuleProtectedAccount   = "ERR_PROTECTED_ACCOUNT"
	RuleDuplicate          = "ERR_DUPLICATE"
	RuleWrongRole          = "ERR_WRONG_ROLE"
	RuleNoMemberProfile    = "ERR_NO_MEMBER_PROFILE"
	RuleAlreadyCompleted   = "ERR_ALREADY_COMPLETED"
	RuleRegistrationClosed = "ERR_REGISTRATION_CLOSED"
)

// ValidationError collects per-field messages.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records the first message for field.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// Err returns e when it holds messages and nil otherwise.
func (e *ValidationError) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldError is a one-field ValidationError.
func FieldError(field, message string) *ValidationError {
	v := NewValidationError()
	v.Add(field, message)
	return v
}

// RuleError is a request refused by a business rule.
type RuleError struct {
	Code    string
	Message string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewRuleError(code, message string) *RuleError {
	return &RuleError{Code: code, Message: message}
}

// storageError maps repository sentinels onto service errors.
func storageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case sql.IsDuplicateKey(err):
		return NewRuleError(RuleDuplicate, "a record with the same unique value already exists")
	default:
		return err
	}
}

// oneOf reports whether value is one of allowed.
func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == value {
			return true
		}
	}
	return false
}

func required(v *ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "this field is required")
	}
}

// uploadError turns an upload rejection into a field error.
func uploadError(field string, err error) error {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return FieldError(field, "file is too large")
	case errors.Is(err, storage.ErrUnsupportedType):
		return FieldError(field, "unsupported file type")
	case errors.Is(err, storage.ErrEmptyPayload):
		return FieldError(field, "file is empty")
	}
	return err
}
