package services

import (
	"errors"
	"fmt"
	"strings"
)

// Общие ошибки, используемые в сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrParticipantNotFound = errors.New("participant not found in this tournament")
	ErrSessionNotFound     = errors.New("editor session not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed    = errors.New("validation failed")
	ErrBracketSizeMismatch = errors.New("number of participants does not match the bracket size")
	ErrAlreadyGenerated    = errors.New("first round has already been generated")
	ErrNotLoaded           = errors.New("standings are not loaded")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
)

// ValidationError содержит все нарушенные правила. В HTTP-ответе это
// {"message": Summary, "errors": Errors}.
type ValidationError struct {
	Summary string
	Errors  []string
}

func (e *ValidationError) Error() string {
	return FormatErrorDetail(e.Summary, e.Errors)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// RemoteError - неудачный вызов бэкенда турнирной таблицы.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Errors     []string
	Err        error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Detail()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
}

// Detail - сообщение бэкенда в виде для показа пользователю.
func (e *RemoteError) Detail() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return FormatErrorDetail(e.Message, e.Errors)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// FormatErrorDetail renders "message: e1; e2" when details are present and
// "message." otherwise.
func FormatErrorDetail(message string, details []string) string {
	if len(details) == 0 {
		return message + "."
	}
	return message + ": " + strings.Join(details, "; ")
}
