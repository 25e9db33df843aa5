package errs

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ValidationError входные данные не прошли проверку, содержит все найденные нарушения
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// Validation накапливает сообщения проверки
type Validation struct {
	messages []string
}

func (v *Validation) Add(format string, args ...any) {
	v.messages = append(v.messages, fmt.Sprintf(format, args...))
}

func (v *Validation) Check(ok bool, format string, args ...any) {
	if !ok {
		v.Add(format, args...)
	}
}

// Merge добавляет сообщения из результата Validate()
func (v *Validation) Merge(err error) {
	if err == nil {
		return
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		v.messages = append(v.messages, validationErr.Messages...)
		return
	}
	v.messages = append(v.messages, err.Error())
}

func (v *Validation) Err() error {
	if len(v.messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: v.messages}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%v не найден", e.Entity)
	}
	return fmt.Sprintf("%v не найден (id=%v)", e.Entity, e.ID)
}

func NewNotFound(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// DependencyError ошибка хранилища или внешнего сервиса
type DependencyError struct {
	Op    string
	Cause error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%v: %v", e.Op, e.Cause)
}

func (e *DependencyError) Unwrap() error {
	return e.Cause
}

// Dependency оборачивает ошибку хранилища; ошибки таксономии возвращаются как есть
func Dependency(err error, op string) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return &DependencyError{Op: op, Cause: err}
}

type RuleEvaluationError struct {
	RuleID  string
	Message string
}

func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("правило перехода %v: %v", e.RuleID, e.Message)
}

func IsDomain(err error) bool {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		dependencyErr *DependencyError
		ruleErr       *RuleEvaluationError
	)
	return errors.As(err, &validationErr) ||
		errors.As(err, &notFoundErr) ||
		errors.As(err, &conflictErr) ||
		errors.As(err, &dependencyErr) ||
		errors.As(err, &ruleErr)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
