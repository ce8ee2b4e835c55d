package core

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// FieldErrors flattens validator.ValidationErrors and *ValidationError into field errors.
// ok is false for any other kind of error.
func FieldErrors(err error, translator ut.Translator) (flds []FieldError, ok bool) {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		flds = make([]FieldError, 0, len(origErr))
		for _, vErr := range origErr {
			// drop the top-level struct name: "NewSemester.courses[0].grade" -> "courses[0].grade"
			field := vErr.Namespace()
			if parts := strings.SplitN(field, ".", 2); len(parts) == 2 {
				field = parts[1]
			}
			flds = append(flds, FieldError{Field: field, Error: vErr.Translate(translator)})
		}
		return flds, true
	case *ValidationError:
		if origErr.Fields != nil {
			return origErr.Fields, true
		}
		return []FieldError{{Error: origErr.Error()}}, true
	}
	return nil, false
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
