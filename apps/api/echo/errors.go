package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/core/profile"
)

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		if flds, ok := core.FieldErrors(cause, translator); ok {
			code = http.StatusBadRequest
			message = fieldErrorsMap(flds)
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = origErr.Message
			case *grading.InputError:
				code = http.StatusBadRequest
				message = map[string]string{origErr.Field: origErr.Reason}
			default:
				switch cause {
				case profile.ErrNotFound, profile.ErrSemesterNotFound, profile.ErrScenarioNotFound:
					code = http.StatusNotFound
					message = cause.Error()
				case profile.ErrSemesterExists:
					code = http.StatusConflict
					message = messageAt(err, cause)
				case grading.ErrInsufficientData:
					code = http.StatusUnprocessableEntity
					message = cause.Error()
				case grading.ErrNoCourses, profile.ErrResetNotConfirmed:
					code = http.StatusBadRequest
					message = cause.Error()
				default: // any other error is a server error
					code = http.StatusInternalServerError
					msg := http.StatusText(http.StatusInternalServerError)
					message = msg

					logger.Error(msg, errors.Wrap(err, msg), map[string]interface{}{
						"method": ctx.Request().Method,
						"path":   ctx.Request().URL.Path,
					})

					// shutting down...
					if core.IsShutdown(err) {
						signalShutdown()
					}
				}
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func fieldErrorsMap(flds []core.FieldError) map[string]string {
	m := make(map[string]string, len(flds))
	for _, f := range flds {
		field := f.Field
		if field == "" {
			field = "error"
		}
		m[field] = f.Error
	}
	return m
}

// messageAt returns the message of the innermost wrap of target in err, e.g.
// "Level 100 - Semester 1: semester already saved" without the handler's own context.
func messageAt(err, target error) string {
	type causer interface {
		Cause() error
	}
	for err != nil {
		c, ok := err.(causer)
		if !ok {
			break
		}
		if c.Cause() == target {
			return err.Error()
		}
		err = c.Cause()
	}
	return target.Error()
}
