package v1

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/chatmeet/server/internal/errors"
)

// statusClientClosedRequest is the non-standard status for a request the
// client abandoned.
const statusClientClosedRequest = 499

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

var statusByCode = map[errors.ErrorCode]int{
	errors.ErrCodeInvalidArgument:    http.StatusBadRequest,
	errors.ErrCodeValidationFailed:   http.StatusUnprocessableEntity,
	errors.ErrCodeNotFound:           http.StatusNotFound,
	errors.ErrCodeRateLimited:        http.StatusTooManyRequests,
	errors.ErrCodeTimeout:            http.StatusGatewayTimeout,
	errors.ErrCodeContextCanceled:    statusClientClosedRequest,
	errors.ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	errors.ErrCodeSubmissionFailed:   http.StatusBadGateway,
}

// httpStatus maps an error code to an HTTP status; unknown codes are 500.
func httpStatus(code errors.ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes err as an ErrorResponse. Uncoded errors are logged and
// reported as internal errors without their message.
func respondError(c echo.Context, err error) error {
	code := errors.GetCodeFromError(err, "")
	if code == "" {
		requestLogger(c).Error("request failed", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL",
			Message: "internal error",
		})
	}

	message := err.Error()
	var coded *errors.CodedError
	if stderrors.As(err, &coded) {
		message = coded.Message
	}
	return c.JSON(httpStatus(code), ErrorResponse{Code: code, Message: message})
}
