package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// SuccessResponse writes a success envelope with data.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// AckResponse writes a success envelope carrying only a message; the command
// surface uses it so callers re-query instead of reading data from the ack.
func AckResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, APIResponse{Success: true, Message: message})
}

// BadRequestResponse writes a validation-failure envelope with field details.
func BadRequestResponse(c echo.Context, details interface{}) error {
	return c.JSON(http.StatusBadRequest, APIResponse{
		Success: false,
		Data:    details,
		Code:    "ERR_VALIDATION",
		Message: http.StatusText(http.StatusBadRequest),
	})
}

// InternalServerErrorResponse writes an internal error envelope.
func InternalServerErrorResponse(c echo.Context) error {
	return AppErrorResponse(c, InternalError("something went wrong"))
}

// AppErrorResponse maps an AppError onto the envelope; unknown errors become 500s.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError("something went wrong")
	}
	if appErr.RetryAfter > 0 {
		c.Response().Header().Set("Retry-After", strconv.Itoa(int(appErr.RetryAfter.Seconds())))
	}
	return c.JSON(appErr.Status, APIResponse{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
