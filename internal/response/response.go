package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the success envelope returned to the bot.
type APIResponse struct {
	Data      any    `json:"data"`
	Status    int    `json:"status"`
	Message   string `json:"message,omitempty"`
	Path      string `json:"path"`
	RequestID string `json:"request_id,omitempty"`
}

// APIError is the error envelope. Message is safe to show in chat; Error is
// the detail for logs.
type APIError struct {
	Message   string `json:"message"`
	Error     string `json:"error"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

func pathOf(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().URL.Path
}

// requestID is the id set by the RequestID middleware, if any.
func requestID(c echo.Context) string {
	if c == nil || c.Response() == nil {
		return ""
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

func success(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, APIResponse{
		Data:      data,
		Status:    status,
		Message:   message,
		Path:      pathOf(c),
		RequestID: requestID(c),
	})
}

func OK(c echo.Context, data any, message string) error {
	return success(c, http.StatusOK, data, message)
}

func Created(c echo.Context, data any, message string) error {
	return success(c, http.StatusCreated, data, message)
}

func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Error sends an APIError with the given status.
func Error(c echo.Context, status int, message, errDetail string) error {
	return c.JSON(status, APIError{
		Message:   message,
		Error:     errDetail,
		Path:      pathOf(c),
		Status:    status,
		RequestID: requestID(c),
	})
}

func BadRequest(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusBadRequest, message, errDetail)
}

func Forbidden(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusForbidden, message, errDetail)
}

func NotFound(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusNotFound, message, errDetail)
}

// TooLarge is sent when an upload exceeds ingest.max_upload_bytes.
func TooLarge(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusRequestEntityTooLarge, message, errDetail)
}

// Unprocessable is sent for a log export that could not be read.
func Unprocessable(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusUnprocessableEntity, message, errDetail)
}

func InternalError(c echo.Context, message, errDetail string) error {
	return Error(c, http.StatusInternalServerError, message, errDetail)
}
