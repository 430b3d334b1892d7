package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	e := echo.New()
	cases := []struct {
		name   string
		send   func(echo.Context) error
		status int
		body   string
	}{
		{"ok", func(c echo.Context) error { return OK(c, map[string]int{"n": 1}, "done") }, http.StatusOK, `"data":{"n":1}`},
		{"created", func(c echo.Context) error { return Created(c, "x", "") }, http.StatusCreated, `"status":201`},
		{"forbidden", func(c echo.Context) error { return Forbidden(c, "nope", "owner mismatch") }, http.StatusForbidden, `"error":"owner mismatch"`},
		{"too large", func(c echo.Context) error { return TooLarge(c, "big", "limit") }, http.StatusRequestEntityTooLarge, `"message":"big"`},
		{"unprocessable", func(c echo.Context) error { return Unprocessable(c, "bad log", "missing Name") }, http.StatusUnprocessableEntity, `"path":"/act-records"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/act-records", nil)
			rec := httptest.NewRecorder()
			require.NoError(t, tc.send(e.NewContext(req, rec)))
			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestEnvelopes_RequestID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-42")

	require.NoError(t, NotFound(c, "missing", "no row"))
	assert.Contains(t, rec.Body.String(), `"request_id":"req-42"`)
}
