package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/music-manager/internal/apperr"
)

// respond wraps a successful result in the shared envelope.  Errors never
// pass through here; they surface via the registered error handler.
func respond(c echo.Context, message string, result any) error {
	return c.JSON(http.StatusOK, apperr.Envelope{Code: 200, Message: message, Result: result})
}
