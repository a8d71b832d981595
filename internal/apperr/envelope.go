package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response body: code 200 signals success, any
// other code identifies a member of the taxonomy above.  Result is omitted
// when nil.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// HTTPErrorHandler renders every error escaping a handler as an enveloped
// taxonomy entry.  echo.HTTPError values (unknown routes, malformed bodies
// rejected by Bind) are folded into generic codes so framework internals
// stay hidden.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ae *Error
	if !errors.As(err, &ae) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			switch he.Code {
			case http.StatusNotFound, http.StatusMethodNotAllowed:
				ae = &Error{Code: he.Code, Message: http.StatusText(he.Code), Status: he.Code}
			default:
				ae = ErrInvalidRequest
			}
		} else {
			ae = ErrUncategorized
			c.Logger().Errorf("unhandled error: %v", err)
		}
	}

	if jsonErr := c.JSON(ae.Status, Envelope{Code: ae.Code, Message: ae.Message}); jsonErr != nil {
		c.Logger().Errorf("write error response: %v", jsonErr)
	}
}
