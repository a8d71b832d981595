// Package apperr defines the application's error taxonomy.  Every domain
// failure maps to a stable numeric code plus a human message; the HTTP
// layer renders these through the shared response envelope so clients can
// switch on the code without parsing messages.  Token and OTP failures are
// deliberately coarse: one code covers malformed, expired and revoked
// tokens alike so the caller learns nothing about why a credential was
// rejected.
package apperr

import (
	"net/http"
)

// Error carries a wire code, a message and the HTTP status used when the
// error reaches the boundary.
type Error struct {
	Code    int
	Message string
	Status  int
}

func (e *Error) Error() string { return e.Message }

var (
	ErrUncategorized      = &Error{Code: 99, Message: "Uncategorized error", Status: http.StatusInternalServerError}
	ErrUserExisted        = &Error{Code: 101, Message: "User existed", Status: http.StatusBadRequest}
	ErrUserNotFound       = &Error{Code: 102, Message: "User not exist", Status: http.StatusNotFound}
	ErrUnauthenticated    = &Error{Code: 103, Message: "Unauthenticated", Status: http.StatusUnauthorized}
	ErrInvalidRequest     = &Error{Code: 104, Message: "Invalid request", Status: http.StatusBadRequest}
	ErrInvalidToken       = &Error{Code: 105, Message: "Invalid token", Status: http.StatusBadRequest}
	ErrForbidden          = &Error{Code: 106, Message: "You do not have permission", Status: http.StatusForbidden}
	ErrInvalidCredentials = &Error{Code: 110, Message: "Wrong password", Status: http.StatusBadRequest}
	ErrInvalidFile        = &Error{Code: 121, Message: "Invalid file type", Status: http.StatusBadRequest}
	ErrAccessDenied       = &Error{Code: 122, Message: "Access denied", Status: http.StatusForbidden}
	ErrInvalidOtp         = &Error{Code: 152, Message: "Invalid or Expired OTP", Status: http.StatusBadRequest}
	ErrSongNotFound       = &Error{Code: 1008, Message: "Song not found", Status: http.StatusNotFound}
	ErrEmailSendFailed    = &Error{Code: 1009, Message: "Failed to send email", Status: http.StatusInternalServerError}
)
