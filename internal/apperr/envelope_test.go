package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(err, c)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandlerRendersTaxonomyError(t *testing.T) {
	rec, env := render(t, ErrInvalidOtp)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 152, env.Code)
	assert.Equal(t, "Invalid or Expired OTP", env.Message)
	assert.Nil(t, env.Result)
}

func TestHandlerFoldsEchoNotFound(t *testing.T) {
	rec, env := render(t, echo.NewHTTPError(http.StatusNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusNotFound, env.Code)
}

func TestHandlerFoldsOtherEchoErrors(t *testing.T) {
	rec, env := render(t, echo.NewHTTPError(http.StatusUnsupportedMediaType))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrInvalidRequest.Code, env.Code)
}

func TestHandlerHidesUnknownErrors(t *testing.T) {
	rec, env := render(t, errors.New("db exploded: password=hunter2"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrUncategorized.Code, env.Code)
	assert.NotContains(t, env.Message, "hunter2")
}

func TestEnvelopeOmitsEmptyFields(t *testing.T) {
	b, err := json.Marshal(Envelope{Code: 200})
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":200}`, string(b))
}
