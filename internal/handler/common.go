// Package handler implements the HTTP handlers for users, videos and
// comments. Handlers translate requests into store and media-host calls and
// map every failure onto the error taxonomy carried in the JSON envelope:
// {"error": <category>, "message": <detail>}.
package handler

import (
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/openvid/vidshare/internal/authz"
	"github.com/openvid/vidshare/internal/middleware"
	"github.com/openvid/vidshare/internal/repository"
	"github.com/openvid/vidshare/internal/utils"
)

// Error categories exposed to clients.
const (
	errValidation      = "validation_error"
	errUnauthenticated = "unauthenticated"
	errForbidden       = "forbidden"
	errNotFound        = "not_found"
	errInvalidOp       = "invalid_operation"
	errExternal        = "external_error"
	errInternal        = "internal_error"
)

func fail(c echo.Context, status int, category, message string) error {
	return c.JSON(status, echo.Map{"error": category, "message": message})
}

// storeFail maps a store or authorization error onto the envelope. Unknown
// errors are reported as the store being unavailable; the raw error is
// logged by Echo's logger middleware, never echoed to the client.
func storeFail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, errNotFound, "resource not found")
	case errors.Is(err, repository.ErrSelfSubscribe):
		return fail(c, http.StatusBadRequest, errInvalidOp, "you cannot subscribe to your own channel")
	case errors.Is(err, repository.ErrEmailExists):
		return fail(c, http.StatusConflict, errValidation, "email already exists")
	case errors.Is(err, authz.ErrForbidden):
		return fail(c, http.StatusForbidden, errForbidden, "you do not own this resource")
	default:
		return fail(c, http.StatusInternalServerError, errExternal, "storage unavailable")
	}
}

// caller returns the authenticated claims set by the auth gate. Routes
// registered behind the gate always have them; the error path covers
// misconfigured routing.
func caller(c echo.Context) (utils.Claims, error) {
	claims, ok := middleware.Caller(c)
	if !ok {
		return utils.Claims{}, errors.New("no authenticated caller in context")
	}
	return claims, nil
}

// saveUpload spools the named multipart file to a temp file and returns its
// path together with a cleanup func. The media resolver consumes the temp
// path; cleanup must run regardless of upload outcome.
func saveUpload(c echo.Context, field string) (string, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	src, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "vidshare-upload-*")
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { os.Remove(tmp.Name()) }, nil
}

// hasUpload reports whether the request carries the named multipart file.
func hasUpload(c echo.Context, field string) bool {
	_, err := c.FormFile(field)
	return err == nil
}
