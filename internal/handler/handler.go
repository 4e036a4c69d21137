// Package handler adapts HTTP requests to service calls. Every response uses
// the {success, message?, ...payload} envelope; errors are returned to echo
// and rendered by the shared error handler.
package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/labstack/echo/v4"
)

func respond(c echo.Context, status int, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

func ok(c echo.Context, payload echo.Map) error {
	return respond(c, http.StatusOK, payload)
}

func created(c echo.Context, payload echo.Map) error {
	return respond(c, http.StatusCreated, payload)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("Invalid id")
	}
	return uint(id), nil
}

func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperror.Validation("Invalid request data")
	}
	return nil
}

// queryInt parses an optional integer query parameter; malformed values fall back to def.
func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return def
	}
	return v
}

// Date accepts "2006-01-02" or RFC 3339 timestamps in JSON bodies.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

// Ptr returns the parsed time, or nil when the field was absent or empty.
func (d *Date) Ptr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
