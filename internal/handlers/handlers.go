package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub/internal/service"
)

// httpError translates service failures into HTTP errors. Anything not in
// the taxonomy is a 500 with the detail withheld from the client.
func httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInactiveUser),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrWrongTokenType),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrIncorrectPassword):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrCategoryExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCategoryNotOwned):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		c.Logger().Errorf("internal error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func validationError(errs map[string]string) error {
	return echo.NewHTTPError(http.StatusUnprocessableEntity, errs)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
