package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub/internal/middleware"
	"github.com/taskhub/taskhub/internal/service"
	"github.com/taskhub/taskhub/internal/validate"
)

type UserHandler struct {
	Auth *service.AuthService
}

func (h *UserHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req struct {
		Email     *string `json:"email"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v := validate.New()
	if req.Email != nil {
		v.CheckEmail(*req.Email)
	}
	if req.FirstName != nil {
		v.CheckLength(*req.FirstName, "first_name", 1, 50)
	}
	if req.LastName != nil {
		v.CheckLength(*req.LastName, "last_name", 1, 50)
	}
	if !v.Valid() {
		return validationError(v.Errors)
	}

	user, err := h.Auth.UpdateProfile(c.Request().Context(), middleware.CurrentUser(c), service.ProfileUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v := validate.New()
	v.Check(req.CurrentPassword != "", "current_password", "must be provided")
	v.Check(len(req.NewPassword) >= 8, "new_password", "must be at least 8 characters long")
	v.Check(len(req.NewPassword) <= 100, "new_password", "must be at most 100 characters long")
	if !v.Valid() {
		return validationError(v.Errors)
	}

	err := h.Auth.ChangePassword(c.Request().Context(), middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed successfully"})
}
