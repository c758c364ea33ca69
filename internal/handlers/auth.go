package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub/internal/service"
	"github.com/taskhub/taskhub/internal/validate"
)

type AuthHandler struct {
	Auth *service.AuthService
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v := validate.New()
	v.CheckLength(req.Username, "username", 3, 50)
	v.CheckEmail(req.Email)
	v.CheckPassword(req.Password)
	if req.FirstName != "" {
		v.CheckLength(req.FirstName, "first_name", 1, 50)
	}
	if req.LastName != "" {
		v.CheckLength(req.LastName, "last_name", 1, 50)
	}
	if !v.Valid() {
		return validationError(v.Errors)
	}

	user, err := h.Auth.Register(c.Request().Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v := validate.New()
	v.Check(req.Email != "", "email", "must be provided")
	v.Check(req.Password != "", "password", "must be provided")
	if !v.Valid() {
		return validationError(v.Errors)
	}

	pair, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"token_type":    "bearer",
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.RefreshToken == "" {
		return validationError(map[string]string{"refresh_token": "must be provided"})
	}

	access, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": access,
		"token_type":   "bearer",
	})
}
