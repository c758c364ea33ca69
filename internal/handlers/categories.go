package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub/internal/middleware"
	"github.com/taskhub/taskhub/internal/service"
	"github.com/taskhub/taskhub/internal/validate"
)

type CategoryHandler struct {
	Service *service.CategoryService
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v := validate.New()
	v.CheckLength(req.Name, "name", 3, 100)
	if !v.Valid() {
		return validationError(v.Errors)
	}

	category, err := h.Service.Create(c.Request().Context(), middleware.CurrentUser(c).ID, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.Service.List(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	category, err := h.Service.Get(c.Request().Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v := validate.New()
	if req.Name != nil {
		v.CheckLength(*req.Name, "name", 3, 100)
	}
	if !v.Valid() {
		return validationError(v.Errors)
	}

	category, err := h.Service.Update(c.Request().Context(), middleware.CurrentUser(c).ID, id, service.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Service.Delete(c.Request().Context(), middleware.CurrentUser(c).ID, id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
