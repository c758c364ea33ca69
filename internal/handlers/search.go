package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub/internal/middleware"
	"github.com/taskhub/taskhub/internal/search"
)

type SearchHandler struct {
	Index *search.TaskIndex
}

func (h *SearchHandler) Handler(c echo.Context) error {
	if h.Index == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is disabled")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	limit := parseIntDefault(c.QueryParam("limit"), defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := parseIntDefault(c.QueryParam("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	total, docs, err := h.Index.Search(c.Request().Context(), middleware.CurrentUser(c).ID, q, offset, limit)
	if err != nil {
		c.Logger().Errorf("search error: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total":  total,
		"items":  docs,
		"limit":  limit,
		"offset": offset,
	})
}
