package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhub/taskhub/internal/middleware"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repo"
	"github.com/taskhub/taskhub/internal/service"
	"github.com/taskhub/taskhub/internal/validate"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type TaskHandler struct {
	Service *service.TaskService
}

type taskResponse struct {
	*models.Task
	CategoryName        string `json:"category_name,omitempty"`
	CategoryDescription string `json:"category_description,omitempty"`
}

func toTaskResponse(task *models.Task) taskResponse {
	resp := taskResponse{Task: task}
	if task.Category != nil {
		resp.CategoryName = task.Category.Name
		resp.CategoryDescription = task.Category.Description
	}
	return resp
}

type taskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CategoryID  *uint      `json:"category_id"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func (h *TaskHandler) Create(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v := validate.New()
	v.CheckLength(req.Title, "title", 1, 200)
	if req.Priority != "" {
		v.Check(models.Priority(req.Priority).Valid(), "priority", "must be one of low, medium, high")
	}
	if !v.Valid() {
		return validationError(v.Errors)
	}

	task, err := h.Service.Create(c.Request().Context(), middleware.CurrentUser(c).ID, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Priority:    models.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *TaskHandler) List(c echo.Context) error {
	v := validate.New()

	status := c.QueryParam("status")
	if status != "" && status != "all" {
		v.Check(models.Status(status).Valid(), "status", "must be one of all, pending, completed")
	}
	priority := c.QueryParam("priority")
	if priority != "" {
		v.Check(models.Priority(priority).Valid(), "priority", "must be one of low, medium, high")
	}
	sortBy := c.QueryParam("sort_by")
	switch sortBy {
	case "", "created_at", "priority", "due_date", "status":
	default:
		v.Check(false, "sort_by", "must be one of created_at, priority, due_date, status")
	}
	order := c.QueryParam("order")
	switch order {
	case "", "asc", "desc":
	default:
		v.Check(false, "order", "must be one of asc, desc")
	}
	if !v.Valid() {
		return validationError(v.Errors)
	}

	limit := parseIntDefault(c.QueryParam("limit"), defaultPageSize)
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := parseIntDefault(c.QueryParam("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	filter := repo.TaskFilter{
		Status:   status,
		Priority: priority,
		SortBy:   sortBy,
		Order:    order,
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return validationError(map[string]string{"category_id": "must be an integer"})
		}
		categoryID := uint(id)
		filter.CategoryID = &categoryID
	}

	tasks, total, err := h.Service.List(c.Request().Context(), middleware.CurrentUser(c).ID, filter)
	if err != nil {
		return httpError(c, err)
	}

	items := make([]taskResponse, len(tasks))
	for i := range tasks {
		items[i] = toTaskResponse(&tasks[i])
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *TaskHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	task, err := h.Service.Get(c.Request().Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		CategoryID  *uint      `json:"category_id"`
		Priority    *string    `json:"priority"`
		Status      *string    `json:"status"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	v := validate.New()
	if req.Title != nil {
		v.CheckLength(*req.Title, "title", 1, 200)
	}
	if req.Priority != nil {
		v.Check(models.Priority(*req.Priority).Valid(), "priority", "must be one of low, medium, high")
	}
	if req.Status != nil {
		v.Check(models.Status(*req.Status).Valid(), "status", "must be one of pending, completed")
	}
	if !v.Valid() {
		return validationError(v.Errors)
	}

	update := service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.CategoryID != nil {
		// category_id: 0 detaches the task from its category
		if *req.CategoryID == 0 {
			update.ClearCategory = true
		} else {
			update.CategoryID = req.CategoryID
		}
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		update.Priority = &p
	}
	if req.Status != nil {
		s := models.Status(*req.Status)
		update.Status = &s
	}

	task, err := h.Service.Update(c.Request().Context(), middleware.CurrentUser(c).ID, id, update)
	if err != nil {
		return httpError(c, err)
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Service.Delete(c.Request().Context(), middleware.CurrentUser(c).ID, id); err != nil {
		return httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *TaskHandler) Stats(c echo.Context) error {
	stats, err := h.Service.Stats(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return httpError(c, err)
	}
	rate := 0.0
	if stats.Total > 0 {
		rate = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total":           stats.Total,
		"completed":       stats.Completed,
		"pending":         stats.Pending,
		"completion_rate": rate,
	})
}
