package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/api/metrics"
	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
	maxSearchLen         = 200
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays the original response for repeated submissions"
// @Param        body             body      createTaskRequest  true   "Task"
// @Success      201              {object}  createTaskResponse
// @Success      200              {object}  createTaskResponse  "Replayed"
// @Failure      400              {object}  map[string]any
// @Failure      401              {object}  map[string]any
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	result, err := h.service.CreateTask(c.Request().Context(), caller, ports.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		AssigneeID:     req.AssigneeID,
		IsCompleted:    req.IsCompleted,
		CategoryID:     req.CategoryID,
		DueDate:        req.DueDate,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	resp := createTaskResponse{ID: result.ID, CreatedAt: result.CreatedAt}
	metrics.TasksCreatedTotal.WithLabelValues(strconv.FormatBool(result.AlreadyExisted)).Inc()
	if result.AlreadyExisted {
		c.Response().Header().Set(headerReplayed, "true")
		return c.JSON(http.StatusOK, resp)
	}
	c.Response().Header().Set(echo.HeaderLocation, "/tasks/"+strconv.FormatInt(result.ID, 10))
	return c.JSON(http.StatusCreated, resp)
}

// List handles GET /tasks.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        pageNumber   query     int     false  "Page number (default 1)"
// @Param        pageSize     query     int     false  "Page size, 1-100 (default 10)"
// @Param        search       query     string  false  "Case-insensitive title search"
// @Param        isCompleted  query     bool    false  "Completion filter"
// @Param        assigneeId   query     string  false  "Assignee filter"
// @Param        sortBy       query     string  false  "id, title, duedate or createdat"
// @Success      200          {object}  taskPageResponse
// @Failure      400          {object}  map[string]any
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	var in ports.ListTasksInput
	var completed bool
	b := echo.QueryParamsBinder(c).
		Int("pageNumber", &in.PageNumber).
		Int("pageSize", &in.PageSize).
		String("search", &in.Search).
		String("assigneeId", &in.AssigneeID).
		String("sortBy", &in.SortBy).
		Bool("isCompleted", &completed)
	if err := bindErrors(b.BindErrors()); err != nil {
		return err
	}
	if c.QueryParam("isCompleted") != "" {
		in.IsCompleted = &completed
	}
	if len([]rune(in.Search)) > maxSearchLen {
		return domain.NewValidationError("search", "search cannot exceed 200 characters")
	}

	page, err := h.service.ListTasks(c.Request().Context(), in)
	if err != nil {
		return err
	}

	items := make([]taskResponse, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, toTaskResponse(t))
	}
	return c.JSON(http.StatusOK, taskPageResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	})
}

// Get handles GET /tasks/:id.
//
// @Summary      Get a task with owner and assignee profiles
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task id"
// @Success      200  {object}  taskDetailResponse
// @Failure      404  {object}  map[string]any
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.service.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskDetailResponse(detail))
}

// Update handles PATCH /tasks/:id.
//
// @Summary      Partially update a task
// @Tags         tasks
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                true  "Task id"
// @Param        body  body  updateTaskRequest  true  "Fields to change"
// @Success      204
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	err = h.service.UpdateTask(c.Request().Context(), caller, id, ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		IsCompleted: req.IsCompleted,
		CategoryID:  req.CategoryID,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /tasks/:id.
//
// @Summary      Delete a task and everything attached to it
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  int  true  "Task id"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteTask(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Activity handles GET /tasks/:id/activity.
//
// @Summary      Recent changes to a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Task id"
// @Success      200  {array}   activityResponse
// @Failure      404  {object}  map[string]any
// @Router       /tasks/{id}/activity [get]
func (h *TaskHandler) Activity(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.service.ListActivity(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toActivityResponses(entries))
}
