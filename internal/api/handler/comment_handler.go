package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/core/ports"
)

// CommentHandler handles HTTP requests for task comments.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create handles POST /tasks/:taskId/comments.
//
// @Summary      Comment on a task
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      int                   true  "Task id"
// @Param        body    body      createCommentRequest  true  "Comment"
// @Success      201     {object}  commentResponse
// @Failure      400     {object}  map[string]any
// @Failure      404     {object}  map[string]any
// @Router       /tasks/{taskId}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	var req createCommentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	return h.create(c, taskID, req.Content)
}

// CreateFromBody handles POST /comments.
//
// @Summary      Comment on a task (task id in body)
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCommentBodyRequest  true  "Comment"
// @Success      201   {object}  commentResponse
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /comments [post]
func (h *CommentHandler) CreateFromBody(c echo.Context) error {
	var req createCommentBodyRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	return h.create(c, req.TaskID, req.Content)
}

func (h *CommentHandler) create(c echo.Context, taskID int64, content string) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	comment, err := h.service.CreateComment(c.Request().Context(), caller, taskID, content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(ports.CommentView{Comment: comment}))
}

// List handles GET /tasks/:taskId/comments.
//
// @Summary      List comments, newest first
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        taskId      path      int  true   "Task id"
// @Param        pageNumber  query     int  false  "Page number (default 1)"
// @Param        pageSize    query     int  false  "Page size, 1-100 (default 5)"
// @Success      200         {object}  commentPageResponse
// @Failure      400         {object}  map[string]any
// @Failure      404         {object}  map[string]any
// @Router       /tasks/{taskId}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	in := ports.ListCommentsInput{TaskID: taskID}
	b := echo.QueryParamsBinder(c).
		Int("pageNumber", &in.PageNumber).
		Int("pageSize", &in.PageSize)
	if err := bindErrors(b.BindErrors()); err != nil {
		return err
	}

	page, err := h.service.ListComments(c.Request().Context(), in)
	if err != nil {
		return err
	}

	items := make([]commentResponse, 0, len(page.Items))
	for _, v := range page.Items {
		items = append(items, toCommentResponse(v))
	}
	return c.JSON(http.StatusOK, commentPageResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	})
}

// Update handles PUT /comments/:id.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int                   true  "Comment id"
// @Param        body  body  updateCommentRequest  true  "New content"
// @Success      204
// @Failure      400   {object}  map[string]any
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateCommentRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateComment(c.Request().Context(), caller, id, req.Content); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id   path  int  true  "Comment id"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteComment(c.Request().Context(), caller, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
