package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

// LabelHandler serves label reference data and task-label links.
type LabelHandler struct {
	service ports.LabelService
}

func NewLabelHandler(service ports.LabelService) *LabelHandler {
	return &LabelHandler{service: service}
}

// Create handles POST /labels.
//
// @Summary      Create a label
// @Tags         labels
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLabelRequest  true  "Label; color defaults to #ffffff"
// @Success      201   {object}  labelResponse
// @Failure      400   {object}  map[string]any
// @Router       /labels [post]
func (h *LabelHandler) Create(c echo.Context) error {
	var req createLabelRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	l, err := h.service.CreateLabel(c.Request().Context(), req.Name, req.Color)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, labelResponse{ID: l.ID, Name: l.Name, Color: l.Color})
}

// List handles GET /labels.
//
// @Summary      List labels
// @Tags         labels
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  labelResponse
// @Router       /labels [get]
func (h *LabelHandler) List(c echo.Context) error {
	labels, err := h.service.ListLabels(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLabelResponses(labels))
}

// Delete handles DELETE /labels/:id.
//
// @Summary      Delete a label and unlink it from all tasks
// @Tags         labels
// @Security     BearerAuth
// @Param        id   path  int  true  "Label id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Router       /labels/{id} [delete]
func (h *LabelHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteLabel(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListForTask handles GET /tasks/:taskId/labels.
//
// @Summary      Labels of a task
// @Tags         labels
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      int  true  "Task id"
// @Success      200     {array}   labelResponse
// @Failure      404     {object}  map[string]any
// @Router       /tasks/{taskId}/labels [get]
func (h *LabelHandler) ListForTask(c echo.Context) error {
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	labels, err := h.service.ListTaskLabels(c.Request().Context(), taskID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLabelResponses(labels))
}

// Assign handles POST /tasks/:taskId/labels/:labelId/assign.
//
// @Summary      Put a label on a task (idempotent)
// @Tags         labels
// @Security     BearerAuth
// @Param        taskId   path  int  true  "Task id"
// @Param        labelId  path  int  true  "Label id"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /tasks/{taskId}/labels/{labelId}/assign [post]
func (h *LabelHandler) Assign(c echo.Context) error {
	return h.link(c, h.service.AssignLabel)
}

// Unassign handles DELETE /tasks/:taskId/labels/:labelId/unassign.
//
// @Summary      Remove a label from a task
// @Tags         labels
// @Security     BearerAuth
// @Param        taskId   path  int  true  "Task id"
// @Param        labelId  path  int  true  "Label id"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Router       /tasks/{taskId}/labels/{labelId}/unassign [delete]
func (h *LabelHandler) Unassign(c echo.Context) error {
	return h.link(c, h.service.UnassignLabel)
}

type linkFunc func(ctx context.Context, caller domain.Caller, taskID, labelID int64) error

func (h *LabelHandler) link(c echo.Context, fn linkFunc) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	labelID, err := pathID(c, "labelId")
	if err != nil {
		return err
	}
	if err := fn(c.Request().Context(), caller, taskID, labelID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
