package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/core/ports"
)

type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Create handles POST /categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCategoryRequest  true  "Category"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  map[string]any
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req createCategoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	cat, err := h.service.CreateCategory(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(*cat))
}

// List handles GET /categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  categoryResponse
// @Router       /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	cats, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryResponse(cat))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete handles DELETE /categories/:id.
//
// @Summary      Delete an unused category
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  int  true  "Category id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Failure      409  {object}  map[string]any  "Category still has tasks"
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteCategory(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
