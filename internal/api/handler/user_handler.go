package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /users. Admin only.
//
// @Summary      List directory users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  map[string]any
// @Failure      502  {object}  map[string]any
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]*userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Me handles GET /users/me.
//
// @Summary      The caller's own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  map[string]any
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	profile, err := h.service.CurrentUser(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(profile))
}

// Create handles POST /users. Users live in the identity provider; this
// endpoint only validates the payload.
//
// @Summary      Validate a user payload (demonstration)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]any
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{
		Message: fmt.Sprintf("User %s created successfully", req.Name),
	})
}
