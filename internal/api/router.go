package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskflow/taskboard/docs"
	"github.com/taskflow/taskboard/internal/api/handler"
	"github.com/taskflow/taskboard/internal/api/middleware"
	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
	"github.com/taskflow/taskboard/internal/infrastructure/http/handlers"
)

// uploadBodyLimit caps multipart upload bodies: the 100 MiB file plus form overhead.
const uploadBodyLimit = "101M"

// Services are the use cases exposed over HTTP.
type Services struct {
	Tasks       ports.TaskService
	Comments    ports.CommentService
	Attachments ports.AttachmentService
	Labels      ports.LabelService
	Categories  ports.CategoryService
	Users       ports.UserService
}

// Options configures cross-cutting router behaviour.
type Options struct {
	JWTSecret   string
	Development bool
	Logger      zerolog.Logger
	// Dependencies are pinged by GET /health/ready.
	Dependencies []handlers.Dependency
	// Registerer receives the HTTP request collectors.
	// Defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger, opts.Development)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "taskboard",
		Registerer: opts.Registerer,
	}))

	// --- Ops (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(opts.Dependencies...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	if opts.Development {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	users := handler.NewUserHandler(svc.Users)
	e.POST("/users", users.Create)

	// --- Authenticated API ---
	g := e.Group("", middleware.Auth(opts.JWTSecret))

	tasks := handler.NewTaskHandler(svc.Tasks)
	g.POST("/tasks", tasks.Create)
	g.GET("/tasks", tasks.List)
	g.GET("/tasks/:id", tasks.Get)
	g.PATCH("/tasks/:id", tasks.Update)
	g.DELETE("/tasks/:id", tasks.Delete)
	g.GET("/tasks/:id/activity", tasks.Activity)

	comments := handler.NewCommentHandler(svc.Comments)
	g.POST("/tasks/:taskId/comments", comments.Create)
	g.GET("/tasks/:taskId/comments", comments.List)
	g.POST("/comments", comments.CreateFromBody)
	g.PUT("/comments/:id", comments.Update)
	g.DELETE("/comments/:id", comments.Delete)

	attachments := handler.NewAttachmentHandler(svc.Attachments)
	g.POST("/tasks/:taskId/attachments", attachments.Upload, echomiddleware.BodyLimit(uploadBodyLimit))
	g.GET("/tasks/:taskId/attachments", attachments.List)
	g.GET("/tasks/:taskId/attachments/:attachmentId/download", attachments.Download)
	g.DELETE("/tasks/:taskId/attachments/:attachmentId", attachments.Delete)
	g.GET("/files/:name", attachments.File)

	labels := handler.NewLabelHandler(svc.Labels)
	g.POST("/labels", labels.Create)
	g.GET("/labels", labels.List)
	g.DELETE("/labels/:id", labels.Delete)
	g.GET("/tasks/:taskId/labels", labels.ListForTask)
	g.POST("/tasks/:taskId/labels/:labelId/assign", labels.Assign)
	g.DELETE("/tasks/:taskId/labels/:labelId/unassign", labels.Unassign)

	categories := handler.NewCategoryHandler(svc.Categories)
	g.POST("/categories", categories.Create)
	g.GET("/categories", categories.List)
	g.DELETE("/categories/:id", categories.Delete)

	g.GET("/users/me", users.Me)
	g.GET("/users", users.List, middleware.RBAC(domain.RoleAdmin))

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
