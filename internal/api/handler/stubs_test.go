package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/api/middleware"
	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

// newCtx builds an echo context with the validator installed and, when
// caller is non-nil, an authenticated caller.
func newCtx(method, target string, body io.Reader, caller *domain.Caller) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller != nil {
		c.Set(middleware.CallerKey, *caller)
	}
	return c, rec
}

func jsonBody(s string) io.Reader { return strings.NewReader(s) }

func withParams(c echo.Context, kv ...string) echo.Context {
	names := make([]string, 0, len(kv)/2)
	values := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		names = append(names, kv[i])
		values = append(values, kv[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c
}

var alice = &domain.Caller{ID: "user_alice"}

type stubTaskService struct {
	createFn   func(ctx context.Context, caller domain.Caller, in ports.CreateTaskInput) (*ports.CreateTaskResult, error)
	listFn     func(ctx context.Context, in ports.ListTasksInput) (*ports.ListTasksResult, error)
	getFn      func(ctx context.Context, id int64) (*ports.TaskDetail, error)
	updateFn   func(ctx context.Context, caller domain.Caller, id int64, in ports.UpdateTaskInput) error
	deleteFn   func(ctx context.Context, caller domain.Caller, id int64) error
	activityFn func(ctx context.Context, taskID int64) ([]domain.Activity, error)
}

func (s *stubTaskService) CreateTask(ctx context.Context, caller domain.Caller, in ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubTaskService) ListTasks(ctx context.Context, in ports.ListTasksInput) (*ports.ListTasksResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubTaskService) GetTask(ctx context.Context, id int64) (*ports.TaskDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, caller domain.Caller, id int64, in ports.UpdateTaskInput) error {
	return s.updateFn(ctx, caller, id, in)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, caller domain.Caller, id int64) error {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubTaskService) ListActivity(ctx context.Context, taskID int64) ([]domain.Activity, error) {
	return s.activityFn(ctx, taskID)
}

type stubCommentService struct {
	createFn func(ctx context.Context, caller domain.Caller, taskID int64, content string) (*domain.Comment, error)
	listFn   func(ctx context.Context, in ports.ListCommentsInput) (*ports.CommentPage, error)
	updateFn func(ctx context.Context, caller domain.Caller, id int64, content string) error
	deleteFn func(ctx context.Context, caller domain.Caller, id int64) error
}

func (s *stubCommentService) CreateComment(ctx context.Context, caller domain.Caller, taskID int64, content string) (*domain.Comment, error) {
	return s.createFn(ctx, caller, taskID, content)
}

func (s *stubCommentService) ListComments(ctx context.Context, in ports.ListCommentsInput) (*ports.CommentPage, error) {
	return s.listFn(ctx, in)
}

func (s *stubCommentService) UpdateComment(ctx context.Context, caller domain.Caller, id int64, content string) error {
	return s.updateFn(ctx, caller, id, content)
}

func (s *stubCommentService) DeleteComment(ctx context.Context, caller domain.Caller, id int64) error {
	return s.deleteFn(ctx, caller, id)
}

type stubAttachmentService struct {
	uploadFn   func(ctx context.Context, caller domain.Caller, in ports.UploadAttachmentInput) (*domain.Attachment, error)
	listFn     func(ctx context.Context, taskID int64) ([]*domain.Attachment, error)
	downloadFn func(ctx context.Context, caller domain.Caller, taskID, attachmentID int64) (*ports.BlobDownload, error)
	fileFn     func(ctx context.Context, caller domain.Caller, storedName string) (*ports.BlobDownload, error)
	deleteFn   func(ctx context.Context, caller domain.Caller, taskID, attachmentID int64) error
}

func (s *stubAttachmentService) Upload(ctx context.Context, caller domain.Caller, in ports.UploadAttachmentInput) (*domain.Attachment, error) {
	return s.uploadFn(ctx, caller, in)
}

func (s *stubAttachmentService) List(ctx context.Context, taskID int64) ([]*domain.Attachment, error) {
	return s.listFn(ctx, taskID)
}

func (s *stubAttachmentService) Download(ctx context.Context, caller domain.Caller, taskID, attachmentID int64) (*ports.BlobDownload, error) {
	return s.downloadFn(ctx, caller, taskID, attachmentID)
}

func (s *stubAttachmentService) DownloadFile(ctx context.Context, caller domain.Caller, storedName string) (*ports.BlobDownload, error) {
	return s.fileFn(ctx, caller, storedName)
}

func (s *stubAttachmentService) Delete(ctx context.Context, caller domain.Caller, taskID, attachmentID int64) error {
	return s.deleteFn(ctx, caller, taskID, attachmentID)
}

type stubLabelService struct {
	createFn   func(ctx context.Context, name, color string) (*domain.Label, error)
	listFn     func(ctx context.Context) ([]domain.Label, error)
	deleteFn   func(ctx context.Context, id int64) error
	assignFn   func(ctx context.Context, caller domain.Caller, taskID, labelID int64) error
	unassignFn func(ctx context.Context, caller domain.Caller, taskID, labelID int64) error
	forTaskFn  func(ctx context.Context, taskID int64) ([]domain.Label, error)
}

func (s *stubLabelService) CreateLabel(ctx context.Context, name, color string) (*domain.Label, error) {
	return s.createFn(ctx, name, color)
}

func (s *stubLabelService) ListLabels(ctx context.Context) ([]domain.Label, error) {
	return s.listFn(ctx)
}

func (s *stubLabelService) DeleteLabel(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubLabelService) AssignLabel(ctx context.Context, caller domain.Caller, taskID, labelID int64) error {
	return s.assignFn(ctx, caller, taskID, labelID)
}

func (s *stubLabelService) UnassignLabel(ctx context.Context, caller domain.Caller, taskID, labelID int64) error {
	return s.unassignFn(ctx, caller, taskID, labelID)
}

func (s *stubLabelService) ListTaskLabels(ctx context.Context, taskID int64) ([]domain.Label, error) {
	return s.forTaskFn(ctx, taskID)
}

type stubCategoryService struct {
	createFn func(ctx context.Context, name, description string) (*domain.Category, error)
	listFn   func(ctx context.Context) ([]domain.Category, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubCategoryService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	return s.createFn(ctx, name, description)
}

func (s *stubCategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.listFn(ctx)
}

func (s *stubCategoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type stubUserService struct {
	listFn func(ctx context.Context) ([]domain.UserProfile, error)
	meFn   func(ctx context.Context, caller domain.Caller) (*domain.UserProfile, error)
}

func (s *stubUserService) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	return s.listFn(ctx)
}

func (s *stubUserService) CurrentUser(ctx context.Context, caller domain.Caller) (*domain.UserProfile, error) {
	return s.meFn(ctx, caller)
}
