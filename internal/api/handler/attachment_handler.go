package handler

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/api/metrics"
	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

const formFieldFile = "file"

// AttachmentHandler handles file uploads and downloads for tasks.
type AttachmentHandler struct {
	service ports.AttachmentService
}

func NewAttachmentHandler(service ports.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// Upload handles POST /tasks/:taskId/attachments.
//
// @Summary      Attach a file to a task
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      int   true  "Task id"
// @Param        file    formData  file  true  "File, at most 100 MB"
// @Success      201     {object}  attachmentResponse
// @Failure      400     {object}  map[string]any
// @Failure      403     {object}  map[string]any
// @Failure      404     {object}  map[string]any
// @Router       /tasks/{taskId}/attachments [post]
func (h *AttachmentHandler) Upload(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}

	fh, err := c.FormFile(formFieldFile)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return domain.NewValidationError(formFieldFile, "File is required")
		}
		return err
	}
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	att, err := h.service.Upload(c.Request().Context(), caller, ports.UploadAttachmentInput{
		TaskID:      taskID,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Content:     src,
	})
	if err != nil {
		return err
	}

	metrics.AttachmentBytesUploaded.Add(float64(att.Size))
	return c.JSON(http.StatusCreated, toAttachmentResponse(att))
}

// List handles GET /tasks/:taskId/attachments.
//
// @Summary      List a task's attachments, newest first
// @Tags         attachments
// @Produce      json
// @Security     BearerAuth
// @Param        taskId  path      int  true  "Task id"
// @Success      200     {array}   attachmentResponse
// @Failure      404     {object}  map[string]any
// @Router       /tasks/{taskId}/attachments [get]
func (h *AttachmentHandler) List(c echo.Context) error {
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	atts, err := h.service.List(c.Request().Context(), taskID)
	if err != nil {
		return err
	}
	out := make([]attachmentResponse, 0, len(atts))
	for _, a := range atts {
		out = append(out, toAttachmentResponse(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Download handles GET /tasks/:taskId/attachments/:attachmentId/download.
//
// @Summary      Download an attachment under its original name
// @Tags         attachments
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        taskId        path  int  true  "Task id"
// @Param        attachmentId  path  int  true  "Attachment id"
// @Success      200  {file}    file
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /tasks/{taskId}/attachments/{attachmentId}/download [get]
func (h *AttachmentHandler) Download(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	attachmentID, err := pathID(c, "attachmentId")
	if err != nil {
		return err
	}

	dl, err := h.service.Download(c.Request().Context(), caller, taskID, attachmentID)
	if err != nil {
		return err
	}
	return streamDownload(c, dl)
}

// File handles GET /files/:name, the target of an attachment's fileUrl.
//
// @Summary      Download an attachment by its stored name
// @Tags         attachments
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        name  path  string  true  "Stored file name"
// @Success      200   {file}    file
// @Failure      403   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /files/{name} [get]
func (h *AttachmentHandler) File(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	name := c.Param("name")
	if name == "" {
		return domain.NewValidationError("name", "name is required")
	}

	dl, err := h.service.DownloadFile(c.Request().Context(), caller, name)
	if err != nil {
		return err
	}
	return streamDownload(c, dl)
}

// streamDownload writes dl under its original file name and closes it.
func streamDownload(c echo.Context, dl *ports.BlobDownload) error {
	defer dl.Content.Close()

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": dl.FileName}))
	if dl.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(dl.Size, 10))
	}
	if dl.Checksum != "" {
		header.Set("ETag", strconv.Quote(dl.Checksum))
	}
	contentType := dl.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, dl.Content)
}

// Delete handles DELETE /tasks/:taskId/attachments/:attachmentId.
//
// @Summary      Delete an attachment
// @Tags         attachments
// @Security     BearerAuth
// @Param        taskId        path  int  true  "Task id"
// @Param        attachmentId  path  int  true  "Attachment id"
// @Success      204
// @Failure      403  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /tasks/{taskId}/attachments/{attachmentId} [delete]
func (h *AttachmentHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	taskID, err := pathID(c, "taskId")
	if err != nil {
		return err
	}
	attachmentID, err := pathID(c, "attachmentId")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, taskID, attachmentID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
