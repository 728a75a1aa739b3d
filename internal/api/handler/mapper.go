package handler

import (
	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

// Response-only types are kept separate from domain types so the JSON
// contract does not follow internal changes.

func toUserResponse(p *domain.UserProfile) *userResponse {
	if p == nil {
		return nil
	}
	return &userResponse{
		ID:        p.ID,
		Email:     p.Email,
		UserName:  p.DisplayName,
		Avatar:    p.AvatarURL,
		CreatedAt: p.CreatedAt,
	}
}

func toCategoryResponse(c domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toLabelResponses(labels []domain.Label) []labelResponse {
	out := make([]labelResponse, 0, len(labels))
	for _, l := range labels {
		out = append(out, labelResponse{ID: l.ID, Name: l.Name, Color: l.Color})
	}
	return out
}

func toTaskResponse(t *domain.Task) taskResponse {
	resp := taskResponse{
		ID:              t.ID,
		Title:           t.Title,
		Description:     t.Description,
		IsCompleted:     t.IsCompleted,
		OwnerID:         t.OwnerID,
		AssigneeID:      t.AssigneeID,
		CategoryID:      t.CategoryID,
		Labels:          toLabelResponses(t.Labels),
		DueDate:         t.DueDate,
		CreatedAt:       t.CreatedAt,
		AttachmentCount: t.AttachmentCount,
		CommentCount:    t.CommentCount,
	}
	if t.Category != nil {
		c := toCategoryResponse(*t.Category)
		resp.Category = &c
	}
	return resp
}

func toTaskDetailResponse(d *ports.TaskDetail) taskDetailResponse {
	return taskDetailResponse{
		taskResponse: toTaskResponse(d.Task),
		Owner:        toUserResponse(d.Owner),
		Assignee:     toUserResponse(d.Assignee),
	}
}

func toCommentResponse(v ports.CommentView) commentResponse {
	return commentResponse{
		ID:        v.Comment.ID,
		TaskID:    v.Comment.TaskID,
		Content:   v.Comment.Content,
		AuthorID:  v.Comment.AuthorID,
		Author:    toUserResponse(v.Author),
		CreatedAt: v.Comment.CreatedAt,
	}
}

func toAttachmentResponse(a *domain.Attachment) attachmentResponse {
	return attachmentResponse{
		ID:         a.ID,
		TaskID:     a.TaskID,
		FileName:   domain.OriginalFileName(a.FileName),
		StoredName: a.FileName,
		FileURL:    a.FileURL,
		Size:       a.Size,
		Checksum:   a.Checksum,
		UploadedAt: a.UploadedAt,
	}
}

func toActivityResponses(entries []domain.Activity) []activityResponse {
	out := make([]activityResponse, 0, len(entries))
	for _, a := range entries {
		out = append(out, activityResponse{
			Entity:   a.Entity,
			EntityID: a.EntityID,
			Action:   a.Action,
			ActorID:  a.ActorID,
			At:       a.At,
		})
	}
	return out
}
