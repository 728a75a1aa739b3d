package handler

import "time"

// --- Request types ---

type createTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=200"`
	Description string     `json:"description" validate:"max=1000"`
	AssigneeID  *string    `json:"assigneeId"  validate:"omitempty,max=100"`
	IsCompleted bool       `json:"isCompleted"`
	CategoryID  int64      `json:"categoryId"  validate:"required,gt=0"`
	DueDate     *time.Time `json:"dueDate"`
}

type updateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	AssigneeID  *string    `json:"assigneeId"  validate:"omitempty,max=100"`
	IsCompleted *bool      `json:"isCompleted"`
	CategoryID  *int64     `json:"categoryId"  validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"dueDate"`
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

// createCommentBodyRequest is the flat form of POST /comments.
type createCommentBodyRequest struct {
	TaskID  int64  `json:"taskId"  validate:"required,gt=0"`
	Content string `json:"content" validate:"required,max=500"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type createLabelRequest struct {
	Name  string `json:"name"  validate:"notblank,max=25"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type createCategoryRequest struct {
	Name        string `json:"name"        validate:"notblank,max=30"`
	Description string `json:"description" validate:"notblank,max=200"`
}

type createUserRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// --- Response types ---

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type labelResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type taskResponse struct {
	ID              int64             `json:"id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	IsCompleted     bool              `json:"isCompleted"`
	OwnerID         string            `json:"ownerId"`
	AssigneeID      *string           `json:"assigneeId"`
	CategoryID      int64             `json:"categoryId"`
	Category        *categoryResponse `json:"category,omitempty"`
	Labels          []labelResponse   `json:"labels"`
	DueDate         time.Time         `json:"dueDate"`
	CreatedAt       time.Time         `json:"createdAt"`
	AttachmentCount int               `json:"attachmentCount"`
	CommentCount    int               `json:"commentCount"`
}

type taskDetailResponse struct {
	taskResponse
	Owner    *userResponse `json:"owner"`
	Assignee *userResponse `json:"assignee"`
}

type createTaskResponse struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

type taskPageResponse struct {
	Items      []taskResponse `json:"items"`
	TotalCount int64          `json:"totalCount"`
	PageNumber int            `json:"pageNumber"`
	PageSize   int            `json:"pageSize"`
}

type activityResponse struct {
	Entity   string    `json:"entity"`
	EntityID int64     `json:"entityId"`
	Action   string    `json:"action"`
	ActorID  string    `json:"actorId"`
	At       time.Time `json:"at"`
}

type commentResponse struct {
	ID        int64         `json:"id"`
	TaskID    int64         `json:"taskId"`
	Content   string        `json:"content"`
	AuthorID  string        `json:"authorId"`
	Author    *userResponse `json:"author"`
	CreatedAt time.Time     `json:"createdAt"`
}

type commentPageResponse struct {
	Items      []commentResponse `json:"items"`
	TotalCount int64             `json:"totalCount"`
	PageNumber int               `json:"pageNumber"`
	PageSize   int               `json:"pageSize"`
}

type attachmentResponse struct {
	ID         int64     `json:"id"`
	TaskID     int64     `json:"taskId"`
	FileName   string    `json:"fileName"`
	StoredName string    `json:"storedName"`
	FileURL    string    `json:"fileUrl"`
	Size       int64     `json:"size"`
	Checksum   string    `json:"checksum,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type messageResponse struct {
	Message string `json:"message"`
}
