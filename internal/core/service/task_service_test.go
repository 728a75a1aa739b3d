package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

type taskFixture struct {
	svc         *TaskService
	tasks       *stubTaskRepo
	categories  *stubCategoryRepo
	attachments *stubAttachmentRepo
	blobs       *stubBlobStore
	activity    *stubActivityRepo
	idem        *stubIdempotency
	dir         *stubDirectory
}

func newTaskFixture(tasks ...*domain.Task) *taskFixture {
	f := &taskFixture{
		tasks:       newStubTaskRepo(tasks...),
		categories:  newStubCategoryRepo(1),
		attachments: newStubAttachmentRepo(),
		blobs:       newStubBlobStore(),
		activity:    &stubActivityRepo{},
		idem:        newStubIdempotency(),
		dir:         newStubDirectory(profile("owner"), profile("helper")),
	}
	identity, perms := realPermissions(f.dir)
	f.svc = NewTaskService(TaskServiceDeps{
		Tasks:       f.tasks,
		Categories:  f.categories,
		Attachments: f.attachments,
		Blobs:       f.blobs,
		Activity:    f.activity,
		Idempotency: f.idem,
		Identity:    identity,
		Permissions: perms,
	}, nopLogger())
	return f
}

func ownedTask(id int64, owner string, assignee *string) *domain.Task {
	return &domain.Task{
		ID:         id,
		Title:      "task",
		OwnerID:    owner,
		AssigneeID: assignee,
		CategoryID: 1,
		DueDate:    time.Now().Add(24 * time.Hour),
		CreatedAt:  time.Now(),
	}
}

func TestCreateTask_DefaultsAndOwner(t *testing.T) {
	f := newTaskFixture()

	res, err := f.svc.CreateTask(context.Background(), caller("owner"), ports.CreateTaskInput{
		Title:      "Write report",
		CategoryID: 1,
		AssigneeID: strPtr(""),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlreadyExisted {
		t.Error("fresh task must not be a replay")
	}

	stored := f.tasks.tasks[res.ID]
	if stored.OwnerID != "owner" {
		t.Errorf("owner: got %q", stored.OwnerID)
	}
	if stored.AssigneeID != nil {
		t.Errorf("empty assignee must be stored as nil, got %q", *stored.AssigneeID)
	}
	wantDue := stored.CreatedAt.Add(domain.DefaultDueIn)
	if !stored.DueDate.Equal(wantDue) {
		t.Errorf("due date: got %v, want %v", stored.DueDate, wantDue)
	}
	if len(f.activity.entries) != 1 || f.activity.entries[0].Action != domain.ActionCreated {
		t.Errorf("expected a created activity entry, got %+v", f.activity.entries)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	cases := []struct {
		name  string
		input ports.CreateTaskInput
		field string
	}{
		{"past due date", ports.CreateTaskInput{Title: "t", CategoryID: 1, DueDate: &past}, "dueDate"},
		{"unknown category", ports.CreateTaskInput{Title: "t", CategoryID: 42}, "categoryId"},
		{"zero category", ports.CreateTaskInput{Title: "t"}, "categoryId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTaskFixture()
			_, err := f.svc.CreateTask(context.Background(), caller("owner"), tc.input)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("expected field %q in %v", tc.field, verr.Fields)
			}
			if len(f.tasks.tasks) != 0 {
				t.Error("no task must be stored on validation failure")
			}
		})
	}
}

func TestCreateTask_Unauthenticated(t *testing.T) {
	f := newTaskFixture()
	_, err := f.svc.CreateTask(context.Background(), domain.Caller{}, ports.CreateTaskInput{Title: "t", CategoryID: 1})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestCreateTask_IdempotentReplay(t *testing.T) {
	f := newTaskFixture()
	in := ports.CreateTaskInput{Title: "t", CategoryID: 1, IdempotencyKey: "key-1"}

	first, err := f.svc.CreateTask(context.Background(), caller("owner"), in)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := f.svc.CreateTask(context.Background(), caller("owner"), in)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if !second.AlreadyExisted || second.ID != first.ID {
		t.Fatalf("expected replay of %d, got %+v", first.ID, second)
	}
	if len(f.tasks.tasks) != 1 {
		t.Errorf("expected one stored task, got %d", len(f.tasks.tasks))
	}

	// a different caller with the same key gets its own task
	third, err := f.svc.CreateTask(context.Background(), caller("helper"), in)
	if err != nil {
		t.Fatalf("third create: %v", err)
	}
	if third.AlreadyExisted {
		t.Error("idempotency keys must be scoped per owner")
	}
}

func TestCreateTask_IdempotencyStoreDownStillCreates(t *testing.T) {
	f := newTaskFixture()
	f.idem.lookupErr = errBoom

	res, err := f.svc.CreateTask(context.Background(), caller("owner"), ports.CreateTaskInput{Title: "t", CategoryID: 1, IdempotencyKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AlreadyExisted {
		t.Error("expected a fresh task")
	}
}

func TestCreateTask_ActivityFailureIsNotFatal(t *testing.T) {
	f := newTaskFixture()
	f.activity.recordErr = errBoom

	if _, err := f.svc.CreateTask(context.Background(), caller("owner"), ports.CreateTaskInput{Title: "t", CategoryID: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListTasks_Paging(t *testing.T) {
	f := newTaskFixture()

	res, err := f.svc.ListTasks(context.Background(), ports.ListTasksInput{SortBy: "DueDate"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PageNumber != 1 || res.PageSize != 10 {
		t.Errorf("defaults: got page %d size %d", res.PageNumber, res.PageSize)
	}
	if f.tasks.lastList.SortBy != domain.SortByDueDate {
		t.Errorf("sort key: got %q", f.tasks.lastList.SortBy)
	}

	for _, in := range []ports.ListTasksInput{
		{PageNumber: -1},
		{PageSize: 101},
		{PageSize: -5},
		{SortBy: "priority"},
	} {
		if _, err := f.svc.ListTasks(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%+v: expected validation error, got %v", in, err)
		}
	}
}

func TestGetTask_NotFound(t *testing.T) {
	f := newTaskFixture()
	_, err := f.svc.GetTask(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetTask_ResolvesProfilesPartially(t *testing.T) {
	f := newTaskFixture(ownedTask(1, "owner", strPtr("ghost")))

	detail, err := f.svc.GetTask(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.Owner == nil || detail.Owner.ID != "owner" {
		t.Errorf("owner profile: got %+v", detail.Owner)
	}
	if detail.Assignee != nil {
		t.Errorf("unresolvable assignee must be nil, got %+v", detail.Assignee)
	}
}

func TestUpdateTask_Authorization(t *testing.T) {
	cases := []struct {
		name   string
		caller domain.Caller
		err    error
	}{
		{"owner", caller("owner"), nil},
		{"assignee", caller("helper"), nil},
		{"admin", caller("boss", "ADMIN"), nil},
		{"stranger", caller("stranger"), domain.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTaskFixture(ownedTask(1, "owner", strPtr("helper")))
			err := f.svc.UpdateTask(context.Background(), tc.caller, 1, ports.UpdateTaskInput{Title: strPtr("renamed")})
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			title := f.tasks.tasks[1].Title
			if tc.err == nil && title != "renamed" {
				t.Errorf("title not updated: %q", title)
			}
			if tc.err != nil && title != "task" {
				t.Errorf("denied update must not write, title is %q", title)
			}
		})
	}
}

func TestUpdateTask_PartialFields(t *testing.T) {
	f := newTaskFixture(ownedTask(1, "owner", strPtr("helper")))
	f.categories.categories[2] = &domain.Category{ID: 2}
	done := true

	err := f.svc.UpdateTask(context.Background(), caller("owner"), 1, ports.UpdateTaskInput{
		IsCompleted: &done,
		AssigneeID:  strPtr(""),
		CategoryID:  func() *int64 { v := int64(2); return &v }(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := f.tasks.tasks[1]
	if !got.IsCompleted || got.CategoryID != 2 || got.Title != "task" {
		t.Errorf("unexpected task after update: %+v", got)
	}
	if got.AssigneeID == nil || *got.AssigneeID != "helper" {
		t.Error("empty assignee must leave the assignee unchanged")
	}

	missing := int64(77)
	err = f.svc.UpdateTask(context.Background(), caller("owner"), 1, ports.UpdateTaskInput{CategoryID: &missing})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown category: expected validation error, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	f := newTaskFixture(ownedTask(1, "owner", strPtr("helper")))
	f.attachments = newStubAttachmentRepo(&domain.Attachment{ID: 5, TaskID: 1, FileName: "abc_a.txt"})
	f.svc.deps.Attachments = f.attachments
	f.blobs.blobs["abc_a.txt"] = []byte("x")

	if err := f.svc.DeleteTask(context.Background(), caller("helper"), 1); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("assignee must not delete, got %v", err)
	}
	if err := f.svc.DeleteTask(context.Background(), caller("owner"), 1); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, ok := f.tasks.tasks[1]; ok {
		t.Error("task still present")
	}
	if len(f.blobs.deleted) != 1 || f.blobs.deleted[0] != "abc_a.txt" {
		t.Errorf("expected blob cleanup, got %v", f.blobs.deleted)
	}
}

func TestDeleteTask_BlobFailureDoesNotFail(t *testing.T) {
	f := newTaskFixture(ownedTask(1, "owner", nil))
	f.attachments = newStubAttachmentRepo(&domain.Attachment{ID: 5, TaskID: 1, FileName: "abc_a.txt"})
	f.svc.deps.Attachments = f.attachments
	f.blobs.deleteErr = errBoom

	if err := f.svc.DeleteTask(context.Background(), caller("x", "admin"), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListActivity(t *testing.T) {
	f := newTaskFixture(ownedTask(1, "owner", nil))
	if err := f.svc.UpdateTask(context.Background(), caller("owner"), 1, ports.UpdateTaskInput{Description: strPtr("d")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	entries, err := f.svc.ListActivity(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != domain.ActionUpdated || entries[0].ActorID != "owner" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	if _, err := f.svc.ListActivity(context.Background(), 2); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
