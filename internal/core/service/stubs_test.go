package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/taskboard/internal/core/domain"
	"github.com/taskflow/taskboard/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Identity
// ---------------------------------------------------------------------------

type stubDirectory struct {
	mu      sync.Mutex
	users   map[string]*domain.UserProfile
	failFor map[string]error
	calls   map[string]int
	listErr error
}

func newStubDirectory(profiles ...*domain.UserProfile) *stubDirectory {
	d := &stubDirectory{
		users:   make(map[string]*domain.UserProfile),
		failFor: make(map[string]error),
		calls:   make(map[string]int),
	}
	for _, p := range profiles {
		d.users[p.ID] = p
	}
	return d
}

func (d *stubDirectory) GetUser(_ context.Context, id string) (*domain.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls[id]++
	if err, ok := d.failFor[id]; ok {
		return nil, err
	}
	u, ok := d.users[id]
	if !ok {
		return nil, &domain.UpstreamError{Status: 404, Message: "not found"}
	}
	clone := *u
	return &clone, nil
}

func (d *stubDirectory) ListUsers(_ context.Context) ([]domain.UserProfile, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	out := make([]domain.UserProfile, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *stubDirectory) callCount(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[id]
}

func profile(id string) *domain.UserProfile {
	return &domain.UserProfile{ID: id, Email: id + "@example.com", DisplayName: strings.ToUpper(id)}
}

// stubPermissions returns a fixed decision.
type stubPermissions struct {
	allow bool
	err   error
}

func (p stubPermissions) CanEditAsAdminOrCreator(context.Context, domain.Caller, string) (bool, error) {
	return p.allow, p.err
}

func (p stubPermissions) CanEditAsAdminOrCreatorOrAssignee(context.Context, domain.Caller, string, *string) (bool, error) {
	return p.allow, p.err
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	tasks     map[int64]*domain.Task
	nextID    int64
	createErr error
	deleted   []int64
	lastList  ports.ListTasksFilter
}

func newStubTaskRepo(tasks ...*domain.Task) *stubTaskRepo {
	r := &stubTaskRepo{tasks: make(map[int64]*domain.Task)}
	for _, t := range tasks {
		r.tasks[t.ID] = t
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
	}
	return r
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	t.ID = r.nextID
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.tasks[id]
	return ok, nil
}

func (r *stubTaskRepo) List(_ context.Context, f ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	r.lastList = f
	out := make([]*domain.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		clone := *t
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if _, ok := r.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	clone := *t
	r.tasks[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubCategoryRepo struct {
	categories map[int64]*domain.Category
	taskCounts map[int64]int64
	nextID     int64
	deleted    []int64
}

func newStubCategoryRepo(ids ...int64) *stubCategoryRepo {
	r := &stubCategoryRepo{categories: make(map[int64]*domain.Category), taskCounts: make(map[int64]int64)}
	for _, id := range ids {
		r.categories[id] = &domain.Category{ID: id, Name: "cat"}
		if id > r.nextID {
			r.nextID = id
		}
	}
	return r
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	r.nextID++
	c.ID = r.nextID
	clone := *c
	r.categories[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCategoryRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.categories[id]
	return ok, nil
}

func (r *stubCategoryRepo) CountTasks(_ context.Context, id int64) (int64, error) {
	return r.taskCounts[id], nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	delete(r.categories, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// Comments
// ---------------------------------------------------------------------------

type stubCommentRepo struct {
	comments map[int64]*domain.Comment
	nextID   int64
	updated  map[int64]string
	deleted  []int64
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[int64]*domain.Comment), updated: make(map[int64]string)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	r.nextID++
	c.ID = r.nextID
	clone := *c
	r.comments[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id int64) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

// ListForTask orders newest first and pages the same way the SQL query does.
func (r *stubCommentRepo) ListForTask(_ context.Context, taskID int64, page, pageSize int) ([]*domain.Comment, int64, error) {
	var matched []*domain.Comment
	for _, c := range r.comments {
		if c.TaskID == taskID {
			clone := *c
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	total := int64(len(matched))
	skip := (page - 1) * pageSize
	if skip >= len(matched) {
		return []*domain.Comment{}, total, nil
	}
	end := skip + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubCommentRepo) UpdateContent(_ context.Context, id int64, content string) error {
	c, ok := r.comments[id]
	if !ok {
		return domain.ErrCommentNotFound
	}
	c.Content = content
	r.updated[id] = content
	return nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id int64) error {
	delete(r.comments, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// ---------------------------------------------------------------------------
// Attachments and blobs
// ---------------------------------------------------------------------------

type stubAttachmentRepo struct {
	attachments map[int64]*domain.Attachment
	nextID      int64
	createErr   error
	deleted     []int64
}

func newStubAttachmentRepo(items ...*domain.Attachment) *stubAttachmentRepo {
	r := &stubAttachmentRepo{attachments: make(map[int64]*domain.Attachment)}
	for _, a := range items {
		r.attachments[a.ID] = a
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
	}
	return r
}

func (r *stubAttachmentRepo) Create(_ context.Context, a *domain.Attachment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	a.ID = r.nextID
	clone := *a
	r.attachments[a.ID] = &clone
	return nil
}

func (r *stubAttachmentRepo) FindByID(_ context.Context, id int64) (*domain.Attachment, error) {
	a, ok := r.attachments[id]
	if !ok {
		return nil, domain.ErrAttachmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAttachmentRepo) FindByFileName(_ context.Context, name string) (*domain.Attachment, error) {
	for _, a := range r.attachments {
		if a.FileName == name {
			clone := *a
			return &clone, nil
		}
	}
	return nil, domain.ErrAttachmentNotFound
}

func (r *stubAttachmentRepo) ListForTask(_ context.Context, taskID int64) ([]*domain.Attachment, error) {
	var out []*domain.Attachment
	for _, a := range r.attachments {
		if a.TaskID == taskID {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r *stubAttachmentRepo) Delete(_ context.Context, id int64) error {
	delete(r.attachments, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type stubBlobStore struct {
	blobs     map[string][]byte
	uploadErr error
	deleteErr error
	deleted   []string
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{blobs: make(map[string][]byte)}
}

func (b *stubBlobStore) Upload(_ context.Context, in ports.BlobUpload) (*ports.BlobObject, error) {
	if b.uploadErr != nil {
		return nil, b.uploadErr
	}
	data, err := io.ReadAll(in.Content)
	if err != nil {
		return nil, err
	}
	b.blobs[in.Name] = data
	return &ports.BlobObject{
		Name:       in.Name,
		URL:        "https://blobs.example.com/" + in.Name,
		Size:       int64(len(data)),
		Checksum:   "sum",
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (b *stubBlobStore) Download(_ context.Context, name string) (*ports.BlobDownload, error) {
	data, ok := b.blobs[name]
	if !ok {
		return nil, domain.ErrBlobNotFound
	}
	return &ports.BlobDownload{
		Content:     io.NopCloser(strings.NewReader(string(data))),
		ContentType: "application/octet-stream",
		Size:        int64(len(data)),
	}, nil
}

func (b *stubBlobStore) Delete(_ context.Context, name string) (bool, error) {
	if b.deleteErr != nil {
		return false, b.deleteErr
	}
	b.deleted = append(b.deleted, name)
	_, ok := b.blobs[name]
	delete(b.blobs, name)
	return ok, nil
}

// ---------------------------------------------------------------------------
// Labels, activity, idempotency
// ---------------------------------------------------------------------------

type taskLabel struct{ taskID, labelID int64 }

type stubLabelRepo struct {
	labels map[int64]*domain.Label
	links  map[taskLabel]struct{}
	nextID int64
}

func newStubLabelRepo(ids ...int64) *stubLabelRepo {
	r := &stubLabelRepo{labels: make(map[int64]*domain.Label), links: make(map[taskLabel]struct{})}
	for _, id := range ids {
		r.labels[id] = &domain.Label{ID: id, Name: "l", Color: domain.DefaultLabelColor}
		if id > r.nextID {
			r.nextID = id
		}
	}
	return r
}

func (r *stubLabelRepo) Create(_ context.Context, l *domain.Label) error {
	r.nextID++
	l.ID = r.nextID
	clone := *l
	r.labels[l.ID] = &clone
	return nil
}

func (r *stubLabelRepo) List(_ context.Context) ([]domain.Label, error) {
	out := make([]domain.Label, 0, len(r.labels))
	for _, l := range r.labels {
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubLabelRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.labels[id]
	return ok, nil
}

func (r *stubLabelRepo) Delete(_ context.Context, id int64) error {
	delete(r.labels, id)
	return nil
}

func (r *stubLabelRepo) Assign(_ context.Context, taskID, labelID int64) (bool, error) {
	k := taskLabel{taskID, labelID}
	if _, ok := r.links[k]; ok {
		return false, nil
	}
	r.links[k] = struct{}{}
	return true, nil
}

func (r *stubLabelRepo) Unassign(_ context.Context, taskID, labelID int64) (bool, error) {
	k := taskLabel{taskID, labelID}
	if _, ok := r.links[k]; !ok {
		return false, nil
	}
	delete(r.links, k)
	return true, nil
}

func (r *stubLabelRepo) ListForTask(_ context.Context, taskID int64) ([]domain.Label, error) {
	var out []domain.Label
	for k := range r.links {
		if k.taskID == taskID {
			out = append(out, *r.labels[k.labelID])
		}
	}
	return out, nil
}

type stubActivityRepo struct {
	entries   []domain.Activity
	recordErr error
}

func (r *stubActivityRepo) Record(_ context.Context, a *domain.Activity) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.entries = append(r.entries, *a)
	return nil
}

func (r *stubActivityRepo) ListForTask(_ context.Context, taskID int64, limit int) ([]domain.Activity, error) {
	var out []domain.Activity
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].TaskID == taskID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

type stubIdempotency struct {
	keys      map[string]int64
	lookupErr error
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (int64, bool, error) {
	if s.lookupErr != nil {
		return 0, false, s.lookupErr
	}
	id, ok := s.keys[scope+"|"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key string, id int64) error {
	s.keys[scope+"|"+key] = id
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var errBoom = errors.New("boom")

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func strPtr(s string) *string { return &s }

func caller(id string, roles ...string) domain.Caller {
	return domain.Caller{ID: id, Roles: roles}
}

// realPermissions composes the production identity and permission services
// over a stub directory.
func realPermissions(dir *stubDirectory) (*IdentityService, *PermissionService) {
	identity := NewIdentityService(dir, nopLogger())
	return identity, NewPermissionService(identity)
}
