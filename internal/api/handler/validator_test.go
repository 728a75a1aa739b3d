package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskflow/taskboard/internal/core/domain"
)

func TestRequestValidation_RejectsBeforeService(t *testing.T) {
	calledLabel := func(ctx context.Context, name, color string) (*domain.Label, error) {
		t.Fatalf("service reached with name=%q color=%q", name, color)
		return nil, nil
	}
	calledCategory := func(ctx context.Context, name, description string) (*domain.Category, error) {
		t.Fatalf("service reached with name=%q description=%q", name, description)
		return nil, nil
	}
	calledComment := func(ctx context.Context, caller domain.Caller, taskID int64, content string) (*domain.Comment, error) {
		t.Fatalf("service reached with %d chars", len(content))
		return nil, nil
	}

	labels := NewLabelHandler(&stubLabelService{createFn: calledLabel})
	categories := NewCategoryHandler(&stubCategoryService{createFn: calledCategory})
	comments := NewCommentHandler(&stubCommentService{
		createFn: calledComment,
		updateFn: func(ctx context.Context, caller domain.Caller, id int64, content string) error {
			t.Fatalf("update reached with %d chars", len(content))
			return nil
		},
	})

	quoted := func(s string) string { return fmt.Sprintf("%q", s) }

	cases := []struct {
		name    string
		method  string
		target  string
		body    string
		params  []string
		handler echo.HandlerFunc
		field   string
	}{
		{"label name missing", http.MethodPost, "/labels", `{"color":"#fff"}`, nil, labels.Create, "name"},
		{"label name blank", http.MethodPost, "/labels", `{"name":"   "}`, nil, labels.Create, "name"},
		{"label name too long", http.MethodPost, "/labels", `{"name":` + quoted(strings.Repeat("n", 26)) + `}`, nil, labels.Create, "name"},
		{"label color not hex", http.MethodPost, "/labels", `{"name":"ok","color":"red"}`, nil, labels.Create, "color"},
		{"label color bad length", http.MethodPost, "/labels", `{"name":"ok","color":"#abcde"}`, nil, labels.Create, "color"},
		{"category name too long", http.MethodPost, "/categories", `{"name":` + quoted(strings.Repeat("n", 31)) + `,"description":"d"}`, nil, categories.Create, "name"},
		{"category description missing", http.MethodPost, "/categories", `{"name":"Work"}`, nil, categories.Create, "description"},
		{"category description too long", http.MethodPost, "/categories", `{"name":"Work","description":` + quoted(strings.Repeat("d", 201)) + `}`, nil, categories.Create, "description"},
		{"comment empty", http.MethodPost, "/tasks/1/comments", `{"content":""}`, []string{"taskId", "1"}, comments.Create, "content"},
		{"comment too long", http.MethodPost, "/tasks/1/comments", `{"content":` + quoted(strings.Repeat("a", 501)) + `}`, []string{"taskId", "1"}, comments.Create, "content"},
		{"body comment too long", http.MethodPost, "/comments", `{"taskId":1,"content":` + quoted(strings.Repeat("a", 501)) + `}`, nil, comments.CreateFromBody, "content"},
		{"comment edit too long", http.MethodPut, "/comments/1", `{"content":` + quoted(strings.Repeat("a", 1001)) + `}`, []string{"id", "1"}, comments.Update, "content"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newCtx(tc.method, tc.target, jsonBody(tc.body), alice)
			withParams(c, tc.params...)

			err := tc.handler(c)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("expected field %q, got %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestRequestValidation_LimitsCountRunes(t *testing.T) {
	v := NewValidator()

	// 25 multi-byte runes is within the label limit.
	ok := createLabelRequest{Name: strings.Repeat("é", 25), Color: "#A1B2C3"}
	if err := v.Validate(&ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	edit := updateCommentRequest{Content: strings.Repeat("a", 1000)}
	if err := v.Validate(&edit); err != nil {
		t.Fatalf("1000 chars on edit: %v", err)
	}
	create := createCommentRequest{Content: strings.Repeat("a", 1000)}
	if err := v.Validate(&create); err == nil {
		t.Fatal("1000 chars on create should fail")
	}
}
