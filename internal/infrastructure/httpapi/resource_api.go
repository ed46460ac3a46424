package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/campuslink/portal/internal/core/domain"
)

// ResourceClient implements ports.ResourceAPI for one resource family rooted
// at /{path}. List responses may be a bare JSON array or an {items, total}
// envelope; both are accepted.
type ResourceClient[T domain.Record] struct {
	c    *Client
	path string
}

func NewResourceClient[T domain.Record](c *Client, path string) *ResourceClient[T] {
	return &ResourceClient[T]{c: c, path: "/" + path}
}

// The concrete families the admin dashboard manages.
func NewStudentClient(c *Client) *ResourceClient[domain.Student] {
	return NewResourceClient[domain.Student](c, "students")
}
func NewFacultyClient(c *Client) *ResourceClient[domain.Faculty] {
	return NewResourceClient[domain.Faculty](c, "faculty")
}
func NewNoticeClient(c *Client) *ResourceClient[domain.Notice] {
	return NewResourceClient[domain.Notice](c, "notices")
}
func NewDepartmentClient(c *Client) *ResourceClient[domain.Department] {
	return NewResourceClient[domain.Department](c, "departments")
}
func NewCourseClient(c *Client) *ResourceClient[domain.Course] {
	return NewResourceClient[domain.Course](c, "courses")
}
func NewResultClient(c *Client) *ResourceClient[domain.Result] {
	return NewResourceClient[domain.Result](c, "results")
}
func NewAlumniClient(c *Client) *ResourceClient[domain.Alumni] {
	return NewResourceClient[domain.Alumni](c, "alumni")
}
func NewEventClient(c *Client) *ResourceClient[domain.Event] {
	return NewResourceClient[domain.Event](c, "events")
}

func (r *ResourceClient[T]) List(ctx context.Context, q domain.ListQuery) (domain.PageResult[T], error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var raw json.RawMessage
	if err := r.c.do(ctx, http.MethodGet, r.path, query, nil, &raw); err != nil {
		return domain.PageResult[T]{}, err
	}
	return decodePage[T](raw)
}

func (r *ResourceClient[T]) Create(ctx context.Context, draft T) (T, error) {
	var created T
	if err := r.c.do(ctx, http.MethodPost, r.path, nil, draft, &created); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

func (r *ResourceClient[T]) Update(ctx context.Context, id string, patch T) (T, error) {
	var updated T
	if err := r.c.do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), nil, patch, &updated); err != nil {
		var zero T
		return zero, err
	}
	return updated, nil
}

func (r *ResourceClient[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil, nil)
}

// StudentResults fetches the per-student results view used by the student
// dashboard: GET /results/student/{studentId}.
func StudentResults(ctx context.Context, c *Client, studentID string) ([]domain.Result, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/results/student/"+url.PathEscape(studentID), nil, nil, &raw); err != nil {
		return nil, err
	}
	page, err := decodePage[domain.Result](raw)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// SubmitContact sends the public contact form: POST /contact. Returns the
// server's acknowledgement message.
func SubmitContact(ctx context.Context, c *Client, msg domain.ContactMessage) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/contact", nil, msg, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// StudentByID fetches a single student record: GET /students/{id}.
func StudentByID(ctx context.Context, c *Client, id string) (domain.Student, error) {
	var s domain.Student
	if err := c.do(ctx, http.MethodGet, "/students/"+url.PathEscape(id), nil, nil, &s); err != nil {
		return domain.Student{}, err
	}
	return s, nil
}

// decodePage accepts either a bare array or an {items, total} envelope.
func decodePage[T domain.Record](raw json.RawMessage) (domain.PageResult[T], error) {
	if len(raw) == 0 {
		return domain.PageResult[T]{}, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return domain.PageResult[T]{}, fmt.Errorf("decode list: %w", err)
		}
		return domain.PageResult[T]{Items: items, Total: len(items)}, nil
	}

	// The alumni family keys its envelope by resource name instead of "items".
	var envelope struct {
		Items  []T `json:"items"`
		Alumni []T `json:"alumni"`
		Total  int `json:"total"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.PageResult[T]{}, fmt.Errorf("decode list envelope: %w", err)
	}
	items := envelope.Items
	if items == nil {
		items = envelope.Alumni
	}
	total := envelope.Total
	if total == 0 {
		total = len(items)
	}
	return domain.PageResult[T]{Items: items, Total: total}, nil
}
