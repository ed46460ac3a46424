package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
)

func TestResourceClient_ListEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/students" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("search") != "ali" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"s1","name":"Alice"}],"total":37}`))
	}))
	defer srv.Close()

	api := NewStudentClient(NewClient(srv.URL, nil, 0, zerolog.Nop()))
	page, err := api.List(context.Background(), domain.ListQuery{Page: 2, Limit: 5, Search: "ali"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "s1" {
		t.Fatalf("items = %+v", page.Items)
	}
	if page.Total != 37 {
		t.Fatalf("total = %d, want 37", page.Total)
	}
}

func TestResourceClient_ListBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"f1","name":"Dr. Roy"},{"id":"f2","name":"Dr. Sen"}]`))
	}))
	defer srv.Close()

	api := NewFacultyClient(NewClient(srv.URL, nil, 0, zerolog.Nop()))
	page, err := api.List(context.Background(), domain.ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %+v", page.Items)
	}
	if page.Total != 2 {
		t.Fatalf("bare array total = %d, want item count", page.Total)
	}
}

func TestResourceClient_ListAlumniEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alumni" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"alumni":[{"id":"a1","name":"Priya","graduationYear":2019,"currentCompany":"Acme"}],"total":23,"page":1,"limit":10,"totalPages":3}`))
	}))
	defer srv.Close()

	api := NewAlumniClient(NewClient(srv.URL, nil, 0, zerolog.Nop()))
	page, err := api.List(context.Background(), domain.ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].CurrentCompany != "Acme" {
		t.Fatalf("items = %+v", page.Items)
	}
	if page.Total != 23 {
		t.Fatalf("total = %d, want 23", page.Total)
	}
}

func TestResourceClient_CreateUpdateDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /notices":
			var in domain.Notice
			_ = json.NewDecoder(r.Body).Decode(&in)
			in.ID = "n1"
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(in)
		case "PUT /notices/n1":
			var in domain.Notice
			_ = json.NewDecoder(r.Body).Decode(&in)
			in.ID = "n1"
			_ = json.NewEncoder(w).Encode(in)
		case "DELETE /notices/n1":
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	api := NewNoticeClient(NewClient(srv.URL, nil, 0, zerolog.Nop()))

	created, err := api.Create(context.Background(), domain.Notice{Title: "Exam schedule"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != "n1" || created.Title != "Exam schedule" {
		t.Fatalf("created = %+v", created)
	}

	updated, err := api.Update(context.Background(), "n1", domain.Notice{Title: "Revised schedule"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Revised schedule" {
		t.Fatalf("updated = %+v", updated)
	}

	if err := api.Delete(context.Background(), "n1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestStudentResultsAndStudentByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/results/student/s1":
			_, _ = w.Write([]byte(`[{"id":"r1","studentId":"s1","grade":"A"}]`))
		case "/students/s1":
			_, _ = w.Write([]byte(`{"id":"s1","name":"Alice","rollNo":"42"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, 0, zerolog.Nop())

	results, err := StudentResults(context.Background(), c, "s1")
	if err != nil {
		t.Fatalf("StudentResults: %v", err)
	}
	if len(results) != 1 || results[0].Grade != "A" {
		t.Fatalf("results = %+v", results)
	}

	student, err := StudentByID(context.Background(), c, "s1")
	if err != nil {
		t.Fatalf("StudentByID: %v", err)
	}
	if student.Name != "Alice" || student.RollNo != "42" {
		t.Fatalf("student = %+v", student)
	}
}
