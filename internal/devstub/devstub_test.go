package devstub

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/core/ports"
	"github.com/campuslink/portal/internal/core/service"
	"github.com/campuslink/portal/internal/infrastructure/config"
	"github.com/campuslink/portal/internal/infrastructure/httpapi"
	"github.com/campuslink/portal/internal/infrastructure/storage"
)

// startStub runs the full stub router on an httptest listener and returns a
// transport rooted at its /api prefix, exactly as the real client would be
// configured.
func startStub(t *testing.T, session ports.TokenSource) *httpapi.Client {
	t.Helper()
	cfg := &config.StubConfig{Env: "development", JWTSecret: "test-secret"}
	e := NewRouter(cfg, MemoryDeps(), zerolog.Nop())
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return httpapi.NewClient(srv.URL+"/api", session, 0, zerolog.Nop())
}

func newFileSession(t *testing.T) *service.Session {
	t.Helper()
	store, err := storage.Open(t.TempDir() + "/state.json")
	if err != nil {
		t.Fatalf("open state file: %v", err)
	}
	return service.NewSession(store, zerolog.Nop())
}

// registerAccount drives the registration flow to completion and returns the
// email it registered.
func registerAccount(t *testing.T, auth ports.AuthAPI, email, password, role string) {
	t.Helper()
	flow := service.NewRegisterFlow(auth, zerolog.Nop())
	err := flow.SubmitRegistration(context.Background(), ports.RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("SubmitRegistration: %v (%s)", err, flow.Message())
	}
	if flow.DevOTP() == "" {
		t.Fatalf("development stub did not expose devOtp")
	}
	if _, err := flow.VerifyOTP(context.Background(), flow.DevOTP()); err != nil {
		t.Fatalf("VerifyOTP: %v (%s)", err, flow.Message())
	}
}

func login(t *testing.T, auth ports.AuthAPI, session *service.Session, email, password string) *domain.User {
	t.Helper()
	flow := service.NewLoginFlow(auth, session, zerolog.Nop())
	if err := flow.SubmitLogin(context.Background(), email, password); err != nil {
		t.Fatalf("SubmitLogin: %v (%s)", err, flow.Message())
	}
	user, err := flow.VerifyOTP(context.Background(), flow.DevOTP())
	if err != nil {
		t.Fatalf("VerifyOTP: %v (%s)", err, flow.Message())
	}
	return user
}

func TestIntegration_RegisterThenLogin(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "alice@campus.edu", "secret1", domain.RoleStudent)

	user := login(t, auth, session, "alice@campus.edu", "secret1")
	if user.Role != domain.RoleStudent {
		t.Fatalf("role = %q", user.Role)
	}
	if !session.Authenticated() || session.Token() == "" {
		t.Fatalf("session not established")
	}
	if got := domain.DashboardRoute(user.Role); got != "student-dashboard" {
		t.Fatalf("dashboard route = %q", got)
	}
}

func TestIntegration_WrongPasswordAndWrongOTP(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "bob@campus.edu", "secret1", domain.RoleTeacher)

	flow := service.NewLoginFlow(auth, session, zerolog.Nop())
	if err := flow.SubmitLogin(context.Background(), "bob@campus.edu", "wrong"); err == nil {
		t.Fatalf("expected credential rejection")
	}
	if flow.Message() != "Invalid email or password" {
		t.Fatalf("Message = %q", flow.Message())
	}
	if flow.Step() != domain.StepCredentials {
		t.Fatalf("step = %s", flow.Step())
	}

	if err := flow.SubmitLogin(context.Background(), "bob@campus.edu", "secret1"); err != nil {
		t.Fatalf("SubmitLogin: %v", err)
	}
	if _, err := flow.VerifyOTP(context.Background(), "000000"); err == nil {
		t.Fatalf("expected OTP rejection")
	}
	if flow.Message() != "Invalid or expired OTP" {
		t.Fatalf("Message = %q", flow.Message())
	}
	// The issued code is still pending; the real one succeeds.
	if _, err := flow.VerifyOTP(context.Background(), flow.DevOTP()); err != nil {
		t.Fatalf("VerifyOTP with real code: %v (%s)", err, flow.Message())
	}
}

func TestIntegration_DuplicateRegistration(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "carol@campus.edu", "secret1", domain.RoleAlumni)

	flow := service.NewRegisterFlow(auth, zerolog.Nop())
	err := flow.SubmitRegistration(context.Background(), ports.RegisterInput{
		Name:     "Carol Again",
		Email:    "carol@campus.edu",
		Password: "secret1",
		Role:     domain.RoleAlumni,
	})
	if err == nil {
		t.Fatalf("expected duplicate rejection")
	}
	if flow.Message() != "Email is already registered" {
		t.Fatalf("Message = %q", flow.Message())
	}
	if flow.Step() != domain.StepCredentials {
		t.Fatalf("step = %s", flow.Step())
	}
}

func TestIntegration_PasswordReset(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "dave@campus.edu", "oldpass1", domain.RoleStudent)

	flow := service.NewPasswordResetFlow(auth, zerolog.Nop())
	if err := flow.SubmitEmail(context.Background(), "dave@campus.edu"); err != nil {
		t.Fatalf("SubmitEmail: %v (%s)", err, flow.Message())
	}
	if _, err := flow.VerifyOTP(context.Background(), flow.DevOTP()); err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if err := flow.SubmitNewPassword(context.Background(), "newpass1", "newpass1"); err != nil {
		t.Fatalf("SubmitNewPassword: %v (%s)", err, flow.Message())
	}

	// The old password is dead, the new one works.
	badFlow := service.NewLoginFlow(auth, session, zerolog.Nop())
	if err := badFlow.SubmitLogin(context.Background(), "dave@campus.edu", "oldpass1"); err == nil {
		t.Fatalf("old password still accepted")
	}
	login(t, auth, session, "dave@campus.edu", "newpass1")
}

func TestIntegration_AdminResourceCRUD(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "admin@campus.edu", "secret1", domain.RoleAdmin)
	login(t, auth, session, "admin@campus.edu", "secret1")

	panel := service.NewPanel[domain.Notice](httpapi.NewNoticeClient(client), zerolog.Nop())
	if err := panel.Load(context.Background(), domain.ListQuery{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if panel.Total() != 0 {
		t.Fatalf("fresh stub total = %d", panel.Total())
	}

	created, err := panel.Create(context.Background(), domain.Notice{Title: "Exam schedule", Category: "academic"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("server did not assign an id")
	}
	if items := panel.Items(); len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("cache after create = %+v", items)
	}

	updated, err := panel.Update(context.Background(), created.ID, domain.Notice{Title: "Revised schedule"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Revised schedule" || updated.Category != "academic" {
		t.Fatalf("updated = %+v", updated)
	}

	if err := panel.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if panel.Total() != 0 || len(panel.Items()) != 0 {
		t.Fatalf("cache after delete: %d items / total %d", len(panel.Items()), panel.Total())
	}
}

func TestIntegration_MutationsRequireAdmin(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	// Unauthenticated mutation is rejected, read stays open.
	api := httpapi.NewCourseClient(client)
	if _, err := api.Create(context.Background(), domain.Course{Name: "Algorithms"}); err == nil {
		t.Fatalf("unauthenticated create accepted")
	}
	if _, err := api.List(context.Background(), domain.ListQuery{}); err != nil {
		t.Fatalf("unauthenticated list rejected: %v", err)
	}

	// A student token is authenticated but not authorised.
	registerAccount(t, auth, "eve@campus.edu", "secret1", domain.RoleStudent)
	login(t, auth, session, "eve@campus.edu", "secret1")

	_, err := api.Create(context.Background(), domain.Course{Name: "Algorithms"})
	var re *domain.RequestError
	if !errors.As(err, &re) || re.StatusCode != 403 {
		t.Fatalf("student create: err = %v, want 403", err)
	}
}

func TestIntegration_FacultyListIsBareArray(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "admin@campus.edu", "secret1", domain.RoleAdmin)
	login(t, auth, session, "admin@campus.edu", "secret1")

	api := httpapi.NewFacultyClient(client)
	if _, err := api.Create(context.Background(), domain.Faculty{Name: "Dr. Roy", Department: "CS"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	page, err := api.List(context.Background(), domain.ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Total != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestIntegration_AlumniFamilyUsesNamedEnvelope(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "admin@campus.edu", "secret1", domain.RoleAdmin)
	login(t, auth, session, "admin@campus.edu", "secret1")

	panel := service.NewPanel[domain.Alumni](httpapi.NewAlumniClient(client), zerolog.Nop())
	created, err := panel.Create(context.Background(), domain.Alumni{
		Name:           "Priya",
		Email:          "priya@alumni.edu",
		GraduationYear: 2019,
		Degree:         "B.Tech",
		Department:     "CS",
		CurrentCompany: "Acme",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("server did not assign an id")
	}

	if err := panel.Load(context.Background(), domain.ListQuery{}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	items := panel.Items()
	if len(items) != 1 || items[0].CurrentCompany != "Acme" || items[0].GraduationYear != 2019 {
		t.Fatalf("decoded alumni page = %+v", items)
	}
	if panel.Total() != 1 {
		t.Fatalf("total = %d, want 1", panel.Total())
	}

	updated, err := panel.Update(context.Background(), created.ID, domain.Alumni{CurrentPosition: "Staff Engineer"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CurrentPosition != "Staff Engineer" || updated.CurrentCompany != "Acme" {
		t.Fatalf("updated = %+v", updated)
	}

	if err := panel.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestIntegration_FacultyListIsNotPaginated(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "admin@campus.edu", "secret1", domain.RoleAdmin)
	login(t, auth, session, "admin@campus.edu", "secret1")

	api := httpapi.NewFacultyClient(client)
	for i := 0; i < 12; i++ {
		if _, err := api.Create(context.Background(), domain.Faculty{Name: fmt.Sprintf("Dr. %02d", i), Department: "CS"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	// An empty query returns the whole collection, not the default page.
	page, err := api.List(context.Background(), domain.ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 12 || page.Total != 12 {
		t.Fatalf("faculty page = %d items / total %d, want all 12", len(page.Items), page.Total)
	}
}

func TestIntegration_EventsListAndAdd(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "admin@campus.edu", "secret1", domain.RoleAdmin)
	login(t, auth, session, "admin@campus.edu", "secret1")

	api := httpapi.NewEventClient(client)
	created, err := api.Create(context.Background(), domain.Event{
		Title:    "Alumni Meet 2026",
		Date:     "2026-12-20",
		Location: "Main Auditorium",
		Type:     "networking",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("server did not assign an id")
	}

	// The list is public.
	public := httpapi.NewEventClient(startStub(t, nil))
	if _, err := public.List(context.Background(), domain.ListQuery{}); err != nil {
		t.Fatalf("public list on fresh stub: %v", err)
	}
	page, err := api.List(context.Background(), domain.ListQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Title != "Alumni Meet 2026" {
		t.Fatalf("events = %+v", page.Items)
	}
}

func TestIntegration_ContactSubmission(t *testing.T) {
	client := startStub(t, nil)

	ack, err := httpapi.SubmitContact(context.Background(), client, domain.ContactMessage{
		Name:    "Visitor",
		Email:   "visitor@example.com",
		Subject: "Admission query",
		Message: "When do applications open?",
	})
	if err != nil {
		t.Fatalf("SubmitContact: %v", err)
	}
	if ack == "" {
		t.Fatalf("expected an acknowledgement message")
	}

	// Missing fields are rejected before anything is stored.
	_, err = httpapi.SubmitContact(context.Background(), client, domain.ContactMessage{Name: "Visitor"})
	var re *domain.RequestError
	if !errors.As(err, &re) || re.StatusCode != 400 {
		t.Fatalf("invalid submission: err = %v, want 400", err)
	}
}

func TestRouter_ProductionHidesDevOTP(t *testing.T) {
	cfg := &config.StubConfig{Env: "production", JWTSecret: "test-secret"}
	e := NewRouter(cfg, MemoryDeps(), zerolog.Nop())
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	auth := httpapi.NewAuthClient(httpapi.NewClient(srv.URL+"/api", nil, 0, zerolog.Nop()))
	issued, err := auth.RequestRegisterOTP(context.Background(), ports.RegisterInput{
		Name:     "Prod User",
		Email:    "prod@campus.edu",
		Password: "secret1",
		Role:     domain.RoleStudent,
	})
	if err != nil {
		t.Fatalf("RequestRegisterOTP: %v", err)
	}
	if issued.DevOTP != "" {
		t.Fatalf("devOtp exposed outside development mode")
	}
}

func TestIntegration_StudentResultsView(t *testing.T) {
	session := newFileSession(t)
	client := startStub(t, session)
	auth := httpapi.NewAuthClient(client)

	registerAccount(t, auth, "admin@campus.edu", "secret1", domain.RoleAdmin)
	login(t, auth, session, "admin@campus.edu", "secret1")

	api := httpapi.NewResultClient(client)
	if _, err := api.Create(context.Background(), domain.Result{StudentID: "s1", Grade: "A"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := api.Create(context.Background(), domain.Result{StudentID: "s2", Grade: "B"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	results, err := httpapi.StudentResults(context.Background(), client, "s1")
	if err != nil {
		t.Fatalf("StudentResults: %v", err)
	}
	if len(results) != 1 || results[0].Grade != "A" {
		t.Fatalf("results = %+v", results)
	}
}
