// Command portal is the terminal front end for the campus portal: OTP-gated
// login, registration and password reset, session-backed preferences, and
// the admin resource management panels.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/core/ports"
	"github.com/campuslink/portal/internal/core/service"
	"github.com/campuslink/portal/internal/infrastructure/config"
	"github.com/campuslink/portal/internal/infrastructure/httpapi"
	"github.com/campuslink/portal/internal/infrastructure/storage"
	"github.com/campuslink/portal/pkg/logger"
)

const usage = `Usage: portal <command> [flags]

Auth:
  login             sign in with email + password + OTP
  register          create an account (OTP-verified)
  reset-password    reset a forgotten password
  logout            clear the local session
  whoami            show the signed-in user

Preferences:
  dark-mode         toggle dark mode
  font-size         show or adjust font size (--set n | --up | --down)

Resources (admin):
  students|faculty|notices|departments|courses|results|alumni|events
                    followed by: list [--page --limit --search]
                                 create --json '{...}'
                                 update --id X --json '{...}'
                                 delete --id X
  results student <id>
                    show one student's results

Other:
  contact           send a message via the contact form
`

type app struct {
	session *service.Session
	client  *httpapi.Client
	auth    *httpapi.AuthClient
	log     zerolog.Logger
	in      *bufio.Reader
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Env == "development"})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	statePath := cfg.StateFile
	if statePath == "" {
		var err error
		statePath, err = storage.DefaultPath()
		if err != nil {
			log.Fatal().Err(err).Msg("cannot resolve state path")
		}
	}
	store, err := storage.Open(statePath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open state file")
	}

	session := service.NewSession(store, log)
	session.Restore()

	client := httpapi.NewClient(cfg.BaseURL(), session, cfg.HTTPTimeout, log)
	a := &app{
		session: session,
		client:  client,
		auth:    httpapi.NewAuthClient(client),
		log:     log,
		in:      bufio.NewReader(os.Stdin),
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx)
	case "register":
		return a.register(ctx)
	case "reset-password":
		return a.resetPassword(ctx)
	case "logout":
		if err := a.session.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	case "whoami":
		return a.whoami()
	case "dark-mode":
		if err := a.session.ToggleDarkMode(); err != nil {
			return err
		}
		fmt.Printf("Dark mode: %v\n", a.session.DarkMode())
		return nil
	case "font-size":
		return a.fontSize(args)
	case "students":
		return runResource(ctx, a, httpapi.NewStudentClient(a.client), args)
	case "faculty":
		return runResource(ctx, a, httpapi.NewFacultyClient(a.client), args)
	case "notices":
		return runResource(ctx, a, httpapi.NewNoticeClient(a.client), args)
	case "departments":
		return runResource(ctx, a, httpapi.NewDepartmentClient(a.client), args)
	case "courses":
		return runResource(ctx, a, httpapi.NewCourseClient(a.client), args)
	case "results":
		if len(args) >= 2 && args[0] == "student" {
			return a.studentResults(ctx, args[1])
		}
		return runResource(ctx, a, httpapi.NewResultClient(a.client), args)
	case "alumni":
		return runResource(ctx, a, httpapi.NewAlumniClient(a.client), args)
	case "events":
		return runResource(ctx, a, httpapi.NewEventClient(a.client), args)
	case "contact":
		return a.contact(ctx)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// login drives the two-step login flow, then reports the dashboard the user
// lands on.
func (a *app) login(ctx context.Context) error {
	flow := service.NewLoginFlow(a.auth, a.session, a.log)

	email := a.prompt("Email: ")
	password := a.prompt("Password: ")
	if err := flow.SubmitLogin(ctx, email, password); err != nil {
		return errors.New(flow.Message())
	}
	fmt.Println("OTP sent to your email.")

	user, err := a.verifyLoop(ctx, flow)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s) → %s\n", user.Name, user.Role, domain.DashboardRoute(user.Role))
	return nil
}

func (a *app) register(ctx context.Context) error {
	flow := service.NewRegisterFlow(a.auth, a.log)

	in := ports.RegisterInput{
		Name:     a.prompt("Full name: "),
		Email:    a.prompt("Email: "),
		Password: a.prompt("Password: "),
		Role:     a.prompt("Role (student/teacher/admin/alumni): "),
	}
	if err := flow.SubmitRegistration(ctx, in); err != nil {
		return errors.New(flow.Message())
	}
	fmt.Println("OTP sent to your email. Please enter it to complete registration.")

	if _, err := a.verifyLoop(ctx, flow); err != nil {
		return err
	}
	fmt.Println("Registration successful. You can now log in.")
	return nil
}

func (a *app) resetPassword(ctx context.Context) error {
	flow := service.NewPasswordResetFlow(a.auth, a.log)

	email := a.prompt("Email: ")
	if err := flow.SubmitEmail(ctx, email); err != nil {
		return errors.New(flow.Message())
	}
	fmt.Println("OTP sent to your email.")

	if _, err := a.verifyLoop(ctx, flow); err != nil {
		return err
	}

	for {
		newPassword := a.prompt("New password: ")
		confirm := a.prompt("Confirm password: ")
		err := flow.SubmitNewPassword(ctx, newPassword, confirm)
		if err == nil {
			fmt.Println("Password reset successfully! You can now log in with your new password.")
			return nil
		}
		if errors.Is(err, domain.ErrPasswordMismatch) || errors.Is(err, domain.ErrPasswordTooShort) {
			fmt.Println(flow.Message())
			continue
		}
		return errors.New(flow.Message())
	}
}

// verifyLoop prompts for the code until verification succeeds, supporting
// "resend" with the cooldown surfaced to the user.
func (a *app) verifyLoop(ctx context.Context, flow *service.Flow) (*domain.User, error) {
	if dev := flow.DevOTP(); dev != "" {
		fmt.Printf("Dev OTP: %s\n", dev)
	}
	for {
		entry := a.prompt("OTP (or 'resend'): ")
		if entry == "resend" {
			if err := flow.ResendOTP(ctx); err != nil {
				if errors.Is(err, domain.ErrResendCooldown) {
					fmt.Printf("Resend available in %ds\n", int(flow.ResendAvailableIn()/time.Second))
					continue
				}
				return nil, errors.New(flow.Message())
			}
			fmt.Println("OTP resent to your email.")
			if dev := flow.DevOTP(); dev != "" {
				fmt.Printf("Dev OTP: %s\n", dev)
			}
			continue
		}

		user, err := flow.VerifyOTP(ctx, entry)
		if err != nil {
			fmt.Println(flow.Message())
			continue
		}
		return user, nil
	}
}

// contact submits the public contact form and prints the acknowledgement.
func (a *app) contact(ctx context.Context) error {
	msg := domain.ContactMessage{
		Name:    a.prompt("Name: "),
		Email:   a.prompt("Email: "),
		Subject: a.prompt("Subject: "),
		Message: a.prompt("Message: "),
	}
	ack, err := httpapi.SubmitContact(ctx, a.client, msg)
	if err != nil {
		return err
	}
	fmt.Println(ack)
	return nil
}

// studentResults prints the per-student results view.
func (a *app) studentResults(ctx context.Context, studentID string) error {
	results, err := httpapi.StudentResults(ctx, a.client, studentID)
	if err != nil {
		return err
	}
	for _, r := range results {
		raw, err := json.Marshal(r)
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
	}
	return nil
}

func (a *app) whoami() error {
	user := a.session.Current()
	if user == nil {
		return domain.ErrNotAuthenticated
	}
	raw, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

func (a *app) fontSize(args []string) error {
	fs := flag.NewFlagSet("font-size", flag.ContinueOnError)
	set := fs.Int("set", 0, "set font size (12-18)")
	up := fs.Bool("up", false, "increase font size")
	down := fs.Bool("down", false, "decrease font size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *set != 0:
		if err := a.session.SetFontSize(*set); err != nil {
			return err
		}
	case *up:
		if err := a.session.IncreaseFontSize(); err != nil {
			return err
		}
	case *down:
		if err := a.session.DecreaseFontSize(); err != nil {
			return err
		}
	}
	fmt.Printf("Font size: %d\n", a.session.FontSize())
	return nil
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// runResource drives one CRUD panel from the command line. Mutations require
// an admin session server-side; the client just forwards the bearer token.
func runResource[T domain.Record](ctx context.Context, a *app, api ports.ResourceAPI[T], args []string) error {
	if len(args) < 1 {
		return errors.New("expected: list | create | update | delete")
	}
	panel := service.NewPanel(api, a.log)

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		page := fs.Int("page", 1, "page number")
		limit := fs.Int("limit", 10, "page size")
		search := fs.String("search", "", "search term")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := panel.Load(ctx, domain.ListQuery{Page: *page, Limit: *limit, Search: *search}); err != nil {
			return err
		}
		for _, item := range panel.Items() {
			raw, err := json.Marshal(item)
			if err != nil {
				return err
			}
			fmt.Println(string(raw))
		}
		fmt.Printf("total: %d\n", panel.Total())
		return nil

	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		payload := fs.String("json", "", "record fields as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		var draft T
		if err := json.Unmarshal([]byte(*payload), &draft); err != nil {
			return fmt.Errorf("parse --json: %w", err)
		}
		created, err := panel.Create(ctx, draft)
		if err != nil {
			return err
		}
		fmt.Printf("created %s\n", created.RecordID())
		return nil

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		id := fs.String("id", "", "record id")
		payload := fs.String("json", "", "changed fields as JSON")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" {
			return errors.New("--id required")
		}
		var patch T
		if err := json.Unmarshal([]byte(*payload), &patch); err != nil {
			return fmt.Errorf("parse --json: %w", err)
		}
		if _, err := panel.Update(ctx, *id, patch); err != nil {
			return err
		}
		fmt.Printf("updated %s\n", *id)
		return nil

	case "delete":
		fs := flag.NewFlagSet("delete", flag.ContinueOnError)
		id := fs.String("id", "", "record id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" {
			return errors.New("--id required")
		}
		if err := panel.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", *id)
		return nil

	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}
