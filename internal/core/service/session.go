package service

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/core/ports"
)

// Storage keys, shared with the original browser client so a state file can
// be inspected with the same vocabulary.
const (
	keyToken    = "token"
	keyUser     = "user"
	keyDarkMode = "darkMode"
	keyFontSize = "fontSize"
)

const (
	FontSizeMin     = 12
	FontSizeMax     = 18
	FontSizeDefault = 14
)

// Session is the single source of truth for the authenticated user and UI
// preferences. All state is mirrored to durable storage on every mutation and
// restored on startup.
type Session struct {
	mu    sync.Mutex
	store ports.Storage
	log   zerolog.Logger

	user     *domain.User
	token    string
	darkMode bool
	fontSize int
}

func NewSession(store ports.Storage, log zerolog.Logger) *Session {
	return &Session{store: store, log: log, fontSize: FontSizeDefault}
}

// Restore loads the persisted session and preferences. A malformed user
// record is treated as absence: the key is discarded and Restore still
// succeeds, leaving the session unauthenticated.
func (s *Session) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.store.Get(keyDarkMode); ok {
		s.darkMode = v == "true"
	}
	if v, ok := s.store.Get(keyFontSize); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.fontSize = n
		}
	}
	if v, ok := s.store.Get(keyToken); ok {
		s.token = v
	}
	if v, ok := s.store.Get(keyUser); ok {
		var u domain.User
		if err := json.Unmarshal([]byte(v), &u); err != nil {
			s.log.Warn().Err(err).Msg("discarding corrupt persisted user record")
			_ = s.store.Delete(keyUser)
			return
		}
		s.user = &u
	}
}

// Login overwrites the current session unconditionally. There is no merging
// with a previously stored user.
func (s *Session) Login(user *domain.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.store.Set(keyUser, string(raw)); err != nil {
		return err
	}
	if err := s.store.Set(keyToken, token); err != nil {
		return err
	}

	u := *user
	s.user = &u
	s.token = token
	s.log.Info().Str("role", user.Role).Str("email", user.Email).Msg("session established")
	return nil
}

// Logout clears the local session. The bearer token is not invalidated
// server-side; that is out of the client's hands.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = ""
	if err := s.store.Delete(keyUser); err != nil {
		return err
	}
	return s.store.Delete(keyToken)
}

// Current returns a copy of the authenticated user, or nil.
func (s *Session) Current() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Token satisfies ports.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.darkMode
}

func (s *Session) ToggleDarkMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.darkMode = !s.darkMode
	return s.store.Set(keyDarkMode, strconv.FormatBool(s.darkMode))
}

func (s *Session) FontSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fontSize
}

// SetFontSize persists n when it lies within [FontSizeMin, FontSizeMax].
// Values outside the range are a no-op, matching the stepper behaviour of the
// original UI.
func (s *Session) SetFontSize(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n < FontSizeMin || n > FontSizeMax {
		return nil
	}
	s.fontSize = n
	return s.store.Set(keyFontSize, strconv.Itoa(n))
}

func (s *Session) IncreaseFontSize() error {
	return s.SetFontSize(s.FontSize() + 1)
}

func (s *Session) DecreaseFontSize() error {
	return s.SetFontSize(s.FontSize() - 1)
}
