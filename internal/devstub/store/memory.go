package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuslink/portal/internal/core/domain"
)

// MemoryUsers is the default account store.
type MemoryUsers struct {
	mu    sync.Mutex
	users map[string]User // keyed by email
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[string]User)}
}

func (m *MemoryUsers) Create(_ context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.Email]; exists {
		return User{}, domain.ErrUserExists
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[u.Email] = u
	return u, nil
}

func (m *MemoryUsers) FindByEmail(_ context.Context, email string) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *MemoryUsers) UpdatePassword(_ context.Context, email, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	m.users[email] = u
	return nil
}

// MemoryOTPs keeps pending codes with their expiry.
type MemoryOTPs struct {
	mu    sync.Mutex
	codes map[string]memoryCode
}

type memoryCode struct {
	code    string
	expires time.Time
}

func NewMemoryOTPs() *MemoryOTPs {
	return &MemoryOTPs{codes: make(map[string]memoryCode)}
}

func otpKey(purpose domain.Purpose, email string) string {
	return string(purpose) + ":" + email
}

func (m *MemoryOTPs) Put(_ context.Context, purpose domain.Purpose, email, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[otpKey(purpose, email)] = memoryCode{code: code, expires: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryOTPs) Verify(_ context.Context, purpose domain.Purpose, email, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := otpKey(purpose, email)
	entry, ok := m.codes[key]
	if !ok || time.Now().After(entry.expires) || entry.code != code {
		return false, nil
	}
	delete(m.codes, key)
	return true, nil
}

// MemoryResources keeps each resource family as an insertion-ordered list,
// newest first, matching how the admin dashboard prepends created records.
type MemoryResources struct {
	mu   sync.Mutex
	docs map[string][]map[string]any
}

func NewMemoryResources() *MemoryResources {
	return &MemoryResources{docs: make(map[string][]map[string]any)}
}

func (m *MemoryResources) List(_ context.Context, resource string, q domain.ListQuery) ([]map[string]any, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []map[string]any
	for _, doc := range m.docs[resource] {
		if matchesSearch(doc, q.Search) {
			matched = append(matched, cloneDoc(doc))
		}
	}
	total := len(matched)

	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return []map[string]any{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MemoryResources) Get(_ context.Context, resource, id string) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.docs[resource] {
		if doc["id"] == id {
			return cloneDoc(doc), nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *MemoryResources) Insert(_ context.Context, resource string, doc map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc = cloneDoc(doc)
	doc["id"] = uuid.NewString()
	m.docs[resource] = append([]map[string]any{doc}, m.docs[resource]...)
	return cloneDoc(doc), nil
}

func (m *MemoryResources) Update(_ context.Context, resource, id string, patch map[string]any) (map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range m.docs[resource] {
		if doc["id"] == id {
			for k, v := range patch {
				if k == "id" {
					continue
				}
				doc[k] = v
			}
			return cloneDoc(doc), nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (m *MemoryResources) Delete(_ context.Context, resource, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.docs[resource]
	for i, doc := range docs {
		if doc["id"] == id {
			m.docs[resource] = append(docs[:i], docs[i+1:]...)
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

// matchesSearch does a case-insensitive substring match over every string
// field, the loosest interpretation of the search parameter.
func matchesSearch(doc map[string]any, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := doc[k].(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

func cloneDoc(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
