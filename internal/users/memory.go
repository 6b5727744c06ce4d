package users

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"sync"

	"github.com/samber/lo"
)

// User is the record kept by MemoryStore.
type User struct {
	id           string
	email        string
	firstName    string
	lastName     string
	passwordHash [32]byte
	hasPassword  bool
}

// NewUser creates a user. The password is hashed immediately; the plaintext
// is not kept. An empty password leaves the user without a credential, so
// ValidatePassword always fails for it.
func NewUser(id, email, password string) *User {
	u := &User{id: id, email: email}
	if password != "" {
		u.passwordHash = sha256.Sum256([]byte(password))
		u.hasPassword = true
	}
	return u
}

// WithName sets the user's first and last name.
func (u *User) WithName(first, last string) *User {
	u.firstName = first
	u.lastName = last
	return u
}

// ID implements Principal.
func (u *User) ID() string { return u.id }

// Email returns the user's email address.
func (u *User) Email() string { return u.email }

// DisplayName returns the full name, falling back to whichever name part is
// set and then to the email address.
func (u *User) DisplayName() string {
	switch {
	case u.firstName == "" && u.lastName == "":
		return u.email
	case u.lastName == "":
		return u.firstName
	case u.firstName == "":
		return u.lastName
	default:
		return u.firstName + " " + u.lastName
	}
}

// ValidatePassword implements Principal using constant-time comparison.
func (u *User) ValidatePassword(secret string) bool {
	if !u.hasPassword {
		return false
	}
	provided := sha256.Sum256([]byte(secret))
	return subtle.ConstantTimeCompare(provided[:], u.passwordHash[:]) == 1
}

// View is the public JSON representation of a user. It never carries the
// credential.
type View struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	DisplayName string `json:"display_name"`
}

// View returns the public representation of the user.
func (u *User) View() View {
	return View{
		ID:          u.id,
		Email:       u.email,
		FirstName:   u.firstName,
		LastName:    u.lastName,
		DisplayName: u.DisplayName(),
	}
}

// Viewer is implemented by principals that expose a public representation.
type Viewer interface {
	View() View
}

// ViewOf returns p's public representation. Principals that are not a
// Viewer are represented by their id alone.
func ViewOf(p Principal) View {
	if v, ok := p.(Viewer); ok {
		return v.View()
	}
	return View{ID: p.ID()}
}

func (u *User) attribute(name string) (string, bool) {
	switch name {
	case AttrID:
		return u.id, true
	case AttrEmail:
		return u.email, true
	case AttrFirstName:
		return u.firstName, true
	case AttrLastName:
		return u.lastName, true
	default:
		return "", false
	}
}

func (u *User) matches(criteria Criteria) bool {
	for name, want := range criteria {
		got, ok := u.attribute(name)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// MemoryStore is a Store over a fixed, in-process user list.
// It is safe for concurrent use.
type MemoryStore struct {
	users []*User
	mu    sync.RWMutex
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding the given users.
func NewMemoryStore(users ...*User) *MemoryStore {
	return &MemoryStore{users: lo.Compact(users)}
}

// Add appends a user to the store.
func (s *MemoryStore) Add(u *User) {
	if u == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
}

// Len returns the number of stored users.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Search implements Store. Unknown attribute names never match and
// comparison is exact.
func (s *MemoryStore) Search(ctx context.Context, criteria Criteria) ([]Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := lo.Filter(s.users, func(u *User, _ int) bool {
		return u.matches(criteria)
	})

	return lo.Map(matched, func(u *User, _ int) Principal {
		return u
	}), nil
}
