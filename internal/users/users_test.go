package users

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records how often it is searched and can be told to fail.
type countingStore struct {
	next  Store
	err   error
	calls atomic.Int32
	mu    sync.Mutex
}

func (s *countingStore) Search(ctx context.Context, criteria Criteria) ([]Principal, error) {
	s.calls.Add(1)
	s.mu.Lock()
	err := s.err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.next.Search(ctx, criteria)
}

func (s *countingStore) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func newTestStore() *MemoryStore {
	return NewMemoryStore(
		NewUser("u1", "bob@example.com", "H0lberton").WithName("Bob", "Dylan"),
		NewUser("u2", "alice@example.com", "s3cret"),
		NewUser("u3", "nopass@example.com", ""),
		nil,
	)
}

func TestUser_ValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		user   *User
		secret string
		want   bool
	}{
		{name: "correct", user: NewUser("1", "a@b.c", "pwd"), secret: "pwd", want: true},
		{name: "wrong", user: NewUser("1", "a@b.c", "pwd"), secret: "pwD", want: false},
		{name: "empty secret", user: NewUser("1", "a@b.c", "pwd"), secret: "", want: false},
		{name: "no credential", user: NewUser("1", "a@b.c", ""), secret: "", want: false},
		{name: "colon in secret", user: NewUser("1", "a@b.c", "a:b"), secret: "a:b", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.user.ValidatePassword(tt.secret))
		})
	}
}

func TestUser_DisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bob Dylan", NewUser("1", "b@x", "").WithName("Bob", "Dylan").DisplayName())
	assert.Equal(t, "Bob", NewUser("1", "b@x", "").WithName("Bob", "").DisplayName())
	assert.Equal(t, "Dylan", NewUser("1", "b@x", "").WithName("", "Dylan").DisplayName())
	assert.Equal(t, "b@x", NewUser("1", "b@x", "").DisplayName())
}

func TestUser_View(t *testing.T) {
	t.Parallel()

	v := NewUser("u1", "bob@example.com", "pwd").WithName("Bob", "Dylan").View()
	assert.Equal(t, View{
		ID:          "u1",
		Email:       "bob@example.com",
		FirstName:   "Bob",
		LastName:    "Dylan",
		DisplayName: "Bob Dylan",
	}, v)
}

func TestCriteria_Key(t *testing.T) {
	t.Parallel()

	a := Criteria{AttrEmail: "x@y", AttrID: "1"}
	b := Criteria{AttrID: "1", AttrEmail: "x@y"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Criteria{AttrEmail: "x@y"}.Key())
	assert.Empty(t, Criteria{}.Key())
}

func TestMemoryStore_Search(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	require.Equal(t, 3, store.Len())

	tests := []struct {
		name     string
		criteria Criteria
		wantIDs  []string
	}{
		{name: "by email", criteria: Criteria{AttrEmail: "bob@example.com"}, wantIDs: []string{"u1"}},
		{name: "by id", criteria: Criteria{AttrID: "u2"}, wantIDs: []string{"u2"}},
		{name: "email is case sensitive", criteria: Criteria{AttrEmail: "BOB@example.com"}, wantIDs: []string{}},
		{name: "unknown attribute", criteria: Criteria{"role": "admin"}, wantIDs: []string{}},
		{name: "all criteria must match", criteria: Criteria{AttrID: "u1", AttrEmail: "alice@example.com"}, wantIDs: []string{}},
		{name: "empty criteria matches all", criteria: Criteria{}, wantIDs: []string{"u1", "u2", "u3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			found, err := store.Search(context.Background(), tt.criteria)
			require.NoError(t, err)

			ids := make([]string, 0, len(found))
			for _, p := range found {
				ids = append(ids, p.ID())
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestMemoryStore_AddAndCanceled(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.Add(nil)
	store.Add(NewUser("n", "new@example.com", "pwd"))
	assert.Equal(t, 1, store.Len())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Search(ctx, Criteria{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := newTestStore()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Add(NewUser("c", "c@example.com", "x"))
		}()
		go func() {
			defer wg.Done()
			_, err := store.Search(context.Background(), Criteria{AttrID: "u1"})
			assert.NoError(t, err, "iteration %d", i)
		}()
	}
	wg.Wait()
	assert.Equal(t, 23, store.Len())
}

type barePrincipal string

func (b barePrincipal) ID() string { return string(b) }
func (barePrincipal) ValidatePassword(string) bool { return false }

func TestViewOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Bob Dylan", ViewOf(NewUser("u1", "b@x", "").WithName("Bob", "Dylan")).DisplayName)
	assert.Equal(t, View{ID: "p1"}, ViewOf(barePrincipal("p1")))
}
