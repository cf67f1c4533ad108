package mock

import (
	"crypto/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/raumania/storefront/internal/collection"
)

const (
	// Username, Email and Password identify the user every new Service is seeded with.
	Username = "alice"
	Email    = "alice@storefront.test"
	Password = "s3cret!"

	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// User is a registered storefront account.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FullName      string `json:"fullName,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
	IsActive      bool   `json:"isActive"`
	password      string
}

// Service simulates the storefront API.
type Service struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Optional overrides; nil means the default handler.
	LoginHandler    http.HandlerFunc
	RefreshHandler  http.HandlerFunc
	ResourceHandler http.HandlerFunc

	users     *collection.SyncMap[string, *User]
	resets    *collection.SyncMap[string, string]
	resources *collection.SyncMap[string, *collection.SyncMap[string, map[string]any]]
	calls     *collection.SyncMap[string, *atomic.Int64]

	epoch       atomic.Int64
	failRefresh atomic.Bool
	gate        atomic.Pointer[refreshGate]
}

type refreshGate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// New creates a Service seeded with the default user.
func New() *Service {
	secret := make([]byte, 32)
	_, _ = rand.Read(secret)
	ret := &Service{
		Secret:     secret,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		users:      collection.NewSyncMap[string, *User](),
		resets:     collection.NewSyncMap[string, string](),
		resources:  collection.NewSyncMap[string, *collection.SyncMap[string, map[string]any]](),
		calls:      collection.NewSyncMap[string, *atomic.Int64](),
	}
	ret.AddUser(Username, Email, Password, "ADMIN")
	return ret
}

// Handler returns the http.Handler serving the API.
func (s *Service) Handler() http.Handler {
	return &Handler{Service: s}
}

// AddUser registers an active, verified user.
func (s *Service) AddUser(username, email, password, role string) *User {
	user := &User{
		ID:            uuid.NewString(),
		Username:      username,
		Email:         email,
		Role:          role,
		EmailVerified: true,
		IsActive:      true,
		password:      password,
	}
	s.users.Put(user.ID, user)
	return user
}

func (s *Service) lookupUser(identifier string) (*User, bool) {
	var ret *User
	s.users.Range(func(_ string, user *User) bool {
		if strings.EqualFold(user.Username, identifier) || strings.EqualFold(user.Email, identifier) {
			ret = user
			return false
		}
		return true
	})
	return ret, ret != nil
}

// Expire revokes every access token issued so far. Refresh tokens stay valid.
func (s *Service) Expire() {
	s.epoch.Add(1)
}

// FailRefresh makes the refresh endpoint answer 401 while enabled.
func (s *Service) FailRefresh(enabled bool) {
	s.failRefresh.Store(enabled)
}

// GateRefresh holds every refresh request until release is called. A value is
// sent on entered each time a refresh request reaches the gate.
func (s *Service) GateRefresh() (entered <-chan struct{}, release func()) {
	g := &refreshGate{entered: make(chan struct{}, 64), release: make(chan struct{})}
	s.gate.Store(g)
	return g.entered, func() {
		g.once.Do(func() {
			s.gate.CompareAndSwap(g, nil)
			close(g.release)
		})
	}
}

// ResetToken returns the password reset token last issued for email.
func (s *Service) ResetToken(email string) (string, bool) {
	return s.resets.Get(strings.ToLower(email))
}

// Seed stores items under resource, assigning ids where missing.
func (s *Service) Seed(resource string, items ...map[string]any) {
	store := s.collection(resource)
	for _, item := range items {
		id, _ := item["id"].(string)
		if id == "" {
			id = uuid.NewString()
			item["id"] = id
		}
		store.Put(id, item)
	}
}

// Calls returns how many requests reached path.
func (s *Service) Calls(path string) int {
	counter, ok := s.calls.Get(path)
	if !ok {
		return 0
	}
	return int(counter.Load())
}

func (s *Service) count(path string) {
	s.calls.GetOrPut(path, func() *atomic.Int64 { return &atomic.Int64{} }).Add(1)
}

func (s *Service) collection(resource string) *collection.SyncMap[string, map[string]any] {
	return s.resources.GetOrPut(resource, collection.NewSyncMap[string, map[string]any])
}
