package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"flabi/internal/domain"
)

type memAdmins struct {
	mu     sync.Mutex
	admins map[string]domain.Admin
	err    error
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.admins[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (m *memAdmins) Create(_ context.Context, a *domain.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[strings.ToLower(a.Email)] = *a
	return nil
}

func newTestService(t *testing.T) (*Service, *memAdmins) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("tour-de-suisse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	admins := &memAdmins{admins: map[string]domain.Admin{
		"flabi@example.com": {ID: "admin-1", Email: "flabi@example.com", PasswordHash: string(hash)},
	}}
	svc, err := NewService(admins, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, admins
}

func TestSignInAndCurrentSession(t *testing.T) {
	svc, _ := newTestService(t)
	session, token, err := svc.SignIn(context.Background(), " Flabi@Example.com ", "tour-de-suisse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !session.IsAdmin() || session.TokenID == "" || token == "" {
		t.Fatalf("unexpected session %+v token %q", session, token)
	}
	got, err := svc.CurrentSession(token)
	if err != nil || got == nil {
		t.Fatalf("CurrentSession = %+v, %v", got, err)
	}
	if got.AdminID != "admin-1" || got.Email != "flabi@example.com" || got.TokenID != session.TokenID {
		t.Fatalf("session mismatch %+v", got)
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	svc, admins := newTestService(t)
	tests := []struct {
		name     string
		email    string
		password string
		kind     domain.Kind
	}{
		{name: "wrong password", email: "flabi@example.com", password: "nope", kind: domain.KindUnauthorized},
		{name: "unknown email", email: "who@example.com", password: "tour-de-suisse", kind: domain.KindUnauthorized},
		{name: "empty", email: "", password: "", kind: domain.KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, token, err := svc.SignIn(context.Background(), tc.email, tc.password)
			if domain.KindOf(err) != tc.kind || token != "" {
				t.Fatalf("SignIn = %q, %v; want kind %v", token, err, tc.kind)
			}
		})
	}

	admins.err = errors.New("db down")
	_, _, err := svc.SignIn(context.Background(), "flabi@example.com", "tour-de-suisse")
	if !errors.Is(err, domain.ErrCollaborator) {
		t.Fatalf("repository failure = %v, want collaborator", err)
	}
}

func TestCurrentSessionInvalidTokens(t *testing.T) {
	svc, _ := newTestService(t)
	_, token, err := svc.SignIn(context.Background(), "flabi@example.com", "tour-de-suisse")
	if err != nil {
		t.Fatal(err)
	}
	other, err := NewService(&memAdmins{admins: map[string]domain.Admin{}}, "other-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	for name, tc := range map[string]struct {
		svc   *Service
		token string
	}{
		"empty":        {svc, ""},
		"garbage":      {svc, "not.a.jwt"},
		"wrong secret": {other, token},
	} {
		got, err := tc.svc.CurrentSession(tc.token)
		if err != nil || got != nil {
			t.Fatalf("%s: CurrentSession = %+v, %v", name, got, err)
		}
	}
}

func TestExpiredToken(t *testing.T) {
	svc, _ := newTestService(t)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	_, token, err := svc.SignIn(context.Background(), "flabi@example.com", "tour-de-suisse")
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Hour)
	if got, _ := svc.CurrentSession(token); got != nil {
		t.Fatalf("expired token still valid: %+v", got)
	}
}

func TestSignOutRevokesAndNotifies(t *testing.T) {
	svc, _ := newTestService(t)
	var events []Event
	unsubscribe := svc.Subscribe(func(ev Event) { events = append(events, ev) })

	_, token, err := svc.SignIn(context.Background(), "flabi@example.com", "tour-de-suisse")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SignOut(token); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if got, _ := svc.CurrentSession(token); got != nil {
		t.Fatalf("revoked token still valid: %+v", got)
	}
	if len(events) != 2 || events[0].Kind != SignedIn || events[1].Kind != SignedOut {
		t.Fatalf("unexpected events %+v", events)
	}

	unsubscribe()
	unsubscribe()
	if _, _, err := svc.SignIn(context.Background(), "flabi@example.com", "tour-de-suisse"); err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("unsubscribed listener still called: %d events", len(events))
	}
	if err := svc.SignOut("garbage"); err != nil {
		t.Fatalf("SignOut(garbage) = %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatal("expected short password to be rejected")
	}
	hash, err := HashPassword("long-enough-password")
	if err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("long-enough-password")) != nil {
		t.Fatal("hash does not verify")
	}
}
