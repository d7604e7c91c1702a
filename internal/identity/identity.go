// Package identity signs admins in and out and resolves sessions from
// bearer tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"flabi/internal/domain"
)

const issuer = "flabi"

// ErrInvalidCredentials is wrapped in an unauthorized error by SignIn.
var ErrInvalidCredentials = errors.New("invalid email or password")

// dummyHash is compared against when the email is unknown, so both paths
// pay for one bcrypt comparison.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("flabi-unknown-admin"), bcrypt.DefaultCost)
	return h
})

// EventKind tells subscribers what happened to a session.
type EventKind int

const (
	SignedIn EventKind = iota + 1
	SignedOut
)

func (k EventKind) String() string {
	switch k {
	case SignedIn:
		return "signed_in"
	case SignedOut:
		return "signed_out"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after a session change.
type Event struct {
	Kind    EventKind
	Session domain.Session
	At      time.Time
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Service is the identity collaborator. Tokens are HS256 JWTs; signing out
// revokes the token id until the token would have expired anyway.
type Service struct {
	admins domain.AdminRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
	subs    map[int]func(Event)
	nextSub int
}

// NewService builds a Service. ttl defaults to 12h.
func NewService(admins domain.AdminRepository, secret string, ttl time.Duration) (*Service, error) {
	if admins == nil {
		return nil, errors.New("identity: admin repository is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("identity: secret is required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		admins:  admins,
		secret:  []byte(secret),
		ttl:     ttl,
		now:     time.Now,
		revoked: map[string]time.Time{},
		subs:    map[int]func(Event){},
	}, nil
}

// SignIn checks the password and issues a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.Session, string, error) {
	const op = "identity.SignIn"
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return domain.Session{}, "", domain.Invalid(op, "email and password are required")
	}

	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, "", domain.E(domain.KindCollaborator, op, err)
	}
	if admin == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return domain.Session{}, "", domain.E(domain.KindUnauthorized, op, ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, "", domain.E(domain.KindUnauthorized, op, ErrInvalidCredentials)
	}

	now := s.now()
	session := domain.Session{
		AdminID:   admin.ID,
		Email:     admin.Email,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.ttl).Truncate(time.Second),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   session.AdminID,
			ID:        session.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Email: session.Email,
	}).SignedString(s.secret)
	if err != nil {
		return domain.Session{}, "", fmt.Errorf("%s: sign token: %w", op, err)
	}

	s.publish(Event{Kind: SignedIn, Session: session, At: now})
	return session, token, nil
}

// SignOut revokes token. Unknown or invalid tokens are ignored.
func (s *Service) SignOut(token string) error {
	session := s.parse(token)
	if session == nil {
		return nil
	}
	now := s.now()
	s.mu.Lock()
	for jti, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, jti)
		}
	}
	s.revoked[session.TokenID] = session.ExpiresAt
	s.mu.Unlock()

	s.publish(Event{Kind: SignedOut, Session: *session, At: now})
	return nil
}

// CurrentSession resolves token. Absent, malformed, expired and revoked
// tokens all yield a nil session without error.
func (s *Service) CurrentSession(token string) (*domain.Session, error) {
	session := s.parse(token)
	if session == nil {
		return nil, nil
	}
	s.mu.Lock()
	_, revoked := s.revoked[session.TokenID]
	s.mu.Unlock()
	if revoked {
		return nil, nil
	}
	return session, nil
}

// Subscribe registers fn for session changes until the returned func is
// called. fn runs synchronously on the signing goroutine.
func (s *Service) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Service) publish(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (s *Service) parse(token string) *domain.Session {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || c.Subject == "" || c.ID == "" || c.ExpiresAt == nil {
		return nil
	}
	return &domain.Session{
		AdminID:   c.Subject,
		Email:     c.Email,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}
}

// HashPassword returns the bcrypt hash stored for an admin.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("identity: password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("identity: hash password: %w", err)
	}
	return string(hash), nil
}
