package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Service is the session/identity provider: it creates accounts, checks
// credentials, issues tokens and tells subscribers when the current
// identity changes.
type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	revoked   map[string]time.Time
	listeners map[int]func(Event)
	nextID    int
}

func NewService(repo Repository, secret string, ttl time.Duration) *Service {
	return &Service{
		repo:      repo,
		secret:    []byte(secret),
		ttl:       ttl,
		now:       time.Now,
		revoked:   make(map[string]time.Time),
		listeners: make(map[int]func(Event)),
	}
}

// CreateAccount registers a new identity for email/password.
func (s *Service) CreateAccount(ctx context.Context, email, password string) (Identity, error) {
	email = normalizeEmail(email)
	if email == "" {
		return Identity{}, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return Identity{}, ErrWeakPassword
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Identity{}, ErrEmailExists
	} else if err != ErrNotFound {
		return Identity{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Identity{}, err
	}

	created, err := s.repo.Create(ctx, Identity{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hashed),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return Identity{}, err
	}

	s.publish(Event{Kind: EventSignedUp, UID: created.UID, Identity: &created})
	return created, nil
}

// SignIn checks credentials. Unknown emails and wrong passwords fail the
// same way so callers cannot tell which part was wrong.
func (s *Service) SignIn(ctx context.Context, email, password string) (Identity, error) {
	id, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err != ErrNotFound {
			logrus.WithError(err).Warn("identity lookup failed during sign-in")
		}
		return Identity{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(id.PasswordHash), []byte(password)) != nil {
		return Identity{}, ErrInvalidCredentials
	}

	s.publish(Event{Kind: EventSignedIn, UID: id.UID, Identity: &id})
	return id, nil
}

// Lookup returns the identity for uid.
func (s *Service) Lookup(ctx context.Context, uid string) (Identity, error) {
	return s.repo.GetByID(ctx, uid)
}

// SignOut revokes the token until it would have expired anyway.
func (s *Service) SignOut(claims Claims) {
	s.mu.Lock()
	now := s.now()
	for jti, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, jti)
		}
	}
	if claims.TokenID != "" {
		s.revoked[claims.TokenID] = claims.ExpiresAt
	}
	s.mu.Unlock()

	s.publish(Event{Kind: EventSignedOut, UID: claims.UID})
}

// Revoked reports whether the token id was signed out.
func (s *Service) Revoked(tokenID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok
}

// OnIdentityChanged registers fn for identity events and returns a func
// that removes the subscription.
func (s *Service) OnIdentityChanged(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Service) publish(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
