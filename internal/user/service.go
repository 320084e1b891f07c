package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wichananm65/fireworks-shop/internal/identity"
	"github.com/wichananm65/fireworks-shop/internal/validation"
)

var validate = validation.New()

// Service resolves identities to profiles and gates logins by role.
type Service struct {
	repo       Repository
	identities *identity.Service
	now        func() time.Time
}

func NewService(repo Repository, identities *identity.Service) *Service {
	return &Service{repo: repo, identities: identities, now: time.Now}
}

// ResolveOrCreate reads the profile for id. When none exists and fields
// are given, it writes a new profile with role user. It never writes when
// the profile already exists.
func (s *Service) ResolveOrCreate(ctx context.Context, id identity.Identity, fields *SignupFields) (Profile, error) {
	p, err := s.repo.Get(ctx, id.UID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}
	if fields == nil {
		return Profile{}, ErrProfileNotFound
	}

	p = Profile{
		UID:       id.UID,
		Email:     id.Email,
		Name:      strings.TrimSpace(fields.Name),
		Role:      RoleUser,
		Phone:     strings.TrimSpace(fields.Phone),
		Address:   strings.TrimSpace(fields.Address),
		CreatedAt: s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, p)
	if errors.Is(err, ErrExists) {
		// lost a race with a concurrent first login
		return s.repo.Get(ctx, id.UID)
	}
	return created, err
}

// Signup creates the identity and its user profile.
func (s *Service) Signup(ctx context.Context, email, password string, fields SignupFields) (Profile, identity.Identity, error) {
	if err := validate.Struct(fields); err != nil {
		return Profile{}, identity.Identity{}, err
	}
	id, err := s.identities.CreateAccount(ctx, email, password)
	if err != nil {
		return Profile{}, identity.Identity{}, err
	}
	p, err := s.ResolveOrCreate(ctx, id, &fields)
	if err != nil {
		return Profile{}, identity.Identity{}, fmt.Errorf("create profile: %w", err)
	}
	return p, id, nil
}

// Login signs in a customer and never writes. An existing profile must
// have role user. An identity without a profile still signs in, carrying
// only its uid and email and no role, so role-gated routes stay closed to it.
func (s *Service) Login(ctx context.Context, email, password string) (Profile, identity.Identity, error) {
	id, err := s.identities.SignIn(ctx, email, password)
	if err != nil {
		return Profile{}, identity.Identity{}, err
	}
	p, err := s.ResolveOrCreate(ctx, id, nil)
	if errors.Is(err, ErrProfileNotFound) {
		logrus.WithField("uid", id.UID).Warn("signed in without a stored profile")
		return Profile{UID: id.UID, Email: id.Email}, id, nil
	}
	if err != nil {
		return Profile{}, identity.Identity{}, err
	}
	if p.Role != RoleUser {
		logrus.WithField("uid", id.UID).Warn("non-user profile attempted customer login")
		return Profile{}, identity.Identity{}, ErrProfileNotFound
	}
	return p, id, nil
}

// AdminLogin signs in an administrator. The admin profile must already
// exist; it is never created here.
func (s *Service) AdminLogin(ctx context.Context, email, password string) (Profile, identity.Identity, error) {
	id, err := s.identities.SignIn(ctx, email, password)
	if err != nil {
		return Profile{}, identity.Identity{}, err
	}
	p, err := s.ResolveOrCreate(ctx, id, nil)
	if err != nil {
		return Profile{}, identity.Identity{}, err
	}
	if p.Role != RoleAdmin {
		logrus.WithField("uid", id.UID).Warn("non-admin profile attempted admin login")
		return Profile{}, identity.Identity{}, ErrProfileNotFound
	}
	return p, id, nil
}

func (s *Service) Get(ctx context.Context, uid string) (Profile, error) {
	return s.repo.Get(ctx, uid)
}

// UpdateContact applies a self-service edit. The role is carried over
// from the stored profile unchanged.
func (s *Service) UpdateContact(ctx context.Context, uid string, upd ContactUpdate) (Profile, error) {
	p, err := s.repo.Get(ctx, uid)
	if err != nil {
		return Profile{}, err
	}
	if upd.Name != nil {
		p.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Phone != nil {
		p.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		p.Address = strings.TrimSpace(*upd.Address)
	}
	return s.repo.Update(ctx, p)
}

// ListUsers returns customer profiles whose name, email or phone contains
// search (case-insensitive). Admins are never listed.
func (s *Service) ListUsers(ctx context.Context, search string) ([]Profile, error) {
	all, err := s.repo.ListByRole(ctx, RoleUser)
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return all, nil
	}
	out := make([]Profile, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.Email), search) ||
			strings.Contains(p.Phone, search) {
			out = append(out, p)
		}
	}
	return out, nil
}

// EnsureAdmin bootstraps an administrator account from configuration.
// This is the only code path that writes role admin.
func (s *Service) EnsureAdmin(ctx context.Context, email, password, name string) (Profile, error) {
	id, err := s.identities.SignIn(ctx, email, password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		id, err = s.identities.CreateAccount(ctx, email, password)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("admin account: %w", err)
	}

	p, err := s.repo.Get(ctx, id.UID)
	switch {
	case errors.Is(err, ErrNotFound):
		return s.repo.Create(ctx, Profile{
			UID:       id.UID,
			Email:     id.Email,
			Name:      name,
			Role:      RoleAdmin,
			CreatedAt: s.now().UTC(),
		})
	case err != nil:
		return Profile{}, err
	case p.Role == RoleAdmin:
		return p, nil
	default:
		logrus.WithFields(logrus.Fields{"uid": p.UID, "email": p.Email, "from": p.Role}).
			Warn("promoting existing profile to admin")
		p.Role = RoleAdmin
		return s.repo.Update(ctx, p)
	}
}
