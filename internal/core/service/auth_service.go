package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/booking-api/internal/pkg/metrics"
	"github.com/medicare/booking-api/internal/core/domain"
	"github.com/medicare/booking-api/internal/core/ports"
)

// AuthService implements registration, login and token authentication.
type AuthService struct {
	store  ports.CredentialStore
	hasher ports.PasswordHasher
	tokens ports.TokenCodec
	log    zerolog.Logger

	// dummyHash is compared against when the user is unknown so a failed
	// login costs the same whether or not the username exists.
	dummyHash string
}

func NewAuthService(store ports.CredentialStore, hasher ports.PasswordHasher, tokens ports.TokenCodec, log zerolog.Logger) *AuthService {
	dummy, err := hasher.Hash("unknown-user")
	if err != nil {
		log.Warn().Err(err).Msg("could not prepare dummy password hash")
	}
	return &AuthService{store: store, hasher: hasher, tokens: tokens, log: log, dummyHash: dummy}
}

// Register creates a patient or doctor account. Admin accounts cannot be
// self-registered.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	role := domain.RolePatient
	if in.Role != "" {
		r, err := domain.ParseRole(in.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}
	if role == domain.RoleAdmin {
		return nil, domain.ErrRoleNotAllowed
	}
	return s.create(ctx, in, role)
}

// Provision creates an account with any role. It is only used by startup
// seeding, never by the HTTP layer.
func (s *AuthService) Provision(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	return s.create(ctx, in, role)
}

func (s *AuthService) create(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || in.Password == "" || email == "" {
		return nil, domain.ErrMissingFields
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.store.Save(ctx, &domain.User{
		Username:     username,
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues(string(role)).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", string(role)).Msg("user registered")
	return created, nil
}

// ensureAvailable rejects taken usernames or emails before hashing. The store
// enforces the same rule with unique indexes for concurrent registrations.
func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("register: lookup username: %w", err)
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("register: lookup email: %w", err)
	}
	return nil
}

// Login verifies credentials and returns a signed token. Unknown users and
// wrong passwords are both reported as domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrUnauthorized
	}

	user, err := s.lookup(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, fmt.Errorf("login: %w", err)
		}
		s.hasher.Check(password, s.dummyHash)
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrUnauthorized
	}

	if !s.hasher.Check(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrUnauthorized
	}

	token, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, user, nil
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	user, err := s.store.FindByUsername(ctx, identifier)
	if errors.Is(err, domain.ErrUserNotFound) && strings.Contains(identifier, "@") {
		return s.store.FindByEmail(ctx, strings.ToLower(identifier))
	}
	return user, err
}

// Authenticate resolves a bearer token to its principal.
func (s *AuthService) Authenticate(_ context.Context, token string) (domain.Principal, error) {
	if token == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	p, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}
