package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shivanand-hulikatti/sports-team-manager/internal/model"
	"github.com/Shivanand-hulikatti/sports-team-manager/internal/repository"
)

const minPasswordLength = 6

// AuthService manages accounts and server-side sessions.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	clock    clockwork.Clock
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewAuthService constructs an AuthService. Sessions live for ttl.
func NewAuthService(users UserStore, sessions SessionStore, clock clockwork.Clock, ttl time.Duration, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		clock:    clock,
		ttl:      ttl,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Signup creates a player or manager account.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	role := req.Role
	if role == "" {
		role = model.RolePlayer
	}
	if role != model.RolePlayer && role != model.RoleManager {
		return nil, invalid("role", "must be %q or %q", model.RolePlayer, model.RoleManager)
	}
	return s.createUser(ctx, req.Username, req.Email, req.Password, role, req.Position)
}

func (s *AuthService) createUser(ctx context.Context, username, email, password string, role model.Role, position string) (*model.User, error) {
	username, err := required("username", username)
	if err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if !isValidEmail(email) {
		return nil, invalid("email", "is not a valid email address")
	}
	if len(password) < minPasswordLength {
		return nil, invalid("password", "must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	position = strings.TrimSpace(position)
	if position == "" {
		position = "Unassigned"
	}
	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Position:     position,
		Status:       "Active",
		CreatedAt:    s.clock.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, repository.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("account created")
	return user, nil
}

// Login checks credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.Session, *model.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, nil, invalid("", "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info().Str("user_id", user.ID).Msg("login rejected: wrong password")
		return nil, nil, ErrInvalidCredentials
	}

	now := s.clock.Now().UTC()
	session := &model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return session, user, nil
}

// Logout ends a session. Unknown sessions are ignored.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Resolve returns the identity bound to sessionID. Unknown and expired
// sessions yield ErrUnauthorized; expired ones are removed.
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (model.Identity, error) {
	if sessionID == "" {
		return model.Identity{}, ErrUnauthorized
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Identity{}, ErrUnauthorized
		}
		return model.Identity{}, fmt.Errorf("load session: %w", err)
	}
	if !session.ExpiresAt.After(s.clock.Now()) {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.Warn().Err(err).Msg("failed to delete expired session")
		}
		return model.Identity{}, ErrUnauthorized
	}
	return session.Identity(), nil
}

// Me returns the account of the signed-in caller.
func (s *AuthService) Me(ctx context.Context, actor model.Identity) (*model.User, error) {
	if actor.IsZero() {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates an admin account for email unless one exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			s.logger.Warn().Str("email", email).Str("role", string(existing.Role)).
				Msg("bootstrap admin email belongs to a non-admin account")
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("load admin: %w", err)
	}

	if _, err := s.createUser(ctx, username, email, password, model.RoleAdmin, ""); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	return nil
}

// isValidEmail does a basic structural check.
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
