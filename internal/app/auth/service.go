// Package auth provides registration, login and profile lookup.
package auth

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/tunecrate/tunecrate/internal/apperr"
	"github.com/tunecrate/tunecrate/internal/app/validate"
	"github.com/tunecrate/tunecrate/internal/domain/user"
)

// UserRepository persists user accounts. Lookups return (nil, nil) when the
// user does not exist.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Create(ctx context.Context, u *user.User) (*user.User, error)
}

// PlaylistCounter reports how many playlists a user owns.
type PlaylistCounter interface {
	CountByOwner(ctx context.Context, owner string) (int, error)
}

// TokenIssuer signs bearer tokens for authenticated principals.
type TokenIssuer interface {
	Issue(username string, role user.Role) (string, error)
}

// Service implements the authentication operations.
type Service struct {
	users     UserRepository
	playlists PlaylistCounter
	tokens    TokenIssuer
}

// NewService creates an auth service.
func NewService(users UserRepository, playlists PlaylistCounter, tokens TokenIssuer) *Service {
	return &Service{users: users, playlists: playlists, tokens: tokens}
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// Register creates a new account with the USER role. Duplicate usernames
// and emails are business rule violations, not conflicts: they are checked
// up front so the client gets a specific code.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if err := validate.Struct(in); err != nil {
		return err
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return errors.Wrap(err, "username lookup failed")
	}
	if existing != nil {
		return apperr.BusinessRule("Username is already taken!", "DUPLICATE_USERNAME")
	}

	existing, err = s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return errors.Wrap(err, "email lookup failed")
	}
	if existing != nil {
		return apperr.BusinessRule("Email is already in use!", "DUPLICATE_EMAIL")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "password hashing failed")
	}

	_, err = s.users.Create(ctx, &user.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         user.RoleUser,
	})
	if err != nil {
		return errors.Wrap(err, "user create failed")
	}

	zlog.Info().Str("user", in.Username).Msg("user registered")
	return nil
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Role     user.Role `json:"role"`
}

// Login verifies the credentials and issues a token. Unknown usernames and
// wrong passwords are indistinguishable to the client.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, errors.Wrap(err, "username lookup failed")
	}
	if u == nil {
		return LoginResult{}, apperr.Unauthorized("Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, apperr.Unauthorized("Invalid username or password")
	}

	tok, err := s.tokens.Issue(u.Username, u.Role)
	if err != nil {
		return LoginResult{}, errors.Wrap(err, "token issue failed")
	}

	return LoginResult{Token: tok, Username: u.Username, Email: u.Email, Role: u.Role}, nil
}

// Profile is the authenticated user's own account view.
type Profile struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName,omitempty"`
	LastName      string    `json:"lastName,omitempty"`
	Role          user.Role `json:"role"`
	PlaylistCount int       `json:"playlistCount"`
}

// Profile returns the account details for the given principal.
func (s *Service) Profile(ctx context.Context, username string) (Profile, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return Profile{}, errors.Wrap(err, "username lookup failed")
	}
	if u == nil {
		return Profile{}, apperr.NotFound("User", "username", username)
	}

	count, err := s.playlists.CountByOwner(ctx, u.Username)
	if err != nil {
		return Profile{}, errors.Wrap(err, "playlist count failed")
	}

	return Profile{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		PlaylistCount: count,
	}, nil
}
