package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/DukeRupert/parkiez/internal/backend"
	"github.com/DukeRupert/parkiez/internal/domain"
)

// SignInBackend is the subset of the backend client used for login.
type SignInBackend interface {
	SignIn(ctx context.Context, creds backend.Credentials) (*domain.Operator, error)
}

// AuthService signs operators in against the Parkiez backend.
type AuthService interface {
	// Login exchanges credentials for an operator session.
	// Returns *domain.ValidationError when a field is blank and
	// domain.EUNAUTHORIZED when the backend rejects the credentials.
	Login(ctx context.Context, username, password string) (*domain.Operator, error)
}

type authService struct {
	backend SignInBackend
	logger  *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(backend SignInBackend, logger *slog.Logger) AuthService {
	return &authService{
		backend: backend,
		logger:  logger,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.Operator, error) {
	const op = "AuthService.Login"

	username = strings.TrimSpace(username)
	fields := map[string]string{}
	if username == "" {
		fields["username"] = "Phone number is required"
	}
	if password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		return nil, &domain.ValidationError{Op: op, Fields: fields}
	}

	operator, err := s.backend.SignIn(ctx, backend.Credentials{Username: username, Password: password})
	if err != nil {
		if domain.ErrorCode(err) == domain.EUNAUTHORIZED || domain.ErrorCode(err) == domain.EINVALID {
			s.logger.InfoContext(ctx, "login rejected", "username", username)
			return nil, domain.Unauthorized(op, "Invalid phone number or password")
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "operator signed in", "username", operator.Username)
	return operator, nil
}
