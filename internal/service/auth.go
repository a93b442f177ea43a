package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/model"
	"github.com/iliyamo/study-room-reservation/internal/repository"
	"github.com/iliyamo/study-room-reservation/internal/utils"
	"github.com/iliyamo/study-room-reservation/internal/validation"
)

// AuthService registers and authenticates accounts.  Sessions are handled
// by the caller once a user is returned.
type AuthService struct {
	users UserStore
	cost  int
	log   *zap.Logger
}

func NewAuthService(users UserStore, bcryptCost int, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, cost: bcryptCost, log: log}
}

// Register creates an account.  Only an authenticated admin may create
// another admin; everyone else gets a student account or ErrForbidden when
// asking for admin.
func (s *AuthService) Register(ctx context.Context, caller *model.User, p validation.Payload) (*model.User, error) {
	if err := fromResult(validation.User(p)); err != nil {
		return nil, err
	}
	role := model.RoleStudent
	if r := validation.String(p, "role"); r != "" {
		role = model.Role(r)
	}
	if role == model.RoleAdmin && !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.create(ctx, strings.TrimSpace(validation.String(p, "username")), validation.String(p, "password"), role)
}

// Login checks credentials and returns the matching user.
func (s *AuthService) Login(ctx context.Context, p validation.Payload) (*model.User, error) {
	username := strings.TrimSpace(validation.String(p, "username"))
	password := validation.String(p, "password")
	if username == "" || password == "" {
		return nil, &UnauthorizedError{Message: "Missing credentials"}
	}
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "Invalid username or password"}
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, &UnauthorizedError{Message: "Invalid username or password"}
	}
	return u, nil
}

// User loads the account behind a session.
func (s *AuthService) User(ctx context.Context, id uint64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// EnsureAdmin creates the bootstrap admin unless the username is taken.
// It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if _, err := s.create(ctx, username, password, model.RoleAdmin); err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return false, nil
		}
		return false, err
	}
	s.log.Info("bootstrap admin created", zap.String("username", username))
	return true, nil
}

func (s *AuthService) create(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, username, hash, role)
	if errors.Is(err, repository.ErrConflict) {
		return nil, &ConflictError{Message: "Username already exists"}
	}
	return u, err
}
