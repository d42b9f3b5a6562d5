package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// UserService manages the staff directory. All mutations are
// manager-only; the handlers enforce that via middleware and the
// service re-checks to keep the rule close to the data.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	now        func() time.Time
}

// UserDependencies bundles collaborators.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	BcryptCost int
	Clock      func() time.Time
}

// UserCreateInput describes a new staff member. Role is the stored
// role string, e.g. "manager" or "specialist of support".
type UserCreateInput struct {
	Username        string
	FirstName       string
	LastName        string
	Password        string
	Role            string
	AccessibleMenus []string
}

// UserUpdateInput carries mutable staff fields. Nil pointers leave the
// field untouched.
type UserUpdateInput struct {
	FirstName       *string
	LastName        *string
	Role            *string
	AccessibleMenus []string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &UserService{
		users:      deps.UserRepo,
		bcryptCost: deps.BcryptCost,
		now:        clock,
	}
}

// CreateUser registers a staff member. The role string must parse into
// a known role shape.
func (s *UserService) CreateUser(ctx context.Context, actor *domain.User, input UserCreateInput) (*domain.User, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, apperrors.NewValidationError("username required", nil)
	}
	if len(input.Password) < 6 {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	role := domain.ParseRole(input.Role)
	if role.Kind == domain.RoleKindUnknown {
		return nil, apperrors.NewValidationError("unrecognized role", map[string]any{"role": input.Role})
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Username:        username,
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		PasswordHash:    hash,
		Role:            role,
		AccessibleMenus: input.AccessibleMenus,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewTransientIO("could not create user", err)
	}
	return user, nil
}

// GetUser fetches one staff member.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns the whole directory.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateUser edits a staff member.
func (s *UserService) UpdateUser(ctx context.Context, actor *domain.User, id int64, input UserUpdateInput) (*domain.User, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		role := domain.ParseRole(*input.Role)
		if role.Kind == domain.RoleKindUnknown {
			return nil, apperrors.NewValidationError("unrecognized role", map[string]any{"role": *input.Role})
		}
		user.Role = role
	}
	if input.AccessibleMenus != nil {
		user.AccessibleMenus = input.AccessibleMenus
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// DeleteUser removes a staff member. Self-deletion is rejected so a
// manager cannot lock themselves out mid-session.
func (s *UserService) DeleteUser(ctx context.Context, actor *domain.User, id int64) error {
	if err := requireManager(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return apperrors.NewValidationError("cannot delete own account", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func requireManager(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !actor.Role.IsManager() {
		return apperrors.NewForbidden("manager role required")
	}
	return nil
}
