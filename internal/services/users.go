package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harentsoaR/pharmaca-api/internal/models"
	"github.com/harentsoaR/pharmaca-api/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users store.UserStore
	now   func() time.Time
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users, now: time.Now}
}

// Register records a first sign-in. New users are always customers; roles
// only change through SetRole.
func (s *UserService) Register(ctx context.Context, u *models.User) (*models.User, error) {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	u.ID = primitive.NewObjectID()
	u.Role = models.RoleCustomer
	u.CreatedAt = s.now()

	outcome, err := s.users.InsertIfAbsent(ctx, u)
	if err != nil {
		return nil, err
	}
	if outcome == store.AlreadyExists {
		return nil, fmt.Errorf("user %w", ErrConflict)
	}
	return u, nil
}

func (s *UserService) Role(ctx context.Context, email string) (models.Role, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// SetRole changes another user's role. Nobody changes their own role, which
// keeps the last admin from locking everyone out.
func (s *UserService) SetRole(ctx context.Context, actorEmail string, id primitive.ObjectID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role %q", ErrInvalidInput, role)
	}
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(target.Email, actorEmail) {
		return nil, fmt.Errorf("%w: cannot change your own role", ErrInvalidInput)
	}
	if err := s.users.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	target.Role = role
	return target, nil
}
