package service

import (
	"context"
	"errors"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService interface {
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, user *model.User, req *UpdateProfileRequest) (*model.UserResponse, error)
	ChangeRole(ctx context.Context, id uuid.UUID, role model.Role, actor *model.User) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID, actor *model.User) error
}

type UpdateProfileRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
}

type ChangeRoleRequest struct {
	Role model.Role `json:"role" validate:"required"`
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	audit    AuditService
	log      *zap.Logger
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository, audit AuditService, log *zap.Logger) UserService {
	return &userService{
		db:       db,
		userRepo: userRepo,
		audit:    audit,
		log:      log,
	}
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	response := user.ToResponse()
	return &response, nil
}

// UpdateProfile changes the caller's own name and e-mail. Role and password have their own endpoints.
func (s *userService) UpdateProfile(ctx context.Context, user *model.User, req *UpdateProfileRequest) (*model.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	user.UpdatedBy = user.Username

	if err := s.userRepo.UpdateProfile(user); err != nil {
		return nil, err
	}
	return s.GetUserByID(user.ID)
}

func (s *userService) ChangeRole(ctx context.Context, id uuid.UUID, role model.Role, actor *model.User) (*model.UserResponse, error) {
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Message: "select a valid choice"}
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.UpdateRole(tx, id, role); err != nil {
			return err
		}
		return s.audit.Record(tx, actor, model.AuditUpdate, "user", id, user.Username+" -> "+role.String())
	})
	if err != nil {
		return nil, err
	}
	return s.GetUserByID(id)
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID, actor *model.User) error {
	if actor != nil && actor.ID == id {
		return ErrCannotDeleteSelf
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Delete(tx, id); err != nil {
			return err
		}
		return s.audit.Record(tx, actor, model.AuditDelete, "user", id, user.Username)
	})
}
