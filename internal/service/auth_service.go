package service

import (
	"errors"
	"time"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/pkg/jwt"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(req *RegisterRequest) (*model.User, error)
	Login(req *LoginRequest) (*LoginResponse, error)
	Refresh(refreshToken string) (*jwt.TokenPair, error)
	ChangePassword(user *model.User, req *ChangePasswordRequest) error
	Authenticate(accessToken string) (*model.User, error)
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Password2 string `json:"password2" validate:"required"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type LoginResponse struct {
	jwt.TokenPair
	User model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Register creates a Staff account. Roles are only changed by an Admin.
func (s *authService) Register(req *RegisterRequest) (*model.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Password != req.Password2 {
		return nil, &ValidationError{Field: "password", Message: "Password fields didn't match."}
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      model.RoleStaff,
		IsActive:  true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &ValidationError{Field: "username", Message: "a user with that username already exists"}
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return &LoginResponse{TokenPair: *pair, User: user.ToResponse()}, nil
}

// Refresh trades a valid refresh token for a new pair. The role is re-read
// from the database so a demotion takes effect on the next refresh.
func (s *authService) Refresh(refreshToken string) (*jwt.TokenPair, error) {
	claims, err := s.tokens.Validate(refreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil || !user.IsActive {
		return nil, jwt.ErrInvalidToken
	}
	return s.tokens.GeneratePair(user.ID, user.Username, user.Role)
}

func (s *authService) ChangePassword(user *model.User, req *ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if !user.CheckPassword(req.OldPassword) {
		return &ValidationError{Field: "old_password", Message: ErrWrongPassword.Error()}
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(user.ID, user.Password)
}

// Authenticate resolves an access token to a live user
func (s *authService) Authenticate(accessToken string) (*model.User, error) {
	claims, err := s.tokens.Validate(accessToken, jwt.AccessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, jwt.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return user, nil
}
