package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/pkg/auth"
	"github.com/storelane/storelane/pkg/errs"
)

// ErrInvalidCredentials is returned by SignIn for an unknown email or a
// wrong password. Controllers map it to 401.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService handles signup and token issuance. The rest of the system only
// sees the user id and role resolved from the token by the auth middleware.
type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// TokenResponse is the signin payload.
type TokenResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SignUp registers a new user with the USER role.
func (s *AuthService) SignUp(name, email, password string) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: email is already in use", errs.ErrValidation)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	return s.db.Create(&user).Error
}

// SignIn verifies credentials and issues a JWT.
func (s *AuthService) SignIn(email, password string) (TokenResponse, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return TokenResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenResponse{}, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return TokenResponse{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{
		Token: token,
		Type:  "Bearer",
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// UserByID resolves a user id to its record.
func (s *AuthService) UserByID(id uint) (models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, fmt.Errorf("%w: user %d", errs.ErrNotFound, id)
	}
	return user, err
}
