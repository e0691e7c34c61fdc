package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/model"
	"prepwise-backend/internal/repository"
	"prepwise-backend/utilities"
)

type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService interface
type AuthService interface {
	Register(in RegisterInput) (*model.User, error)
	Login(email, password string) (*model.User, *TokenPair, error)
	Refresh(refreshToken string) (*TokenPair, error)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService initializes authentication service
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(in RegisterInput) (*model.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.FullName == "" || in.Email == "" {
		return nil, apperr.New(apperr.ErrValidation, "full_name and email are required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.New(apperr.ErrValidation, "password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetUserByEmail(in.Email)
	if err == nil && existing != nil {
		return nil, apperr.New(apperr.ErrValidation, "email already in use")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}
	utilities.Info("registered user %d (%s)", user.ID, user.Email)
	return user, nil
}

func (s *authService) Login(email, password string) (*model.User, *TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, apperr.New(apperr.ErrUnauthenticated, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperr.New(apperr.ErrUnauthenticated, "invalid credentials")
	}

	access, refresh, err := utilities.GenerateTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return user, &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Refresh(refreshToken string) (*TokenPair, error) {
	access, refresh, err := utilities.RefreshTokens(refreshToken)
	if err != nil {
		return nil, apperr.New(apperr.ErrUnauthenticated, "invalid or expired refresh token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
