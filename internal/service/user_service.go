package service

import (
	"errors"

	"gorm.io/gorm"

	"prepwise-backend/internal/apperr"
	"prepwise-backend/internal/model"
	"prepwise-backend/internal/repository"
)

type UserService interface {
	GetProfile(userID uint) (*model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.ErrNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}
