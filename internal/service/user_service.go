package service

import (
	"github.com/wandertours/backend/internal/models"
	"github.com/wandertours/backend/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// GetGuides returns every user that can be assigned to a tour.
func (s *UserService) GetGuides() ([]models.User, error) {
	return s.userRepo.GetByRoles([]string{models.RoleGuide, models.RoleLeadGuide})
}
