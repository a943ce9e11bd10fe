package service

import (
	"errors"
	"fmt"

	"github.com/wandertours/backend/internal/models"
	"github.com/wandertours/backend/pkg/utils"
	"gorm.io/gorm"
)

type TourCatalog interface {
	Create(tour *models.Tour) (*models.Tour, error)
	GetByID(id uint) (*models.Tour, error)
	GetBySlug(slug string) (*models.Tour, error)
	GetAll() ([]models.Tour, error)
	SlugExists(slug string) (bool, error)
	Update(tour *models.Tour) error
	ReplaceGuides(tour *models.Tour, guides []models.User) error
	Delete(id uint) error
}

type GuideDirectory interface {
	GetByID(id uint) (*models.User, error)
}

type TourService struct {
	tours TourCatalog
	users GuideDirectory
}

func NewTourService(tours TourCatalog, users GuideDirectory) *TourService {
	return &TourService{
		tours: tours,
		users: users,
	}
}

func (s *TourService) GetAllTours() ([]models.Tour, error) {
	return s.tours.GetAll()
}

func (s *TourService) GetTourBySlug(slug string) (*models.Tour, error) {
	tour, err := s.tours.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return tour, nil
}

func (s *TourService) GetTour(id uint) (*models.Tour, error) {
	tour, err := s.tours.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return tour, nil
}

func (s *TourService) CreateTour(req models.TourRequest) (*models.Tour, error) {
	slug, err := s.uniqueSlug(req.Name)
	if err != nil {
		return nil, err
	}

	tour := &models.Tour{
		Name:         req.Name,
		Slug:         slug,
		Duration:     req.Duration,
		MaxGroupSize: req.MaxGroupSize,
		Difficulty:   req.Difficulty,
		Price:        req.Price,
		Summary:      req.Summary,
		Description:  req.Description,
		ImageCover:   req.ImageCover,
	}
	if tour.MaxGroupSize == 0 {
		tour.MaxGroupSize = 15
	}

	guides, err := s.resolveGuides(req.GuideIDs)
	if err != nil {
		return nil, err
	}
	tour.Guides = guides

	return s.tours.Create(tour)
}

func (s *TourService) UpdateTour(id uint, req models.UpdateTourRequest) (*models.Tour, error) {
	tour, err := s.GetTour(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != tour.Name {
		tour.Name = *req.Name
		slug, err := s.uniqueSlug(*req.Name)
		if err != nil {
			return nil, err
		}
		tour.Slug = slug
	}
	if req.Duration != nil {
		tour.Duration = *req.Duration
	}
	if req.MaxGroupSize != nil {
		tour.MaxGroupSize = *req.MaxGroupSize
	}
	if req.Difficulty != nil {
		tour.Difficulty = *req.Difficulty
	}
	if req.Price != nil {
		tour.Price = *req.Price
	}
	if req.Summary != nil {
		tour.Summary = *req.Summary
	}
	if req.Description != nil {
		tour.Description = *req.Description
	}
	if req.ImageCover != nil {
		tour.ImageCover = *req.ImageCover
	}

	if err := s.tours.Update(tour); err != nil {
		return nil, err
	}

	if req.GuideIDs != nil {
		guides, err := s.resolveGuides(req.GuideIDs)
		if err != nil {
			return nil, err
		}
		if err := s.tours.ReplaceGuides(tour, guides); err != nil {
			return nil, err
		}
		tour.Guides = guides
	}

	return tour, nil
}

func (s *TourService) DeleteTour(id uint) error {
	if _, err := s.GetTour(id); err != nil {
		return err
	}
	return s.tours.Delete(id)
}

// uniqueSlug suffixes the slug with a short random string when the name
// collides with an existing tour.
func (s *TourService) uniqueSlug(name string) (string, error) {
	slug := utils.Slugify(name)

	exists, err := s.tours.SlugExists(slug)
	if err != nil {
		return "", err
	}
	if exists {
		slug = fmt.Sprintf("%s-%s", slug, utils.GenerateRandomString(6))
	}
	return slug, nil
}

func (s *TourService) resolveGuides(ids []uint) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	guides := make([]models.User, 0, len(ids))
	for _, id := range ids {
		guide, err := s.users.GetByID(id)
		if err != nil {
			return nil, fmt.Errorf("guide %d not found", id)
		}
		if guide.Role != models.RoleGuide && guide.Role != models.RoleLeadGuide {
			return nil, fmt.Errorf("user %d is not a guide", id)
		}
		guides = append(guides, *guide)
	}
	return guides, nil
}
