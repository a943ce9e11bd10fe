package repository

import (
	"github.com/wandertours/backend/internal/models"
	"gorm.io/gorm"
)

type TourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) Create(tour *models.Tour) (*models.Tour, error) {
	result := r.db.Create(tour)
	if result.Error != nil {
		return nil, result.Error
	}
	return tour, nil
}

func (r *TourRepository) GetByID(id uint) (*models.Tour, error) {
	var tour models.Tour
	err := r.db.First(&tour, id).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *TourRepository) GetBySlug(slug string) (*models.Tour, error) {
	var tour models.Tour
	err := r.db.Preload("Guides").Where("slug = ?", slug).First(&tour).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *TourRepository) GetAll() ([]models.Tour, error) {
	var tours []models.Tour
	err := r.db.Preload("Guides").Order("created_at DESC").Find(&tours).Error
	return tours, err
}

func (r *TourRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Tour{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *TourRepository) Update(tour *models.Tour) error {
	return r.db.Save(tour).Error
}

func (r *TourRepository) ReplaceGuides(tour *models.Tour, guides []models.User) error {
	return r.db.Model(tour).Association("Guides").Replace(guides)
}

func (r *TourRepository) Delete(id uint) error {
	return r.db.Delete(&models.Tour{}, id).Error
}
