package repository

import (
	"github.com/wandertours/backend/internal/models"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Preload("Tour").First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetByTourAndUser(tourID, userID uint) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Where("tour_id = ? AND user_id = ?", tourID, userID).First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) GetUserBookings(userID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Preload("Tour").Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) GetAll() ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.Preload("Tour").Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) Update(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

func (r *BookingRepository) Delete(id uint) error {
	return r.db.Delete(&models.Booking{}, id).Error
}
