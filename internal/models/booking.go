package models

import (
	"time"
)

// One booking per (tour, user). The composite unique index is the backstop
// against both notification paths creating the same booking concurrently.
type Booking struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TourID    uint      `json:"tour_id" gorm:"not null;uniqueIndex:idx_bookings_tour_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_bookings_tour_user"`
	Price     float64   `json:"price" gorm:"not null"`
	Paid      bool      `json:"paid" gorm:"not null;default:true"`
	Tour      *Tour     `json:"tour,omitempty" gorm:"foreignKey:TourID"`
	User      *User     `json:"-" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Manual creation through the admin endpoints only. The payment flow builds
// bookings from the checkout session instead.
type BookingRequest struct {
	TourID uint    `json:"tour_id" validate:"required"`
	UserID uint    `json:"user_id" validate:"required"`
	Price  float64 `json:"price" validate:"required,gt=0"`
	Paid   bool    `json:"paid"`
}

type UpdateBookingRequest struct {
	Price *float64 `json:"price"`
	Paid  *bool    `json:"paid"`
}
