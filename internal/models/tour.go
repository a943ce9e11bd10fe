package models

import (
	"time"
)

type Tour struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Slug            string    `json:"slug" gorm:"unique;not null"`
	Duration        int       `json:"duration" gorm:"not null"`
	MaxGroupSize    int       `json:"max_group_size" gorm:"not null;default:15"`
	Difficulty      string    `json:"difficulty" gorm:"not null;default:'medium'"`
	Price           float64   `json:"price" gorm:"not null"`
	Summary         string    `json:"summary" gorm:"not null"`
	Description     string    `json:"description"`
	ImageCover      string    `json:"image_cover"`
	RatingsAverage  float64   `json:"ratings_average" gorm:"default:4.5"`
	RatingsQuantity int       `json:"ratings_quantity" gorm:"default:0"`
	Guides          []User    `json:"guides,omitempty" gorm:"many2many:tour_guides;"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type TourRequest struct {
	Name         string  `json:"name" validate:"required"`
	Duration     int     `json:"duration" validate:"required,min=1"`
	MaxGroupSize int     `json:"max_group_size" validate:"omitempty,min=1"`
	Difficulty   string  `json:"difficulty" validate:"required,difficulty"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	Summary      string  `json:"summary" validate:"required"`
	Description  string  `json:"description"`
	ImageCover   string  `json:"image_cover"`
	GuideIDs     []uint  `json:"guide_ids"`
}

type UpdateTourRequest struct {
	Name         *string  `json:"name"`
	Duration     *int     `json:"duration"`
	MaxGroupSize *int     `json:"max_group_size"`
	Difficulty   *string  `json:"difficulty" validate:"omitempty,difficulty"`
	Price        *float64 `json:"price"`
	Summary      *string  `json:"summary"`
	Description  *string  `json:"description"`
	ImageCover   *string  `json:"image_cover"`
	GuideIDs     []uint   `json:"guide_ids"`
}
