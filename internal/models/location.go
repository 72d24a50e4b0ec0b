package models

import "time"

type Location struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Lat       float64   `json:"lat" gorm:"not null;uniqueIndex:idx_location_coords"`
	Long      float64   `json:"long" gorm:"not null;uniqueIndex:idx_location_coords"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateLocationRequest struct {
	Name string   `json:"name" validate:"required,max=255"`
	Lat  *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Long *float64 `json:"long" validate:"required,gte=-180,lte=180"`
}
