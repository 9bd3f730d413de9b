package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"uniqueIndex;not null"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreditHours float64   `json:"credit_hours" gorm:"default:0"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Course DTOs
type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	CreditHours float64 `json:"credit_hours"`
}

type UpdateCourseRequest struct {
	Title       *string  `json:"title"`
	Code        *string  `json:"code"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	CreditHours *float64 `json:"credit_hours"`
	IsActive    *bool    `json:"is_active"`
}
