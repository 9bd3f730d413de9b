package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Person statuses
const (
	PersonStatusActive   = "ACTIVE"
	PersonStatusInactive = "INACTIVE"
)

// Person is both an HR record and an API principal. Quick-added trainees
// start with is_complete=false and no password until HR fills them in.
type Person struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	FirstName  string    `json:"first_name" gorm:"not null"`
	LastName   string    `json:"last_name" gorm:"not null"`
	Title      string    `json:"title"`
	Email      *string   `json:"email" gorm:"uniqueIndex"`
	Department string    `json:"department"`
	Password   string    `json:"-"`
	FCMToken   string    `json:"-" gorm:"column:fcm_token"`
	IsComplete bool      `json:"is_complete" gorm:"default:false"`
	Status     string    `json:"status" gorm:"not null;default:'ACTIVE'"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Person) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Auth DTOs
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Title     string `json:"title"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	Person Person `json:"person"`
}

// Person DTOs
type CreatePersonRequest struct {
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name" validate:"required"`
	Title      string  `json:"title"`
	Email      *string `json:"email" validate:"omitempty,email"`
	Department string  `json:"department"`
}

type UpdatePersonRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Title      *string `json:"title"`
	Email      *string `json:"email"`
	Department *string `json:"department"`
	Status     *string `json:"status"`
}
