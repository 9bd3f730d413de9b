package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateTemplate is a credential/certificate layout. Body holds the
// template text with placeholders filled in by the front-end at render time.
type CertificateTemplate struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ct *CertificateTemplate) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == uuid.Nil {
		ct.ID = uuid.New()
	}
	return nil
}

// Certificate DTOs
type CreateCertificateTemplateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

type UpdateCertificateTemplateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Body        *string `json:"body"`
	IsActive    *bool   `json:"is_active"`
}
