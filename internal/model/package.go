package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Package is a named bundle definition sold at a flat price. It binds to
// categories and quantities only; concrete units are assigned per contract
// at fulfillment time.
type Package struct {
	ID          string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	Description string         `json:"description,omitempty" gorm:"type:text"`
	Price       float64        `json:"price" gorm:"not null"`
	ItemsConfig PackageConfig  `json:"items_config" gorm:"type:jsonb"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns a UUID if none was provided
func (p *Package) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
