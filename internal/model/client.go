package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RentalClient represents a customer of the store
type RentalClient struct {
	ID           string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string         `json:"name" gorm:"type:varchar(255);not null"`
	Phone        string         `json:"phone,omitempty" gorm:"type:varchar(30)"`
	Email        string         `json:"email,omitempty" gorm:"type:varchar(255)"`
	CPF          string         `json:"cpf,omitempty" gorm:"type:varchar(14)"`
	CEP          string         `json:"cep,omitempty" gorm:"type:varchar(9)"`
	Street       string         `json:"street,omitempty" gorm:"type:varchar(255)"`
	Number       string         `json:"number,omitempty" gorm:"type:varchar(20)"`
	Complement   string         `json:"complement,omitempty" gorm:"type:varchar(100)"`
	Neighborhood string         `json:"neighborhood,omitempty" gorm:"type:varchar(100)"`
	City         string         `json:"city,omitempty" gorm:"type:varchar(100)"`
	State        string         `json:"state,omitempty" gorm:"type:varchar(2)"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns a UUID if none was provided
func (r *RentalClient) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
