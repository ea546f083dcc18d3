package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item statuses. Anything outside the operational set means one physical
// unit of the item is out of circulation (workshop, laundry, quarantine).
const (
	ItemStatusAvailable     = "Disponível"
	ItemStatusReserved      = "Reservado"
	ItemStatusRented        = "Alugado"
	ItemStatusReturnPending = "Devolução"
	ItemStatusAtelier       = "No Atelier"
	ItemStatusLaundry       = "Na Lavanderia"
	ItemStatusQuarantine    = "Quarentena"
)

// Item represents one catalog record carrying TotalQuantity interchangeable
// physical units of a garment. Availability is never stored on the record;
// it is recomputed from the contract list on every query.
type Item struct {
	ID            string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null"`
	Type          string         `json:"type" gorm:"type:varchar(100);not null;index"`
	Size          string         `json:"size" gorm:"type:varchar(50)"`
	Color         string         `json:"color" gorm:"type:varchar(50)"`
	TotalQuantity int            `json:"total_quantity" gorm:"default:1"`
	Status        string         `json:"status" gorm:"type:varchar(50);default:'Disponível'"`
	StatusColor   string         `json:"status_color,omitempty" gorm:"type:varchar(20)"`
	Price         float64        `json:"price" gorm:"not null"`
	SalePrice     *float64       `json:"sale_price,omitempty"`
	ImageURL      string         `json:"image_url,omitempty" gorm:"type:text"`
	Location      string         `json:"location,omitempty" gorm:"type:varchar(100)"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns a UUID if none was provided
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// Units returns the physical unit count, treating legacy records without
// a stored quantity as single-unit.
func (i *Item) Units() int {
	if i.TotalQuantity < 1 {
		return 1
	}
	return i.TotalQuantity
}

// Operational reports whether the item's physical status keeps all units
// in circulation. A non-operational status blocks exactly one unit of the
// group regardless of TotalQuantity.
func (i *Item) Operational() bool {
	switch i.Status {
	case ItemStatusAvailable, ItemStatusReserved, ItemStatusRented, ItemStatusReturnPending:
		return true
	}
	return false
}

// GroupKey identifies a product group: items sharing this tuple are pooled
// as one purchasable line in the catalog.
type GroupKey struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Size  string `json:"size"`
	Color string `json:"color"`
}

// GroupKey returns the product-group identity for the item. A missing
// color is normalized to the empty string so legacy records group together.
func (i *Item) GroupKey() GroupKey {
	return GroupKey{
		Name:  i.Name,
		Type:  i.Type,
		Size:  i.Size,
		Color: i.Color,
	}
}
