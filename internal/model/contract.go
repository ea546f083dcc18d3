package model

import (
	"time"

	"gorm.io/gorm"
)

// Contract statuses
const (
	ContractStatusDraft     = "Rascunho"
	ContractStatusScheduled = "Agendado"
	ContractStatusActive    = "Ativo"
	ContractStatusFinished  = "Finalizado"
	ContractStatusCancelled = "Cancelado"

	// Display-only overlay, never stored: computed from missing signatures.
	ContractStatusAwaitingSignature = "Aguardando Assinatura"
)

// Contract types
const (
	ContractTypeRental = "Aluguel"
	ContractTypeSale   = "Venda"
)

// Contract is a reservation or sale. Items holds one entry per committed
// physical unit, so the same item ID may appear multiple times.
type Contract struct {
	ID           string     `json:"id" gorm:"type:varchar(50);primaryKey"`
	ClientID     string     `json:"client_id" gorm:"type:uuid;index"`
	Status       string     `json:"status" gorm:"type:varchar(50);default:'Agendado';index"`
	ContractType string     `json:"contract_type" gorm:"type:varchar(20);default:'Aluguel'"`
	Items        StringList `json:"items" gorm:"type:jsonb"`
	// SaleItems marks the subset of Items billed at sale price inside a
	// mixed rental+sale contract.
	SaleItems       StringList     `json:"sale_items" gorm:"type:jsonb"`
	StartDate       time.Time      `json:"start_date"`
	EndDate         time.Time      `json:"end_date"`
	StartTime       string         `json:"start_time,omitempty" gorm:"type:varchar(10)"`
	EndTime         string         `json:"end_time,omitempty" gorm:"type:varchar(10)"`
	TotalValue      float64        `json:"total_value"`
	PaidAmount      float64        `json:"paid_amount"`
	ClientSignature string         `json:"client_signature,omitempty" gorm:"type:text"`
	StoreSignature  string         `json:"store_signature,omitempty" gorm:"type:text"`
	Notes           string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Balance returns the outstanding amount, always derived rather than stored
func (c *Contract) Balance() float64 {
	return c.TotalValue - c.PaidAmount
}

// CountsAgainstAvailability reports whether the contract's committed units
// consume capacity. Cancelled and finished contracts release their units.
func (c *Contract) CountsAgainstAvailability() bool {
	return c.Status != ContractStatusCancelled && c.Status != ContractStatusFinished
}

// OccupancyRange returns the date span the contract occupies. A sale has a
// single delivery date and occupies a one-day range.
func (c *Contract) OccupancyRange() (time.Time, time.Time) {
	if c.ContractType == ContractTypeSale {
		return c.StartDate, c.StartDate
	}
	return c.StartDate, c.EndDate
}

// DisplayStatus returns the status shown to operators. A scheduled or
// active contract missing either required signature is surfaced as
// awaiting signature without changing the stored state.
func (c *Contract) DisplayStatus() string {
	if c.Status == ContractStatusScheduled || c.Status == ContractStatusActive {
		if c.ClientSignature == "" || c.StoreSignature == "" {
			return ContractStatusAwaitingSignature
		}
	}
	return c.Status
}
